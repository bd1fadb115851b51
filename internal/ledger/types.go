package ledger

import "fmt"

// Asset statuses reported by the node.
const (
	AssetStatusPending   = "pending"
	AssetStatusCompleted = "completed"
	AssetStatusFailed    = "failed"
)

// PublishOptions carries the node-side knobs for one publish. Epochs is the
// number of epochs the asset stays replicated on the network.
type PublishOptions struct {
	Privacy     string `json:"privacy"`
	Priority    int    `json:"priority"`
	Epochs      int    `json:"epochs"`
	MaxAttempts int    `json:"maxAttempts"`
}

// Metadata identifies the submitting record so the asset can be traced back
// from the node.
type Metadata struct {
	EntityType  string `json:"entityType"`
	EntityID    string `json:"entityId"`
	OperationID string `json:"operationId"`
}

// Handle references an accepted asset. UAL is only present when the node
// confirmed the asset synchronously.
type Handle struct {
	ID  string
	UAL string
}

// Confirmation is the terminal result of a publish once the asset is
// anchored on the network.
type Confirmation struct {
	UAL         string
	DatasetRoot string
}

type publishRequest struct {
	Content        map[string]any `json:"content"`
	Metadata       Metadata       `json:"metadata"`
	PublishOptions PublishOptions `json:"publishOptions"`
}

type publishResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	UAL    string `json:"ual,omitempty"`
}

type assetStatusResponse struct {
	Status      string `json:"status"`
	UAL         string `json:"ual,omitempty"`
	DatasetRoot string `json:"datasetRoot,omitempty"`
	LastError   string `json:"lastError,omitempty"`
}

// NodeRejectedError reports that the node refused an asset. Rejections are
// not retryable; resubmitting the same payload yields the same answer.
type NodeRejectedError struct {
	StatusCode int
	Reason     string
}

func (e *NodeRejectedError) Error() string {
	return fmt.Sprintf("ledger node rejected the asset (status %d): %s", e.StatusCode, e.Reason)
}
