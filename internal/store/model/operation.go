package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Publish lifecycle. Transitions are monotonic: pending -> publishing ->
// completed|failed, and terminal states are never left.
const (
	PublishStatusPending    = "pending"
	PublishStatusPublishing = "publishing"
	PublishStatusCompleted  = "completed"
	PublishStatusFailed     = "failed"
)

const (
	EntityTypeProfile     = "profile"
	EntityTypeProject     = "project"
	EntityTypeEndorsement = "endorsement"
)

func IsTerminalPublishStatus(status string) bool {
	return status == PublishStatusCompleted || status == PublishStatusFailed
}

// PublishOperation is the append-only audit row tracking one background
// publish. Rows are created at submission time, mutated only by the
// background task, and never deleted.
type PublishOperation struct {
	OperationID string    `gorm:"primaryKey;column:operation_id;type:VARCHAR(64)"`
	EntityType  string    `gorm:"not null;type:VARCHAR(32);index:publish_operations_entity_idx"`
	EntityID    uuid.UUID `gorm:"not null;index:publish_operations_entity_idx"`
	Status      string    `gorm:"not null;default:pending"`
	Attempts    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

type PublishOperationList []PublishOperation

func (o PublishOperation) String() string {
	val, _ := json.Marshal(o)
	return string(val)
}
