package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/devledger/devledger/pkg/metrics"
	"github.com/devledger/devledger/pkg/poller"
)

const (
	assetsPath      = "/assets"
	assetStatusPath = "/assets/status/"

	defaultPollDelay = 2 * time.Second
)

// Client talks to a single ledger node over its HTTP API. Publish is a
// single shot; the caller decides whether and how to retry.
type Client struct {
	nodeURL   string
	http      *http.Client
	pollDelay time.Duration
}

type ClientOption func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithPollDelay sets the initial delay between status polls.
func WithPollDelay(d time.Duration) ClientOption {
	return func(cl *Client) { cl.pollDelay = d }
}

func New(nodeURL string, opts ...ClientOption) *Client {
	c := &Client{
		nodeURL:   nodeURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		pollDelay: defaultPollDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish submits one asset to the node. A 2xx answer yields a Handle; a
// 4xx answer is a NodeRejectedError, which callers must not retry.
func (c *Client) Publish(ctx context.Context, content map[string]any, meta Metadata, opts PublishOptions) (*Handle, error) {
	body, err := json.Marshal(publishRequest{
		Content:        content,
		Metadata:       meta,
		PublishOptions: opts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding publish request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nodeURL+assetsPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building publish request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IncreaseLedgerNodeRequest("error")
		return nil, errors.Wrap(err, "calling ledger node")
	}
	defer resp.Body.Close()
	metrics.IncreaseLedgerNodeRequest(fmt.Sprintf("%d", resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "reading publish response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var pr publishResponse
		if err := json.Unmarshal(payload, &pr); err != nil {
			return nil, errors.Wrap(err, "decoding publish response")
		}
		if pr.ID == "" {
			return nil, errors.New("ledger node returned no asset id")
		}
		return &Handle{ID: pr.ID, UAL: pr.UAL}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &NodeRejectedError{StatusCode: resp.StatusCode, Reason: rejectionReason(payload)}
	default:
		return nil, errors.Errorf("ledger node returned status %d", resp.StatusCode)
	}
}

// AwaitConfirmation polls the asset status until the node reports a
// terminal state, bounded by limit. On timeout the asset may still anchor
// later; the returned error says so.
func (c *Client) AwaitConfirmation(ctx context.Context, assetID string, limit time.Duration) (*Confirmation, error) {
	return poller.WithTimeout(ctx, limit, func(ctx context.Context) (*Confirmation, error) {
		return poller.PollUntil(ctx, func(ctx context.Context) (*Confirmation, bool, error) {
			status, err := c.assetStatus(ctx, assetID)
			if err != nil {
				return nil, false, err
			}
			switch status.Status {
			case AssetStatusCompleted:
				return &Confirmation{UAL: status.UAL, DatasetRoot: status.DatasetRoot}, true, nil
			case AssetStatusFailed:
				reason := status.LastError
				if reason == "" {
					reason = "no reason given"
				}
				return nil, false, poller.Permanent(errors.Errorf("asset %s failed on the node: %s", assetID, reason))
			default:
				return nil, false, nil
			}
		},
			poller.WithInitialDelay(c.pollDelay),
			poller.WithJitter(&jitterbug.Norm{Stdev: c.pollDelay / 10}),
		)
	})
}

func (c *Client) assetStatus(ctx context.Context, assetID string) (*assetStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL+assetStatusPath+assetID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building status request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IncreaseLedgerNodeRequest("error")
		return nil, errors.Wrap(err, "calling ledger node")
	}
	defer resp.Body.Close()
	metrics.IncreaseLedgerNodeRequest(fmt.Sprintf("%d", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("asset status returned %d", resp.StatusCode)
	}

	var status assetStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, errors.Wrap(err, "decoding status response")
	}
	return &status, nil
}

func rejectionReason(payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if len(payload) > 0 {
		zap.S().Named("ledger").Debugf("unparsed rejection body: %s", payload)
	}
	return "unspecified rejection"
}
