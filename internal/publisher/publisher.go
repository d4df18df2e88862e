// internal/publisher/publisher.go
package publisher

import (
	"fmt"
	"time"

	appErrors "github.com/growthlabs/xgrowth-backend/internal/errors"
)

// Status tag returned by the dry-run client.
const StatusDryRun = "dry_run"

// Receipt is the outcome of a successful publish call.
type Receipt struct {
	Status     string `json:"status"`
	ExternalID string `json:"external_id"`
}

// Client publishes text to an external platform and returns an identifier,
// or fails. Implementations must be safe for sequential reuse across posts.
type Client interface {
	Publish(text string) (*Receipt, error)
}

// New selects the client for the configured mode. Dry-run is the default and
// the only mode that does anything: live posting stays disabled until an
// official platform integration is added.
func New(dryRun bool) Client {
	if dryRun {
		return NewDryRunClient()
	}
	return &LiveClient{}
}

// DryRunClient always succeeds and synthesizes a placeholder identifier
// derived from the clock, so the full state machine can be exercised without
// any external side effects.
type DryRunClient struct {
	Now func() time.Time
}

func NewDryRunClient() *DryRunClient {
	return &DryRunClient{Now: time.Now}
}

func (c *DryRunClient) Publish(text string) (*Receipt, error) {
	return &Receipt{
		Status:     StatusDryRun,
		ExternalID: fmt.Sprintf("dry-%d", c.Now().UTC().Unix()),
	}, nil
}

// LiveClient is the placeholder for a real platform integration. It refuses
// every publish so automated posting cannot happen by accident.
type LiveClient struct{}

func (c *LiveClient) Publish(text string) (*Receipt, error) {
	return nil, appErrors.ErrLivePublishingDisabled
}

var (
	_ Client = (*DryRunClient)(nil)
	_ Client = (*LiveClient)(nil)
)
