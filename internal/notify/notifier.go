// Package notify implements the best-effort side-channel notification sent
// when a submission enters the pipeline. Failures are logged by the caller
// and never influence the submission outcome.
package notify

import (
	"context"

	"github.com/dmitrijs2005/formkiosk/internal/models"
)

// Sender delivers one notification about a submission. Implementations
// must honor ctx; the pipeline runs the call detached under its own
// timeout and discards the result.
type Sender interface {
	Send(ctx context.Context, record *models.ApplicantRecord) error
}

// Noop is a Sender that does nothing, for kiosks without a webhook.
type Noop struct{}

func (Noop) Send(ctx context.Context, record *models.ApplicantRecord) error { return nil }
