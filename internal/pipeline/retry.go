package pipeline

import (
	"context"
)

// RetryOutcome is the per-reference result of an operator-triggered retry.
type RetryOutcome struct {
	Reference string
	Err       error
}

// RetryPending re-attempts delivery of every pending submission, oldest
// first. Each artifact upload runs under the configured attempt timeout;
// successfully delivered submissions are removed from the backup store,
// failures stay pending. One failed reference does not stop the sweep.
func (p *Pipeline) RetryPending(ctx context.Context) ([]RetryOutcome, error) {
	pending, err := p.backups.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]RetryOutcome, 0, len(pending))
	for _, ref := range pending {
		outcomes = append(outcomes, RetryOutcome{Reference: ref, Err: p.retryOne(ctx, ref)})
	}
	return outcomes, nil
}

// RetryOne re-attempts a single pending submission.
func (p *Pipeline) RetryOne(ctx context.Context, reference string) error {
	return p.retryOne(ctx, reference)
}

func (p *Pipeline) retryOne(ctx context.Context, reference string) error {
	log := p.log.With("reference", reference)

	pdfData, jsonData, err := p.backups.Load(ctx, reference)
	if err != nil {
		return err
	}

	if err := p.uploadPair(ctx, reference, pdfData, jsonData); err != nil {
		log.Warn(ctx, "pending upload retry failed", "error", err)
		return err
	}

	if err := p.backups.Remove(ctx, reference); err != nil {
		log.Warn(ctx, "removing backup after retry failed", "error", err)
	}
	log.Info(ctx, "pending submission uploaded")
	return nil
}
