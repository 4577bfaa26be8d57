// Package pipeline orchestrates a submission: sanitize, render the
// artifact pair, write-ahead backup, best-effort notification, then an
// upload loop with bounded retries, per-attempt timeouts and
// error-class-aware backoff. Durability is established before any network
// attempt, so a terminal upload failure leaves the submission pending for
// a later operator retry.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/formkiosk/internal/logging"
	"github.com/dmitrijs2005/formkiosk/internal/models"
	"github.com/dmitrijs2005/formkiosk/internal/netx"
	"github.com/dmitrijs2005/formkiosk/internal/notify"
	"github.com/dmitrijs2005/formkiosk/internal/render"
	"github.com/dmitrijs2005/formkiosk/internal/timex"
	"github.com/dmitrijs2005/formkiosk/internal/upload"
)

const (
	mimePDF  = "application/pdf"
	mimeJSON = "application/json"
)

// Backups is the write-ahead store consumed by the pipeline.
type Backups interface {
	Save(ctx context.Context, reference string, pdfData, jsonData []byte) error
	Load(ctx context.Context, reference string) (pdfData, jsonData []byte, err error)
	Remove(ctx context.Context, reference string) error
	ListPending(ctx context.Context) ([]string, error)
}

// ReferenceSource issues reference numbers.
type ReferenceSource interface {
	Next(ctx context.Context) (string, error)
}

// Config bounds the retry behavior.
type Config struct {
	MaxRetryAttempts    int
	AttemptTimeout      time.Duration
	NotificationTimeout time.Duration
}

// Pipeline runs submissions. One instance serves the whole kiosk; Submit
// may be called concurrently even though the UI normally prevents it.
type Pipeline struct {
	cfg       Config
	sanitizer render.Sanitizer
	renderer  render.Renderer
	refs      ReferenceSource
	backups   Backups
	checker   netx.Checker
	uploader  upload.Client
	notifier  notify.Sender
	clock     timex.Clock
	log       logging.Logger

	// overridable in tests
	sleep  func(ctx context.Context, d time.Duration)
	jitter func() time.Duration
}

func New(cfg Config, sanitizer render.Sanitizer, renderer render.Renderer, refs ReferenceSource,
	backups Backups, checker netx.Checker, uploader upload.Client, notifier notify.Sender,
	clock timex.Clock, log logging.Logger) *Pipeline {

	if cfg.MaxRetryAttempts <= 0 {
		cfg.MaxRetryAttempts = 3
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	if cfg.NotificationTimeout <= 0 {
		cfg.NotificationTimeout = 15 * time.Second
	}

	return &Pipeline{
		cfg:       cfg,
		sanitizer: sanitizer,
		renderer:  renderer,
		refs:      refs,
		backups:   backups,
		checker:   checker,
		uploader:  uploader,
		notifier:  notifier,
		clock:     clock,
		log:       log,
		sleep: func(ctx context.Context, d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
		},
		jitter: func() time.Duration {
			return rand.N(500 * time.Millisecond)
		},
	}
}

// Submit starts the submission asynchronously and returns a channel that
// delivers exactly one terminal result. The caller's goroutine is never
// blocked.
func (p *Pipeline) Submit(ctx context.Context, record *models.ApplicantRecord) <-chan models.SubmissionResult {
	ch := make(chan models.SubmissionResult, 1)
	go func() {
		ch <- p.run(ctx, record)
	}()
	return ch
}

func (p *Pipeline) run(ctx context.Context, record *models.ApplicantRecord) models.SubmissionResult {
	rec := p.sanitizer.Sanitize(record)

	ref, err := p.refs.Next(ctx)
	if err != nil {
		p.log.Error(ctx, "issuing reference number failed", "error", err)
		return models.Failure("We could not start your submission. Please try again.")
	}
	rec.ReferenceNumber = ref
	rec.SubmittedAt = p.clock.Now()

	log := p.log.With("reference", ref)

	pdfData, err := p.renderer.RenderPDF(rec)
	if err != nil {
		log.Error(ctx, "rendering pdf artifact failed", "error", err)
		return models.Failure("We could not prepare your application. Please try again.")
	}
	jsonData, err := p.renderer.RenderJSON(rec)
	if err != nil {
		log.Error(ctx, "rendering json artifact failed", "error", err)
		return models.Failure("We could not prepare your application. Please try again.")
	}

	// write-ahead: durability before any network attempt
	backupErr := p.backups.Save(ctx, ref, pdfData, jsonData)
	if backupErr != nil {
		log.Error(ctx, "write-ahead backup failed, continuing without durable copy", "error", backupErr)
	} else {
		log.Info(ctx, "submission backed up")
	}

	if !p.checker.Available(ctx) {
		log.Warn(ctx, "no network, submission left pending")
		if backupErr != nil {
			return models.Failure(msgEscalate)
		}
		return models.Failure("No network connection. Your application is saved on this kiosk and will be submitted later.")
	}

	p.sendNotification(rec, log)

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxRetryAttempts; attempt++ {
		lastErr = p.uploadPair(ctx, ref, pdfData, jsonData)
		if lastErr == nil {
			if err := p.backups.Remove(ctx, ref); err != nil {
				log.Warn(ctx, "removing backup after upload failed", "error", err)
			}
			log.Info(ctx, "submission uploaded", "attempts", attempt)
			return models.Success(ref)
		}

		class := upload.ClassOf(lastErr)
		log.Warn(ctx, "upload attempt failed", "attempt", attempt, "class", class.String(), "error", lastErr)

		if !upload.Retryable(class) {
			break
		}
		if attempt == p.cfg.MaxRetryAttempts {
			break
		}

		backoff := time.Duration(1<<(attempt-1))*time.Second + p.jitter()
		p.sleep(ctx, backoff)

		if !p.checker.Available(ctx) {
			log.Warn(ctx, "connectivity lost between attempts")
			if backupErr != nil {
				return models.Failure(msgEscalate)
			}
			return models.Failure("Connection lost. Your application is saved on this kiosk and will be submitted later.")
		}
	}

	return models.Failure(userMessage(upload.ClassOf(lastErr), backupErr == nil))
}

// sendNotification fires the side-channel notification detached from the
// submission: its own context, its own timeout, outcome only logged.
func (p *Pipeline) sendNotification(rec *models.ApplicantRecord, log logging.Logger) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.NotificationTimeout)
		defer cancel()
		if err := p.notifier.Send(ctx, rec); err != nil {
			log.Warn(ctx, "notification failed", "error", err)
			return
		}
		log.Info(ctx, "notification sent")
	}()
}

// uploadPair uploads the PDF then the JSON, each under its own attempt
// timeout.
func (p *Pipeline) uploadPair(ctx context.Context, reference string, pdfData, jsonData []byte) error {
	if err := p.uploadArtifact(ctx, pdfData, reference+".pdf", mimePDF); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := p.uploadArtifact(ctx, jsonData, reference+".json", mimeJSON); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// uploadArtifact races the upload against the attempt deadline. The
// context carries the deadline, so the losing upload is cancelled rather
// than abandoned.
func (p *Pipeline) uploadArtifact(ctx context.Context, data []byte, fileName, mimeType string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.AttemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- p.uploader.Upload(attemptCtx, data, fileName, mimeType)
	}()

	select {
	case err := <-done:
		return err
	case <-attemptCtx.Done():
		if attemptCtx.Err() == context.DeadlineExceeded {
			return upload.NewError(upload.ClassTimeout, attemptCtx.Err())
		}
		return attemptCtx.Err()
	}
}

const msgEscalate = "We could not submit your application and could not save it on this kiosk. Please contact support."

// userMessage translates the terminal error class into what the applicant
// sees. When a durable backup exists the message must never suggest data
// loss.
func userMessage(class upload.Class, backupOK bool) string {
	if !backupOK {
		return msgEscalate
	}
	switch class {
	case upload.ClassAuth:
		return "The kiosk is not authorized to submit applications right now. Your application is saved and staff will submit it for you."
	case upload.ClassTimeout:
		return "The submission is taking too long. Your application is saved on this kiosk and will be submitted later."
	case upload.ClassNetwork:
		return "Network trouble interrupted the submission. Your application is saved on this kiosk and will be submitted later."
	case upload.ClassServer:
		return "The submission service is temporarily unavailable. Your application is saved on this kiosk and will be submitted later."
	default:
		return "Something went wrong during submission. Your application is saved on this kiosk and will be submitted later."
	}
}
