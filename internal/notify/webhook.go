package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/formkiosk/internal/models"
)

// WebhookSender posts a small JSON event to a configured URL when a new
// submission is received.
type WebhookSender struct {
	url    string
	client *http.Client
}

type webhookEvent struct {
	EventID         string    `json:"event_id"`
	Type            string    `json:"type"`
	ReferenceNumber string    `json:"reference_number"`
	ApplicantName   string    `json:"applicant_name"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{url: url, client: &http.Client{}}
}

func (s *WebhookSender) Send(ctx context.Context, record *models.ApplicantRecord) error {
	event := webhookEvent{
		EventID:         uuid.NewString(),
		Type:            "submission.received",
		ReferenceNumber: record.ReferenceNumber,
		ApplicantName:   record.FirstName + " " + record.LastName,
		SubmittedAt:     record.SubmittedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification rejected: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
