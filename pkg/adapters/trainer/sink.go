// Package trainer implements ports.ExportSink against the bot-training
// service's HTTP endpoint.
package trainer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sink POSTs the export document to a training endpoint.
type Sink struct {
	URL    string
	Client *http.Client
}

// NewSink creates a trainer sink for the given endpoint URL.
func NewSink(url string) *Sink {
	return &Sink{
		URL: url,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Deliver submits the document. Any non-2xx status is a delivery failure;
// the response body (truncated) is folded into the error so the user sees
// what the trainer rejected.
func (s *Sink) Deliver(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build training request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post to trainer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("trainer returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return nil
}
