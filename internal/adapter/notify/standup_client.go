package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"blog-publisher/internal/domain"
)

// StandupClient posts a short publish summary to the team standup
// endpoint. Callers treat failures as non-fatal.
type StandupClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

func NewStandupClient(endpoint, apiKey string, client *http.Client, logger *slog.Logger) *StandupClient {
	return &StandupClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
		logger:   logger,
	}
}

// Notify posts the notification as JSON. A non-2xx status is an error.
func (c *StandupClient) Notify(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification rejected: status %d: %s", resp.StatusCode, string(body))
	}
	c.logger.Info("sent standup notification", slog.String("date", n.Date))
	return nil
}

var _ domain.Notifier = (*StandupClient)(nil)
