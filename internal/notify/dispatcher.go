// Package notify posts rendered approval cards to a Teams "Workflows"
// webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/approvalbridge/bridge-go/internal/card"
)

// ErrNotConfigured is returned when no webhook URL is configured. No
// network call is attempted in that case.
var ErrNotConfigured = errors.New("notify: Teams webhook URL is not configured")

// UpstreamError reports a non-2xx answer from the webhook.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("notify: webhook returned status %d: %s", e.Status, e.Body)
}

// Dispatcher posts card documents to the configured webhook. Teams
// throttles connector posts, so deliveries go through a token bucket.
type Dispatcher struct {
	webhookURL string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Dispatcher for the given webhook URL (may be empty).
func New(webhookURL string) *Dispatcher {
	return &Dispatcher{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(4), 4),
	}
}

// NewWithHTTPClient creates a Dispatcher with a custom HTTP client (for testing).
func NewWithHTTPClient(webhookURL string, httpClient *http.Client) *Dispatcher {
	return &Dispatcher{
		webhookURL: webhookURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

// Dispatch posts the card JSON to the webhook. The webhook's raw
// response is discarded; a nil error is the acknowledgement.
func (d *Dispatcher) Dispatch(ctx context.Context, c card.Card) error {
	if d.webhookURL == "" {
		return ErrNotConfigured
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notify: rate limit: %w", err)
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("notify: encode card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()

	// Workflows-based webhooks answer 200 or 202 depending on the flow.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}
