package sap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Decision keys are fixed by the SAP workflow definition.
const (
	decisionKeyApprove = "0001"
	decisionKeyReject  = "0002"
)

const decisionPath = "/http/postSAPdata"

// Client issues approve/reject decision calls against the SAP workflow
// backend, authenticating through a TokenSource.
type Client struct {
	baseURL    string
	tokens     *TokenSource
	httpClient *http.Client
}

// New creates a decision client for the given SAP tenant base URL.
func New(baseURL string, tokens *TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithHTTPClient creates a decision client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, tokens *TokenSource, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, tokens: tokens, httpClient: httpClient}
}

// Approve completes the workflow instance with the approve decision.
func (c *Client) Approve(ctx context.Context, instanceID string) (string, error) {
	return c.decide(ctx, "approve", decisionKeyApprove, "Approved", instanceID)
}

// Reject completes the workflow instance with the reject decision.
func (c *Client) Reject(ctx context.Context, instanceID string) (string, error) {
	return c.decide(ctx, "reject", decisionKeyReject, "Rejected", instanceID)
}

func (c *Client) decide(ctx context.Context, action, decisionKey, comment, instanceID string) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", &ActionError{Action: action, InstanceID: instanceID, Err: err}
	}

	// Appended, not overwritten, so a tenant base URL carrying a path
	// prefix routes the same way the token endpoint does.
	endpoint, err := url.JoinPath(c.baseURL, decisionPath)
	if err != nil {
		return "", &ActionError{Action: action, InstanceID: instanceID, Err: err}
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", &ActionError{Action: action, InstanceID: instanceID, Err: err}
	}
	q := u.Query()
	q.Set("DecisionKey", decisionKey)
	q.Set("InstanceID", instanceID)
	q.Set("Comments", comment)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader("{}"))
	if err != nil {
		return "", &ActionError{Action: action, InstanceID: instanceID, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/xml,application/json")
	req.Header.Set("Content-Type", "application/json")

	slog.Info("issuing workflow decision", "action", action, "instance_id", instanceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ActionError{Action: action, InstanceID: instanceID, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ActionError{
			Action:     action,
			InstanceID: instanceID,
			Err:        &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))},
		}
	}

	// The backend may answer XML or JSON. Anything without a Status
	// field counts as completed.
	var payload struct {
		Status string `json:"Status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Status == "" {
		return "COMPLETED", nil
	}
	return payload.Status, nil
}
