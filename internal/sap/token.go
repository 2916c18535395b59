// Package sap talks to the SAP BTP workflow backend: OAuth token
// acquisition and approve/reject decision calls.
package sap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/approvalbridge/bridge-go/internal/observability"
)

// safetyMargin is subtracted from the reported token lifetime at fetch
// time, so a token is never presented to SAP near its real expiry.
const safetyMargin = 300 * time.Second

const defaultExpiresIn = 3600

// TokenSource obtains and caches a bearer token for the SAP backend
// via the client-credentials grant. A cached token is reused until its
// margin-adjusted expiry; a failed fetch leaves the cache untouched.
type TokenSource struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time

	// Metrics is optional; set it before first use.
	Metrics *observability.Metrics

	group singleflight.Group

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a token source for the given SAP tenant base URL.
func NewTokenSource(baseURL, clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
	}
}

// NewTokenSourceWithHTTPClient creates a token source with a custom HTTP
// client and clock (for testing).
func NewTokenSourceWithHTTPClient(baseURL, clientID, clientSecret string, httpClient *http.Client, now func() time.Time) *TokenSource {
	return &TokenSource{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		now:          now,
	}
}

// Token returns a valid bearer token, fetching a fresh one only when
// the cached token is past its adjusted expiry. Concurrent refreshes
// are collapsed into a single token-endpoint call.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	if ts.token != "" && ts.now().Before(ts.expiresAt) {
		tok := ts.token
		ts.mu.Unlock()
		return tok, nil
	}
	ts.mu.Unlock()

	v, err, _ := ts.group.Do("token", func() (any, error) {
		return ts.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (ts *TokenSource) fetch(ctx context.Context) (string, error) {
	if ts.clientID == "" || ts.clientSecret == "" {
		return "", &AuthError{Reason: "client ID or client secret is not configured"}
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ts.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Reason: "build token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(ts.clientID, ts.clientSecret)

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Reason: "token endpoint call failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &AuthError{
			Reason: "token endpoint refused exchange",
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &AuthError{Reason: "decode token response", Err: err}
	}
	if payload.AccessToken == "" {
		return "", &AuthError{Reason: "token response carries no access_token"}
	}
	if payload.ExpiresIn == 0 {
		payload.ExpiresIn = defaultExpiresIn
	}

	expiresAt := ts.now().Add(time.Duration(payload.ExpiresIn)*time.Second - safetyMargin)

	ts.mu.Lock()
	ts.token = payload.AccessToken
	ts.expiresAt = expiresAt
	ts.mu.Unlock()

	if ts.Metrics != nil {
		ts.Metrics.RecordTokenRefresh(ctx)
	}
	return payload.AccessToken, nil
}
