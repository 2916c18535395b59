package sap

import "fmt"

// AuthError reports a failure to obtain an access token, either because
// credentials are not configured or because the token endpoint refused
// the exchange.
type AuthError struct {
	Reason string
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sap: %s (status %d): %s", e.Reason, e.Status, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("sap: %s: %v", e.Reason, e.Err)
	}
	return "sap: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// UpstreamError reports a non-2xx answer from the SAP decision endpoint.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("sap: decision endpoint returned status %d: %s", e.Status, e.Body)
}

// ActionError wraps any failure of an approve/reject call with the
// action name and workflow instance it was issued for.
type ActionError struct {
	Action     string
	InstanceID string
	Err        error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("sap: failed to %s workflow %s: %v", e.Action, e.InstanceID, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
