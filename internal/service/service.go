// Package service implements the canonical approval workflow service.
// Transport adapters (HTTP today) stay thin and delegate here, so the
// trigger and action paths exist exactly once.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/approvalbridge/bridge-go/internal/card"
	"github.com/approvalbridge/bridge-go/internal/observability"
)

// Action values accepted from the messaging client.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ErrInvalidAction is returned for any action other than approve/reject.
// No backend call is attempted in that case.
var ErrInvalidAction = errors.New("service: invalid action")

// WorkflowActions issues decision calls against the workflow backend.
type WorkflowActions interface {
	Approve(ctx context.Context, instanceID string) (string, error)
	Reject(ctx context.Context, instanceID string) (string, error)
}

// CardDispatcher delivers a rendered card to the messaging channel.
type CardDispatcher interface {
	Dispatch(ctx context.Context, c card.Card) error
}

// ActionRequest is an inbound card-click callback.
type ActionRequest struct {
	Action     string `json:"action"`
	InstanceID string `json:"instanceId"`
}

// ActionResult echoes the performed action and the backend status.
type ActionResult struct {
	Action string
	Status string
}

// Options configures a Service.
type Options struct {
	Actions    WorkflowActions
	Dispatcher CardDispatcher
	Builder    *card.Builder
	Variant    card.Variant
	InboxURL   string
	Metrics    *observability.Metrics
}

// Service relays pending approvals into Teams and routes card actions
// back to SAP.
type Service struct {
	actions    WorkflowActions
	dispatcher CardDispatcher
	builder    *card.Builder
	variant    card.Variant
	inboxURL   string
	metrics    *observability.Metrics
}

// New creates a Service.
func New(opts Options) *Service {
	return &Service{
		actions:    opts.Actions,
		dispatcher: opts.Dispatcher,
		builder:    opts.Builder,
		variant:    opts.Variant,
		inboxURL:   opts.InboxURL,
		metrics:    opts.Metrics,
	}
}

// Trigger renders the pending-approval fixture and posts it to the
// webhook. Live deployments feed real records through TriggerRecord;
// the fixture always renders as mock data regardless of mode.
func (s *Service) Trigger(ctx context.Context) error {
	return s.trigger(ctx, s.mockRecord(), card.VariantMock)
}

// TriggerRecord normalizes an externally supplied workflow record,
// renders it with the configured variant, and posts the card.
func (s *Service) TriggerRecord(ctx context.Context, raw any) error {
	return s.trigger(ctx, raw, s.variant)
}

func (s *Service) trigger(ctx context.Context, raw any, variant card.Variant) error {
	res := s.builder.Build(raw, variant)
	if res.Err != nil {
		slog.Warn("card rendering fell back to error card", "error", res.Err)
	}
	if err := s.dispatcher.Dispatch(ctx, res.Card); err != nil {
		return fmt.Errorf("service: dispatch notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordNotification(ctx, string(variant))
	}
	slog.Info("approval card dispatched", "variant", variant)
	return nil
}

// ProcessAction validates the requested action and routes it to the
// workflow backend.
func (s *Service) ProcessAction(ctx context.Context, req ActionRequest) (ActionResult, error) {
	var (
		status string
		err    error
	)
	start := time.Now()
	switch req.Action {
	case ActionApprove:
		status, err = s.actions.Approve(ctx, req.InstanceID)
	case ActionReject:
		status, err = s.actions.Reject(ctx, req.InstanceID)
	default:
		return ActionResult{}, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}
	if s.metrics != nil {
		s.metrics.RecordAction(ctx, req.Action, err == nil)
		s.metrics.RecordDecisionLatency(ctx, time.Since(start))
	}
	if err != nil {
		return ActionResult{}, fmt.Errorf("service: process %s for instance %s: %w", req.Action, req.InstanceID, err)
	}
	return ActionResult{Action: req.Action, Status: status}, nil
}

// mockRecord is the fixed sample task used by Trigger. In production
// the record arrives from the SAP backend through TriggerRecord.
func (s *Service) mockRecord() map[string]any {
	inbox := s.inboxURL
	if inbox == "" {
		inbox = "#inbox"
	}
	return map[string]any{
		"TaskTitle":     "Verify General Journal Entry 100000144 GMM1 2025",
		"Status":        "READY",
		"InstanceID":    "000000057230",
		"TaskDetails":   "#$# Document Type : G/L Account Document #$# Company Code : GM Manufacturing #$# Amount : 1.100,00 USD",
		"CreatedByName": "Ayush Agrawal",
		"CreatedOn":     "2025-05-26T10:00:00Z",
		"InboxURL":      inbox,
	}
}
