package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OTel metric instruments for the approval bridge.
type Metrics struct {
	NotificationsSent metric.Int64Counter
	ActionsProcessed  metric.Int64Counter
	TokenRefreshes    metric.Int64Counter
	DecisionLatency   metric.Float64Histogram
}

// NewMetrics creates the bridge metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("bridge")

	notificationsSent, err := meter.Int64Counter("bridge.notifications.sent",
		metric.WithDescription("Number of approval cards posted to the Teams webhook"),
	)
	if err != nil {
		return nil, err
	}

	actionsProcessed, err := meter.Int64Counter("bridge.actions.processed",
		metric.WithDescription("Number of approve/reject actions routed to SAP"),
	)
	if err != nil {
		return nil, err
	}

	tokenRefreshes, err := meter.Int64Counter("bridge.token.refreshes",
		metric.WithDescription("Number of OAuth token fetches against the SAP token endpoint"),
	)
	if err != nil {
		return nil, err
	}

	decisionLatency, err := meter.Float64Histogram("bridge.decision.latency_seconds",
		metric.WithDescription("Duration of SAP decision calls"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		NotificationsSent: notificationsSent,
		ActionsProcessed:  actionsProcessed,
		TokenRefreshes:    tokenRefreshes,
		DecisionLatency:   decisionLatency,
	}, nil
}

// RecordNotification records a card successfully posted to the webhook.
func (m *Metrics) RecordNotification(ctx context.Context, mode string) {
	m.NotificationsSent.Add(ctx, 1,
		metric.WithAttributes(attribute.String("mode", mode)),
	)
}

// RecordAction records a routed user action and its outcome.
func (m *Metrics) RecordAction(ctx context.Context, action string, ok bool) {
	m.ActionsProcessed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.Bool("success", ok),
		),
	)
}

// RecordTokenRefresh records a token-endpoint fetch.
func (m *Metrics) RecordTokenRefresh(ctx context.Context) {
	m.TokenRefreshes.Add(ctx, 1)
}

// RecordDecisionLatency records the duration of a SAP decision call.
func (m *Metrics) RecordDecisionLatency(ctx context.Context, d time.Duration) {
	m.DecisionLatency.Record(ctx, d.Seconds())
}
