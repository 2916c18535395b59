package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/approvalbridge/bridge-go/internal/card"
)

type fakeActions struct {
	approveCalls int
	rejectCalls  int
	status       string
	err          error
}

func (f *fakeActions) Approve(_ context.Context, _ string) (string, error) {
	f.approveCalls++
	return f.status, f.err
}

func (f *fakeActions) Reject(_ context.Context, _ string) (string, error) {
	f.rejectCalls++
	return f.status, f.err
}

type fakeDispatcher struct {
	cards []card.Card
	err   error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, c card.Card) error {
	if f.err != nil {
		return f.err
	}
	f.cards = append(f.cards, c)
	return nil
}

func newTestService(actions *fakeActions, dispatcher *fakeDispatcher) *Service {
	return New(Options{
		Actions:    actions,
		Dispatcher: dispatcher,
		Builder:    card.NewBuilder("https://bridge.example.com/api/process-action"),
		Variant:    card.VariantLive,
		InboxURL:   "https://inbox.example.com",
	})
}

func TestProcessAction_Approve(t *testing.T) {
	actions := &fakeActions{status: "COMPLETED"}
	svc := newTestService(actions, &fakeDispatcher{})

	result, err := svc.ProcessAction(context.Background(), ActionRequest{Action: "approve", InstanceID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "approve", result.Action)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, 1, actions.approveCalls)
	assert.Equal(t, 0, actions.rejectCalls)
}

func TestProcessAction_Reject(t *testing.T) {
	actions := &fakeActions{status: "COMPLETED"}
	svc := newTestService(actions, &fakeDispatcher{})

	result, err := svc.ProcessAction(context.Background(), ActionRequest{Action: "reject", InstanceID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "reject", result.Action)
	assert.Equal(t, 1, actions.rejectCalls)
}

func TestProcessAction_InvalidAction(t *testing.T) {
	actions := &fakeActions{status: "COMPLETED"}
	svc := newTestService(actions, &fakeDispatcher{})

	_, err := svc.ProcessAction(context.Background(), ActionRequest{Action: "delete", InstanceID: "x"})
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, 0, actions.approveCalls, "backend never invoked on invalid action")
	assert.Equal(t, 0, actions.rejectCalls)
}

func TestProcessAction_BackendFailure(t *testing.T) {
	actions := &fakeActions{err: errors.New("backend down")}
	svc := newTestService(actions, &fakeDispatcher{})

	_, err := svc.ProcessAction(context.Background(), ActionRequest{Action: "approve", InstanceID: "42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approve")
	assert.Contains(t, err.Error(), "42")
}

func TestTrigger_DispatchesMockCard(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newTestService(&fakeActions{}, dispatcher)

	require.NoError(t, svc.Trigger(context.Background()))
	require.Len(t, dispatcher.cards, 1)

	c := dispatcher.cards[0]
	assert.Equal(t, "AdaptiveCard", c.Type)
	// The fixture renders as mock data even in live mode.
	require.Len(t, c.Actions, 3)
	assert.Equal(t, "✓ Mock Approve", c.Actions[0].Title)
}

func TestTrigger_DispatchFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("webhook down")}
	svc := newTestService(&fakeActions{}, dispatcher)

	err := svc.Trigger(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
}

func TestTriggerRecord_UsesConfiguredVariant(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newTestService(&fakeActions{}, dispatcher)

	raw := map[string]any{
		"TASK_TITLE": "Live Task Title Here",
		"INST_ID":    "42",
	}
	require.NoError(t, svc.TriggerRecord(context.Background(), raw))
	require.Len(t, dispatcher.cards, 1)
	assert.Equal(t, "✓ Approve", dispatcher.cards[0].Actions[0].Title)
}

func TestTriggerRecord_InvalidRecordStillDispatches(t *testing.T) {
	// Rendering is fail-safe: a broken record produces the error card,
	// which is dispatched like any other.
	dispatcher := &fakeDispatcher{}
	svc := newTestService(&fakeActions{}, dispatcher)

	require.NoError(t, svc.TriggerRecord(context.Background(), nil))
	require.Len(t, dispatcher.cards, 1)
	assert.Equal(t, "Error displaying workflow details", dispatcher.cards[0].Body[0].Text)
}
