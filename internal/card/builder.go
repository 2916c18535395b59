package card

import (
	"encoding/json"
	"strings"
	"time"
)

// Builder renders raw workflow records into Adaptive Card documents.
type Builder struct {
	actionURL string
	now       func() time.Time
}

// NewBuilder creates a builder whose approve/reject actions call back
// to the given endpoint URL.
func NewBuilder(actionURL string) *Builder {
	return &Builder{actionURL: actionURL, now: time.Now}
}

// NewBuilderWithClock creates a builder with a fixed clock (for testing).
func NewBuilderWithClock(actionURL string, now func() time.Time) *Builder {
	return &Builder{actionURL: actionURL, now: now}
}

// Result always holds a renderable card. When building the real card
// failed, Card is a minimal error card and Err records why; callers use
// Card unconditionally.
type Result struct {
	Card Card
	Err  error
}

// Build renders the record into an approval card. It never fails
// outward: any internal fault yields the fallback error card.
func (b *Builder) Build(raw any, variant Variant) Result {
	c, err := b.build(raw, variant)
	if err != nil {
		return Result{Card: errorCard(err), Err: err}
	}
	return Result{Card: c}
}

type actionPayload struct {
	Action     string `json:"action"`
	InstanceID string `json:"instanceId"`
}

func (b *Builder) build(raw any, variant Variant) (Card, error) {
	wf, err := Normalize(raw, variant, b.now())
	if err != nil {
		return Card{}, err
	}

	mock := variant != VariantLive
	details := ParseDetails(wf.TaskDetails)
	createdDate := formatCreatedOn(wf.CreatedOn)

	title := firstWords(wf.TaskTitle, 3)
	titleColor := "default"
	if mock {
		title += " (MOCK)"
		titleColor = "attention"
	}

	body := []Element{
		{
			Type: NodeTextBlock,
			Text: "A new workflow requires your attention, <at>channel</at>.",
			Wrap: true,
		},
		{
			Type:    NodeContainer,
			Spacing: "medium",
			Items: []Element{
				{Type: NodeTextBlock, Text: title, Weight: "bolder", Size: "medium", Wrap: true, Color: titleColor},
			},
		},
	}

	if mock {
		body = append(body, Element{
			Type:    NodeContainer,
			Spacing: "small",
			Style:   "warning",
			Items: []Element{
				{
					Type:                NodeTextBlock,
					Text:                "⚠️ MOCK DATA - Sample workflow for testing purposes",
					Size:                "small",
					Color:               "attention",
					Weight:              "bolder",
					HorizontalAlignment: "center",
				},
			},
		})
	}

	instanceText := wf.InstanceID
	instanceColor := "dark"
	if mock {
		instanceText += " (MOCK)"
		instanceColor = "attention"
	}

	body = append(body, Element{
		Type:    NodeContainer,
		Style:   "emphasis",
		Spacing: "medium",
		Items: []Element{
			kvRow("Task Title:", wf.TaskTitle, "dark", true),
			kvRow("Status:", wf.Status, "dark", false),
			kvRow("Instance ID:", instanceText, instanceColor, false),
			kvRow("Created By:", wf.CreatedByName, "dark", false),
			kvRow("Created On:", createdDate, "dark", false),
		},
	})

	if details.HasAny() {
		body = append(body, Element{
			Type:    NodeContainer,
			Spacing: "medium",
			Items: []Element{
				{Type: NodeTextBlock, Text: "Task Details:", Weight: "bolder", Size: "small", Color: "dark"},
				{Type: NodeTextBlock, Text: "Document Type: " + details.DocumentType, Size: "small", Color: "dark", Spacing: "small"},
				{Type: NodeTextBlock, Text: "Company Code: " + details.CompanyCode, Size: "small", Color: "dark", Spacing: "small"},
				{Type: NodeTextBlock, Text: "Amount: " + details.Amount, Size: "small", Color: "dark", Spacing: "small"},
			},
		})
	}

	approveBody, err := json.Marshal(actionPayload{Action: "approve", InstanceID: wf.InstanceID})
	if err != nil {
		return Card{}, err
	}
	rejectBody, err := json.Marshal(actionPayload{Action: "reject", InstanceID: wf.InstanceID})
	if err != nil {
		return Card{}, err
	}

	approveTitle, rejectTitle, inboxTitle := "✓ Approve", "✗ Reject", "👁 View in SAP Inbox"
	if mock {
		approveTitle, rejectTitle, inboxTitle = "✓ Mock Approve", "✗ Mock Reject", "👁 Mock SAP Inbox"
	}

	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	return Card{
		Type: cardType,
		Body: body,
		Actions: []Action{
			{Type: ActionHTTP, Title: approveTitle, Method: "POST", URL: b.actionURL, Body: string(approveBody), Headers: jsonHeaders},
			{Type: ActionHTTP, Title: rejectTitle, Method: "POST", URL: b.actionURL, Body: string(rejectBody), Headers: jsonHeaders},
			{Type: ActionOpenURL, Title: inboxTitle, URL: wf.InboxURL},
		},
		MSTeams: &MSTeams{
			Entities: []Mention{
				{
					Type:      "mention",
					Text:      "<at>channel</at>",
					Mentioned: MentionTarget{ID: "channel", Name: "General"},
				},
			},
		},
		Schema:  cardSchema,
		Version: cardVersion,
	}, nil
}

func errorCard(err error) Card {
	return Card{
		Type: cardType,
		Body: []Element{
			{Type: NodeTextBlock, Text: "Error displaying workflow details", Weight: "bolder", Color: "attention"},
			{Type: NodeTextBlock, Text: "Error: " + err.Error(), Size: "small", Wrap: true},
		},
		Schema:  cardSchema,
		Version: cardVersion,
	}
}

func kvRow(label, value, valueColor string, wrap bool) Element {
	return Element{
		Type:    NodeColumnSet,
		Spacing: "small",
		Columns: []Element{
			{
				Type:  NodeColumn,
				Width: "auto",
				Items: []Element{{Type: NodeTextBlock, Text: label, Weight: "bolder", Size: "small", Color: "dark"}},
			},
			{
				Type:  NodeColumn,
				Width: "stretch",
				Items: []Element{{Type: NodeTextBlock, Text: value, Size: "small", Color: valueColor, Wrap: wrap}},
			},
		},
	}
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// formatCreatedOn renders a creation timestamp as "2 Jan 2006". SAP
// exports use d.m.yyyy; fixtures use ISO strings. Anything unparsable
// renders as "N/A".
func formatCreatedOn(s string) string {
	if parts := strings.Split(s, "."); len(parts) == 3 {
		t, err := time.Parse("2.1.2006", s)
		if err != nil {
			return "N/A"
		}
		return t.Format("2 Jan 2006")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2 Jan 2006")
		}
	}
	return "N/A"
}
