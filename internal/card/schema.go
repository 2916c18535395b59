// Package card renders SAP workflow tasks into Adaptive Card documents
// for delivery to a Teams channel. Raw records are normalized into a
// canonical form first; rendering itself never fails outward.
package card

// NodeType identifies an Adaptive Card body node.
type NodeType string

const (
	NodeTextBlock NodeType = "TextBlock"
	NodeContainer NodeType = "Container"
	NodeColumnSet NodeType = "ColumnSet"
	NodeColumn    NodeType = "Column"
)

// ActionType identifies an Adaptive Card action.
type ActionType string

const (
	ActionHTTP    ActionType = "Action.Http"
	ActionOpenURL ActionType = "Action.OpenUrl"
)

const (
	cardType    = "AdaptiveCard"
	cardSchema  = "http://adaptivecards.io/schemas/adaptive-card.json"
	cardVersion = "1.3"
)

// Element is a single renderable node in the card body. Adaptive Card
// nodes share a flat attribute space; attributes a node type does not
// use stay zero and are omitted from the JSON.
type Element struct {
	Type                NodeType  `json:"type"`
	Text                string    `json:"text,omitempty"`
	Wrap                bool      `json:"wrap,omitempty"`
	Weight              string    `json:"weight,omitempty"`
	Size                string    `json:"size,omitempty"`
	Color               string    `json:"color,omitempty"`
	Spacing             string    `json:"spacing,omitempty"`
	Style               string    `json:"style,omitempty"`
	HorizontalAlignment string    `json:"horizontalAlignment,omitempty"`
	Width               string    `json:"width,omitempty"`
	Items               []Element `json:"items,omitempty"`
	Columns             []Element `json:"columns,omitempty"`
}

// Action is a user-triggerable card action.
type Action struct {
	Type    ActionType        `json:"type"`
	Title   string            `json:"title"`
	Method  string            `json:"method,omitempty"`
	URL     string            `json:"url"`
	Body    string            `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// MentionTarget is the channel or user a mention entity resolves to.
type MentionTarget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Mention is an msteams mention entity backing an <at> tag in the body.
type Mention struct {
	Type      string        `json:"type"`
	Text      string        `json:"text"`
	Mentioned MentionTarget `json:"mentioned"`
}

// MSTeams carries Teams-specific card extensions.
type MSTeams struct {
	Entities []Mention `json:"entities"`
}

// Card is a complete Adaptive Card document.
type Card struct {
	Type    string    `json:"type"`
	Body    []Element `json:"body"`
	Actions []Action  `json:"actions,omitempty"`
	MSTeams *MSTeams  `json:"msteams,omitempty"`
	Schema  string    `json:"$schema"`
	Version string    `json:"version"`
}
