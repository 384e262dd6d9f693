package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Clarification is the state left behind when the assistant asked the user
// to narrow a date range.
type Clarification struct {
	OriginHint      string `json:"originHint"`
	DestinationHint string `json:"destinationHint"`
	RangeStart      string `json:"rangeStart"`
	RangeEnd        string `json:"rangeEnd"`
}

// Pending is the prior-turn state handed to the extractor.
type Pending struct {
	LastSearch            *SearchRequest `json:"lastSearch,omitempty"`
	AwaitingClarification *Clarification `json:"awaitingClarification,omitempty"`
}

func (p Pending) Empty() bool {
	return p.LastSearch == nil && p.AwaitingClarification == nil
}

type ConversationState string

const (
	StateFresh                 ConversationState = "fresh"
	StateHasLastSearch         ConversationState = "has_last_search"
	StateAwaitingClarification ConversationState = "awaiting_clarification"
)

// ConversationContext is everything remembered about one conversation id.
type ConversationContext struct {
	ID                    string         `json:"id"`
	LastSearch            *SearchRequest `json:"lastSearch,omitempty"`
	AwaitingClarification *Clarification `json:"awaitingClarification,omitempty"`
	History               []Turn         `json:"history"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func NewConversationContext(id string) *ConversationContext {
	return &ConversationContext{ID: id}
}

func (c *ConversationContext) State() ConversationState {
	switch {
	case c.AwaitingClarification != nil:
		return StateAwaitingClarification
	case c.LastSearch != nil:
		return StateHasLastSearch
	default:
		return StateFresh
	}
}

func (c *ConversationContext) Pending() Pending {
	return Pending{
		LastSearch:            c.LastSearch,
		AwaitingClarification: c.AwaitingClarification,
	}
}

// Append records turns, keeping at most maxTurns of the most recent ones.
// maxTurns <= 0 keeps everything.
func (c *ConversationContext) Append(maxTurns int, turns ...Turn) {
	c.History = append(c.History, turns...)
	if maxTurns > 0 && len(c.History) > maxTurns {
		c.History = append([]Turn(nil), c.History[len(c.History)-maxTurns:]...)
	}
}
