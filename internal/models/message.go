package models

import "time"

// Sender identifies who produced a turn
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Source tags attached to assistant turns
const (
	SourceSetupRequired   = "setup_required"
	SourceNoResults       = "no_results"
	SourceRateLimited     = "rate_limited"
	SourceFallback        = "fallback"
	SourceTimeout         = "timeout"
	SourceConnectionError = "connection_error"
	SourceNetworkError    = "network_error"
	SourceParseError      = "parse_error"
	SourceCancelled       = "cancelled"
)

// Turn is one rendered entry of the conversation.
// Turns are append-only: once handed to a sink they are never modified.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserTurn creates a turn for text typed by the user
func NewUserTurn(text string) Turn {
	return Turn{Sender: SenderUser, Text: text, Timestamp: time.Now()}
}

// NewAssistantTurn creates a turn for a reply; source may be empty
func NewAssistantTurn(text, source string) Turn {
	return Turn{Sender: SenderAssistant, Text: text, Source: source, Timestamp: time.Now()}
}

// IsUser reports whether the turn was typed by the user
func (t Turn) IsUser() bool {
	return t.Sender == SenderUser
}

// ShowSource reports whether the source tag should be displayed next to the turn.
// Generic tags carry no information for the reader and are hidden.
func (t Turn) ShowSource() bool {
	return t.Sender == SenderAssistant && t.Source != "" && t.Source != "error" && t.Source != "basic"
}
