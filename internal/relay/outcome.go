package relay

import (
	"strings"

	"github.com/diogo/estate/internal/models"
)

// Outcome is the result of one submission. It is one of Success,
// BackendError or NetworkFailure.
type Outcome interface {
	outcome()
}

// Success is a response the backend flagged as successful.
// An empty or blank Text is rendered as the fallback reply.
type Success struct {
	Text   string
	Source string
}

// BackendError is a response the backend flagged as failed.
// RawMessage is kept for logging only and is never rendered.
type BackendError struct {
	StatusCode int
	RawMessage string
}

// FailureKind classifies failures that produced no usable response
type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection"
	FailureOther      FailureKind = "other"
	FailureParse      FailureKind = "parse"
	FailureCancelled  FailureKind = "cancelled"
)

// NetworkFailure is a submission that ended without a usable response
type NetworkFailure struct {
	Kind FailureKind
}

func (Success) outcome()        {}
func (BackendError) outcome()   {}
func (NetworkFailure) outcome() {}

// Render maps an outcome to the assistant turn shown to the user
func Render(o Outcome) models.Turn {
	text, source := present(o)
	return models.NewAssistantTurn(text, source)
}

func present(o Outcome) (string, string) {
	switch o := o.(type) {
	case Success:
		if strings.TrimSpace(o.Text) != "" {
			return o.Text, o.Source
		}
		if o.Source != "" {
			return MessageFallback, o.Source
		}
		return MessageFallback, models.SourceNoResults

	case BackendError:
		switch o.StatusCode {
		case 503:
			return MessageSetupRequired, models.SourceSetupRequired
		case 404:
			return MessageNoResults, models.SourceNoResults
		case 429:
			return MessageRateLimited, models.SourceRateLimited
		default:
			return MessageFallback, models.SourceFallback
		}

	case NetworkFailure:
		switch o.Kind {
		case FailureTimeout:
			return MessageTimeout, models.SourceTimeout
		case FailureConnection:
			return MessageConnection, models.SourceConnectionError
		case FailureParse:
			return MessageFallback, models.SourceParseError
		case FailureCancelled:
			return MessageCancelled, models.SourceCancelled
		default:
			return MessageNoResults, models.SourceNetworkError
		}
	}

	return MessageFallback, models.SourceFallback
}
