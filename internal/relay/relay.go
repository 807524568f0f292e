// Package relay carries one chat question from the input box to the backend and
// turns whatever comes back into exactly one assistant turn.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	"github.com/diogo/estate/internal/api"
	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/models"
)

// DefaultTimeout bounds a single question, including reading the answer
const DefaultTimeout = 45000 * time.Millisecond

// Transport posts a question to the chat endpoint.
// The call must give up when ctx is done.
type Transport interface {
	PostChat(ctx context.Context, message string) (*api.ChatResult, error)
}

// Sink receives rendered turns in order
type Sink interface {
	AppendTurn(turn models.Turn)
}

// InputControl is the text box the question is typed into
type InputControl interface {
	Value() string
	SetValue(value string)
	Focus()
}

// SendControl is the send button, disabled while a question is in flight
type SendControl interface {
	SetEnabled(enabled bool)
}

// Relay owns the single in-flight slot of a chat screen.
// Construct one per screen and share it between submit triggers.
type Relay struct {
	transport Transport
	sink      Sink
	input     InputControl
	send      SendControl
	timeout   time.Duration
	logger    *slog.Logger

	processing atomic.Bool
}

// Option configures a Relay
type Option func(*Relay)

// WithTimeout overrides the per-question deadline
func WithTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger that receives backend error details
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Relay. input and send may be nil when there is nothing to drive.
func New(transport Transport, sink Sink, input InputControl, send SendControl, opts ...Option) *Relay {
	r := &Relay{
		transport: transport,
		sink:      sink,
		input:     input,
		send:      send,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	if r.input == nil {
		r.input = noInput{}
	}
	if r.send == nil {
		r.send = noSend{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Processing reports whether a question is in flight
func (r *Relay) Processing() bool {
	return r.processing.Load()
}

// SubmitInput submits the current value of the input control
func (r *Relay) SubmitInput(ctx context.Context) bool {
	return r.Submit(ctx, r.input.Value())
}

// Submit sends rawText to the backend and blocks until its answer has been
// appended to the sink. It returns false without touching any state when the
// trimmed text is empty or another question is still in flight.
// Cancelling ctx aborts the question; the abort is rendered like any other outcome.
func (r *Relay) Submit(ctx context.Context, rawText string) bool {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return false
	}
	if !r.processing.CompareAndSwap(false, true) {
		r.logger.Debug("question dropped, another one is in flight")
		return false
	}
	defer r.release()

	r.sink.AppendTurn(models.NewUserTurn(text))
	r.input.SetValue("")
	r.send.SetEnabled(false)

	outcome := r.exchange(ctx, text)
	r.sink.AppendTurn(Render(outcome))
	return true
}

// release runs once per accepted submission, on every exit path
func (r *Relay) release() {
	r.processing.Store(false)
	r.send.SetEnabled(true)
	r.input.Focus()
}

type exchangeResult struct {
	res *api.ChatResult
	err error
}

// settler records the first outcome offered to it and cancels the shared token.
// Later offers are ignored.
type settler struct {
	once    sync.Once
	cancel  context.CancelFunc
	outcome Outcome
}

func (s *settler) settle(o Outcome) {
	s.once.Do(func() {
		s.outcome = o
		s.cancel()
	})
}

// exchange runs the transport call under a deadline shared with the timer.
// Whichever of the two finishes first settles the outcome.
func (r *Relay) exchange(parent context.Context, text string) Outcome {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	s := &settler{cancel: cancel}
	results := make(chan exchangeResult, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				results <- exchangeResult{err: fmt.Errorf("transport panicked: %v", p)}
			}
		}()
		res, err := r.transport.PostChat(ctx, text)
		results <- exchangeResult{res: res, err: err}
	}()

	select {
	case got := <-results:
		if got.err != nil {
			s.settle(r.classifyError(ctx, got.err))
		} else {
			s.settle(r.interpret(got.res))
		}
	case <-ctx.Done():
		s.settle(r.classifyError(ctx, ctx.Err()))
	}

	return s.outcome
}

// classifyError maps a transport failure to a failure kind.
// The shared context is consulted first: once it is done the transport error
// is only a consequence of it.
func (r *Relay) classifyError(ctx context.Context, err error) Outcome {
	r.logger.Debug("chat transport failed", "err", err)

	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return NetworkFailure{Kind: FailureTimeout}
	case errors.Is(ctxErr, context.Canceled):
		return NetworkFailure{Kind: FailureCancelled}
	}

	switch {
	case apierrors.IsTimeoutError(err):
		return NetworkFailure{Kind: FailureTimeout}
	case apierrors.IsCancelled(err):
		return NetworkFailure{Kind: FailureCancelled}
	case apierrors.IsConnectionError(err):
		return NetworkFailure{Kind: FailureConnection}
	default:
		return NetworkFailure{Kind: FailureOther}
	}
}

// interpret decodes the {success, response, source, error} body
func (r *Relay) interpret(res *api.ChatResult) Outcome {
	if res == nil || !gjson.ValidBytes(res.Body) {
		r.logger.Debug("chat response is not JSON")
		return NetworkFailure{Kind: FailureParse}
	}

	body := gjson.ParseBytes(res.Body)
	if !body.IsObject() {
		r.logger.Debug("chat response is not a JSON object", "type", body.Type.String())
		return NetworkFailure{Kind: FailureParse}
	}

	if !body.Get(api.PathSuccess).Bool() {
		raw := body.Get(api.PathError).String()
		r.logger.Debug("backend reported failure", "status", res.StatusCode, "error", raw)
		return BackendError{StatusCode: res.StatusCode, RawMessage: raw}
	}

	var text string
	if reply := body.Get(api.PathResponse); reply.Type == gjson.String {
		text = reply.String()
	}
	return Success{Text: text, Source: body.Get(api.PathSource).String()}
}

type noInput struct{}

func (noInput) Value() string   { return "" }
func (noInput) SetValue(string) {}
func (noInput) Focus()          {}

type noSend struct{}

func (noSend) SetEnabled(bool) {}
