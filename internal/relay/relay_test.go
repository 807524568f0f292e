package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"

	"github.com/diogo/estate/internal/api"
	"github.com/diogo/estate/internal/models"
)

type transportFunc func(ctx context.Context, message string) (*api.ChatResult, error)

func (f transportFunc) PostChat(ctx context.Context, message string) (*api.ChatResult, error) {
	return f(ctx, message)
}

func reply(status int, body string) transportFunc {
	return func(ctx context.Context, message string) (*api.ChatResult, error) {
		return &api.ChatResult{StatusCode: status, Body: []byte(body)}, nil
	}
}

func failWith(err error) transportFunc {
	return func(ctx context.Context, message string) (*api.ChatResult, error) {
		return nil, err
	}
}

// blockUntilDone mimics an HTTP client that honours its context
func blockUntilDone() transportFunc {
	return func(ctx context.Context, message string) (*api.ChatResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

type recordingSink struct {
	mu    sync.Mutex
	turns []models.Turn
}

func (s *recordingSink) AppendTurn(turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

func (s *recordingSink) Turns() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

type fakeInput struct {
	mu      sync.Mutex
	value   string
	focused int
}

func (f *fakeInput) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *fakeInput) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

func (f *fakeInput) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused++
}

type fakeSend struct {
	mu      sync.Mutex
	history []bool
}

func (f *fakeSend) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, enabled)
}

func (f *fakeSend) States() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.history))
	copy(out, f.history)
	return out
}

type harness struct {
	relay *Relay
	sink  *recordingSink
	input *fakeInput
	send  *fakeSend
}

func newHarness(t Transport, opts ...Option) *harness {
	h := &harness{
		sink:  &recordingSink{},
		input: &fakeInput{},
		send:  &fakeSend{},
	}
	h.relay = New(t, h.sink, h.input, h.send, opts...)
	return h
}

// assertSettled checks the state every accepted submission must end in
func (h *harness) assertSettled(t *testing.T) {
	t.Helper()
	if h.relay.Processing() {
		t.Error("relay still processing after Submit returned")
	}
	states := h.send.States()
	if len(states) == 0 || !states[len(states)-1] {
		t.Errorf("send control not re-enabled, history %v", states)
	}
	if h.input.focused == 0 {
		t.Error("input was not focused")
	}
}

// assertExchange checks that exactly one user and one assistant turn were appended
func (h *harness) assertExchange(t *testing.T, question string) models.Turn {
	t.Helper()
	turns := h.sink.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d: %+v", len(turns), turns)
	}
	if !turns[0].IsUser() || turns[0].Text != question {
		t.Errorf("first turn = %+v, want user turn %q", turns[0], question)
	}
	if turns[1].Sender != models.SenderAssistant {
		t.Errorf("second turn sender = %s", turns[1].Sender)
	}
	return turns[1]
}

func TestSubmit_Success(t *testing.T) {
	var got string
	h := newHarness(transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
		got = message
		return &api.ChatResult{StatusCode: 200, Body: []byte(`{"success":true,"response":"Average price in Pune is ₹85,00,000","source":"rag"}`)}, nil
	}))
	h.input.SetValue("  average price in pune \n")

	if !h.relay.SubmitInput(context.Background()) {
		t.Fatal("expected submission to be accepted")
	}

	testboil.FailTestIfDiff(t, got, "average price in pune")
	turn := h.assertExchange(t, "average price in pune")
	testboil.FailTestIfDiff(t, turn.Text, "Average price in Pune is ₹85,00,000")
	testboil.FailTestIfDiff(t, turn.Source, "rag")
	testboil.FailTestIfDiff(t, h.input.Value(), "")
	testboil.FailTestIfDiff(t, fmt.Sprint(h.send.States()), "[false true]")
	testboil.FailTestIfDiff(t, h.input.focused, 1)
	h.assertSettled(t)
}

func TestSubmit_EmptyInputIsIgnored(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		called := false
		h := newHarness(transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
			called = true
			return nil, nil
		}))
		h.input.SetValue(input)

		if h.relay.SubmitInput(context.Background()) {
			t.Errorf("Submit(%q) accepted", input)
		}
		if called {
			t.Errorf("Submit(%q) reached the transport", input)
		}
		testboil.FailTestIfDiff(t, len(h.sink.Turns()), 0)
		testboil.FailTestIfDiff(t, len(h.send.States()), 0)
		testboil.FailTestIfDiff(t, h.input.focused, 0)
		testboil.FailTestIfDiff(t, h.input.Value(), input)
	}
}

func TestSubmit_BlankResponseUsesFallback(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantSource string
	}{
		{"empty string", `{"success":true,"response":""}`, models.SourceNoResults},
		{"whitespace", `{"success":true,"response":"  \n\t"}`, models.SourceNoResults},
		{"null", `{"success":true,"response":null}`, models.SourceNoResults},
		{"missing", `{"success":true}`, models.SourceNoResults},
		{"not a string", `{"success":true,"response":42}`, models.SourceNoResults},
		{"server source kept", `{"success":true,"response":"","source":"basic"}`, "basic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(reply(200, tt.body))
			h.relay.Submit(context.Background(), "flats in nagpur")

			turn := h.assertExchange(t, "flats in nagpur")
			testboil.FailTestIfDiff(t, turn.Text, MessageFallback)
			testboil.FailTestIfDiff(t, turn.Source, tt.wantSource)
			h.assertSettled(t)
		})
	}
}

func TestSubmit_Timeout(t *testing.T) {
	h := newHarness(blockUntilDone(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	h.relay.Submit(context.Background(), "every property in india")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Submit took %v with a 20ms timeout", elapsed)
	}

	turn := h.assertExchange(t, "every property in india")
	testboil.FailTestIfDiff(t, turn.Text, MessageTimeout)
	testboil.FailTestIfDiff(t, turn.Source, models.SourceTimeout)
	h.assertSettled(t)
}

func TestSubmit_TimeoutIgnoresLateResponse(t *testing.T) {
	release := make(chan struct{})
	returned := make(chan struct{})
	h := newHarness(transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
		defer close(returned)
		<-release
		return &api.ChatResult{StatusCode: 200, Body: []byte(`{"success":true,"response":"too late"}`)}, nil
	}), WithTimeout(20*time.Millisecond))

	h.relay.Submit(context.Background(), "slow")
	close(release)
	<-returned
	time.Sleep(20 * time.Millisecond)

	turn := h.assertExchange(t, "slow")
	testboil.FailTestIfDiff(t, turn.Source, models.SourceTimeout)
	testboil.FailTestIfDiff(t, fmt.Sprint(h.send.States()), "[false true]")
	h.assertSettled(t)
}

func TestDefaultTimeout(t *testing.T) {
	testboil.FailTestIfDiff(t, DefaultTimeout, 45*time.Second)
	testboil.FailTestIfDiff(t, New(nil, nil, nil, nil).timeout, 45*time.Second)
}

func TestSubmit_BackendErrorsAreClassified(t *testing.T) {
	tests := []struct {
		status     int
		wantText   string
		wantSource string
	}{
		{503, MessageSetupRequired, models.SourceSetupRequired},
		{404, MessageNoResults, models.SourceNoResults},
		{429, MessageRateLimited, models.SourceRateLimited},
		{500, MessageFallback, models.SourceFallback},
		{400, MessageFallback, models.SourceFallback},
		{200, MessageFallback, models.SourceFallback},
	}

	for _, tt := range tests {
		h := newHarness(reply(tt.status, `{"success":false,"error":"Traceback: KeyError 'faiss_index'"}`))
		h.relay.Submit(context.Background(), "villas in goa")

		turn := h.assertExchange(t, "villas in goa")
		testboil.FailTestIfDiff(t, turn.Text, tt.wantText)
		testboil.FailTestIfDiff(t, turn.Source, tt.wantSource)
		if strings.Contains(turn.Text, "Traceback") || strings.Contains(turn.Text, "faiss") {
			t.Errorf("status %d leaked backend text: %q", tt.status, turn.Text)
		}
		h.assertSettled(t)
	}

	distinct := map[string]bool{MessageSetupRequired: true, MessageNoResults: true, MessageRateLimited: true}
	if len(distinct) != 3 {
		t.Error("503, 404 and 429 must render distinct messages")
	}
	for text := range distinct {
		for _, code := range []string{"503", "404", "429"} {
			if strings.Contains(text, code) {
				t.Errorf("message %q contains status code %s", text, code)
			}
		}
	}
}

func TestSubmit_ParseErrors(t *testing.T) {
	bodies := []string{
		"<html><body>502 Bad Gateway</body></html>",
		"",
		`{"success":true`,
		`["success", true]`,
		`"just a string"`,
	}

	for _, body := range bodies {
		h := newHarness(reply(200, body))
		h.relay.Submit(context.Background(), "2bhk in thane")

		turn := h.assertExchange(t, "2bhk in thane")
		testboil.FailTestIfDiff(t, turn.Text, MessageFallback)
		testboil.FailTestIfDiff(t, turn.Source, models.SourceParseError)
		h.assertSettled(t)
	}
}

func TestSubmit_TransportFailures(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	tests := []struct {
		name       string
		err        error
		wantText   string
		wantSource string
	}{
		{"connection refused", refused, MessageConnection, models.SourceConnectionError},
		{"dns", &net.DNSError{Err: "no such host", Name: "backend"}, MessageConnection, models.SourceConnectionError},
		{"unexpected eof", errors.New("unexpected EOF"), MessageNoResults, models.SourceNetworkError},
		{"transport deadline", os.ErrDeadlineExceeded, MessageTimeout, models.SourceTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(failWith(tt.err))
			h.relay.Submit(context.Background(), "rent in bandra")

			turn := h.assertExchange(t, "rent in bandra")
			testboil.FailTestIfDiff(t, turn.Text, tt.wantText)
			testboil.FailTestIfDiff(t, turn.Source, tt.wantSource)
			h.assertSettled(t)
		})
	}
}

func TestSubmit_TransportPanic(t *testing.T) {
	h := newHarness(transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
		panic("nil map write")
	}))

	h.relay.Submit(context.Background(), "pune")

	turn := h.assertExchange(t, "pune")
	testboil.FailTestIfDiff(t, turn.Source, models.SourceNetworkError)
	h.assertSettled(t)
}

func TestSubmit_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(transportFunc(func(inner context.Context, message string) (*api.ChatResult, error) {
		cancel()
		<-inner.Done()
		return nil, inner.Err()
	}))

	h.relay.Submit(ctx, "delhi")

	turn := h.assertExchange(t, "delhi")
	testboil.FailTestIfDiff(t, turn.Text, MessageCancelled)
	testboil.FailTestIfDiff(t, turn.Source, models.SourceCancelled)
	h.assertSettled(t)
}

func TestSubmit_ReturnsOnContextCancel(t *testing.T) {
	h := newHarness(blockUntilDone())
	testboil.ReturnsOnContextCancel(t, func(ctx context.Context) {
		h.relay.Submit(ctx, "hangs forever")
	}, time.Second)
}

func TestSubmit_SecondSubmissionWhileInFlightIsDropped(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	h := newHarness(transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-gate
		return &api.ChatResult{StatusCode: 200, Body: []byte(`{"success":true,"response":"first answer"}`)}, nil
	}))

	done := make(chan bool)
	go func() {
		done <- h.relay.Submit(context.Background(), "first")
	}()
	<-entered

	if !h.relay.Processing() {
		t.Fatal("expected relay to be processing")
	}
	if h.relay.Submit(context.Background(), "second") {
		t.Error("second submission was accepted while the first was in flight")
	}

	turns := h.sink.Turns()
	testboil.FailTestIfDiff(t, len(turns), 1)
	mu.Lock()
	testboil.FailTestIfDiff(t, calls, 1)
	mu.Unlock()

	close(gate)
	if !<-done {
		t.Error("first submission should have been accepted")
	}

	turn := h.assertExchange(t, "first")
	testboil.FailTestIfDiff(t, turn.Text, "first answer")
	h.assertSettled(t)
}

func TestSubmit_UsableAfterEveryOutcome(t *testing.T) {
	transports := map[string]Transport{
		"success":    reply(200, `{"success":true,"response":"ok"}`),
		"503":        reply(503, `{"success":false,"error":"x"}`),
		"parse":      reply(500, `Internal Server Error`),
		"connection": failWith(syscall.ECONNREFUSED),
		"other":      failWith(errors.New("boom")),
		"panic": transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
			panic("boom")
		}),
		"timeout": blockUntilDone(),
	}

	for name, first := range transports {
		t.Run(name, func(t *testing.T) {
			var mu sync.Mutex
			current := first
			h := newHarness(transportFunc(func(ctx context.Context, message string) (*api.ChatResult, error) {
				mu.Lock()
				next := current
				mu.Unlock()
				return next.PostChat(ctx, message)
			}), WithTimeout(20*time.Millisecond))

			h.relay.Submit(context.Background(), "one")
			h.assertSettled(t)

			mu.Lock()
			current = reply(200, `{"success":true,"response":"second answer"}`)
			mu.Unlock()
			if !h.relay.Submit(context.Background(), "two") {
				t.Fatal("relay rejected a submission after a finished one")
			}

			turns := h.sink.Turns()
			testboil.FailTestIfDiff(t, len(turns), 4)
			testboil.FailTestIfDiff(t, turns[3].Text, "second answer")
			testboil.FailTestIfDiff(t, fmt.Sprint(h.send.States()), "[false true false true]")
			h.assertSettled(t)
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		outcome    Outcome
		wantText   string
		wantSource string
	}{
		{"success", Success{Text: "hi", Source: "rag"}, "hi", "rag"},
		{"success without source", Success{Text: "hi"}, "hi", ""},
		{"blank success", Success{Text: " "}, MessageFallback, models.SourceNoResults},
		{"503", BackendError{StatusCode: 503, RawMessage: "RAG down"}, MessageSetupRequired, models.SourceSetupRequired},
		{"404", BackendError{StatusCode: 404}, MessageNoResults, models.SourceNoResults},
		{"429", BackendError{StatusCode: 429}, MessageRateLimited, models.SourceRateLimited},
		{"418", BackendError{StatusCode: 418}, MessageFallback, models.SourceFallback},
		{"timeout", NetworkFailure{Kind: FailureTimeout}, MessageTimeout, models.SourceTimeout},
		{"connection", NetworkFailure{Kind: FailureConnection}, MessageConnection, models.SourceConnectionError},
		{"other", NetworkFailure{Kind: FailureOther}, MessageNoResults, models.SourceNetworkError},
		{"parse", NetworkFailure{Kind: FailureParse}, MessageFallback, models.SourceParseError},
		{"cancelled", NetworkFailure{Kind: FailureCancelled}, MessageCancelled, models.SourceCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := Render(tt.outcome)
			testboil.FailTestIfDiff(t, turn.Sender, models.SenderAssistant)
			testboil.FailTestIfDiff(t, turn.Text, tt.wantText)
			testboil.FailTestIfDiff(t, turn.Source, tt.wantSource)
		})
	}
}
