package commands

import (
	"bytes"
	"fmt"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/charmbracelet/x/ansi"

	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/history"
	"github.com/diogo/estate/internal/models"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "api error with body",
			err:  apierrors.NewAPIError(500, "/api/properties", "internal error").WithBody([]byte(`{"success":false,"error":"boom"}`)),
			want: []string{"HTTP Status: 500", "Endpoint: /api/properties", `"error":"boom"`},
		},
		{
			name: "backend initializing",
			err:  apierrors.NewAPIError(503, "/api/dashboard", "RAG system not initialized"),
			want: []string{"HTTP Status: 503", "still initializing"},
		},
		{
			name: "connection refused",
			err:  apierrors.NewNetworkErrorWithEndpoint("GET", "/api/dashboard", syscall.ECONNREFUSED),
			want: []string{"Endpoint: /api/dashboard", "estate mock-server"},
		},
		{
			name: "timeout",
			err:  fmt.Errorf("failed to load dashboard: %w", apierrors.NewTimeoutError("/api/dashboard")),
			want: []string{"timed out", "request_timeout"},
		},
		{
			name: "parse",
			err:  apierrors.NewParseError("unexpected body", "/api/city-options"),
			want: []string{"expected JSON", "--server"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Error")
			testboil.AssertStringContains(t, out, "Error: ")
			for _, w := range tt.want {
				testboil.AssertStringContains(t, out, w)
			}
		})
	}
}

func TestSpinner_SendControl(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Asking the property assistant")

	// enabling an idle spinner is a no-op
	s.SetEnabled(true)
	testboil.FailTestIfDiff(t, buf.Len(), 0)

	s.SetEnabled(false)
	s.SetEnabled(false)
	time.Sleep(120 * time.Millisecond)
	s.SetEnabled(true)

	out := buf.String()
	testboil.AssertStringContains(t, out, "Asking the property assistant")
	if !strings.HasSuffix(out, "\r\033[K\033[?25h") {
		t.Errorf("spinner should clear its line and show the cursor, got %q", out)
	}

	// restartable for the next question
	s.SetEnabled(false)
	s.SetEnabled(true)
}

func TestConsoleSink(t *testing.T) {
	store, err := history.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sink := &consoleSink{recorder: history.NewRecorder(store, "http://localhost:5000", nil)}

	if _, ok := sink.Answer(); ok {
		t.Fatal("no answer expected before any turn")
	}

	sink.AppendTurn(models.NewUserTurn("pune"))
	if _, ok := sink.Answer(); ok {
		t.Fatal("a user turn is not an answer")
	}

	sink.AppendTurn(models.NewAssistantTurn("\x1b[31mBuy\x1b[0m in Pune", "database"))
	answer, ok := sink.Answer()
	if !ok {
		t.Fatal("expected an answer")
	}
	testboil.FailTestIfDiff(t, answer.Text, "Buy in Pune")

	conv, err := store.GetConversation(sink.recorder.ConversationID())
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	testboil.FailTestIfDiff(t, len(conv.Turns), 2)
	testboil.FailTestIfDiff(t, conv.Turns[1].Text, "Buy in Pune")
}

func TestConsoleSink_NilRecorder(t *testing.T) {
	sink := &consoleSink{}
	sink.AppendTurn(models.NewAssistantTurn("Rent", "database"))
	answer, _ := sink.Answer()
	testboil.FailTestIfDiff(t, answer.Text, "Rent")
}

func TestDecorateAnswer(t *testing.T) {
	t.Run("shows informative sources", func(t *testing.T) {
		out := decorateAnswer(models.NewAssistantTurn("Found 3 properties.", "database"), 100)
		testboil.AssertStringContains(t, out, "Assistant")
		testboil.AssertStringContains(t, out, "Found 3 properties.")
		testboil.AssertStringContains(t, out, "Source: database")
	})

	t.Run("hides generic sources", func(t *testing.T) {
		out := decorateAnswer(models.NewAssistantTurn("Ask me about prices.", "basic"), 100)
		if strings.Contains(out, "Source:") {
			t.Errorf("basic source should be hidden, got %q", out)
		}
	})

	t.Run("keeps markup characters", func(t *testing.T) {
		text := "Use <city> as filter\n# 1 pick: Bandra\n**Avg** 2*3"
		out := ansi.Strip(decorateAnswer(models.NewAssistantTurn(text, "database"), 100))
		for _, want := range []string{"Use <city> as filter", "# 1 pick: Bandra", "**Avg** 2*3"} {
			testboil.AssertStringContains(t, out, want)
		}
	})
}

func TestTruncate(t *testing.T) {
	testboil.FailTestIfDiff(t, truncate("short", 10), "short")
	testboil.FailTestIfDiff(t, truncate("abcdefghijklmnopqrstuvwxyz", 5), "abcde...")
	testboil.FailTestIfDiff(t, truncate("₹₹₹₹₹₹", 3), "₹₹₹...")
}

func TestShortID(t *testing.T) {
	testboil.FailTestIfDiff(t, shortID("3f2a9c41-0000-4000-8000-000000000000"), "3f2a9c41")
	testboil.FailTestIfDiff(t, shortID("abc"), "abc")
}
