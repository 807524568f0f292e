package history

import (
	"log/slog"
	"sync"

	"github.com/diogo/estate/internal/models"
)

// Recorder saves the turns of one chat session as they are produced.
// The conversation file is created lazily on the first turn, so sessions
// where nothing was asked leave no trace.
type Recorder struct {
	store  *Store
	server string
	logger *slog.Logger

	mu sync.Mutex
	id string
}

// NewRecorder creates a recorder. A nil store yields a recorder that drops everything.
func NewRecorder(store *Store, server string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, server: server, logger: logger}
}

// Record appends turn to the session's conversation.
// Storage failures are logged and never interrupt the chat.
func (r *Recorder) Record(turn models.Turn) {
	if r == nil || r.store == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id == "" {
		conv, err := r.store.CreateConversation(r.server)
		if err != nil {
			r.logger.Warn("history disabled for this session", "err", err)
			r.store = nil
			return
		}
		r.id = conv.ID
	}

	if err := r.store.AppendTurn(r.id, turn); err != nil {
		r.logger.Warn("failed to save turn", "conversation", r.id, "err", err)
	}
}

// ConversationID returns the ID of the conversation being written, or "" if
// nothing was recorded yet
func (r *Recorder) ConversationID() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Reset makes the next turn start a new conversation
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = ""
}
