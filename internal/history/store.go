// Package history provides local storage of chat sessions.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/estate/internal/models"
)

// titleLimit caps the title derived from the first question
const titleLimit = 50

// Conversation is one saved chat session
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Server    string        `json:"server"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Turns     []models.Turn `json:"turns"`
}

// Questions returns the number of user turns
func (c *Conversation) Questions() int {
	n := 0
	for _, t := range c.Turns {
		if t.IsUser() {
			n++
		}
	}
	return n
}

// Store manages conversation persistence, one JSON file per conversation
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a store under baseDir/history
func NewStore(baseDir string) (*Store, error) {
	historyDir := filepath.Join(baseDir, "history")
	if err := os.MkdirAll(historyDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Store{
		baseDir: historyDir,
	}, nil
}

// Dir returns the directory conversations are stored in
func (s *Store) Dir() string {
	return s.baseDir
}

// CreateConversation creates an empty conversation against server
func (s *Store) CreateConversation(server string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := &Conversation{
		ID:        uuid.New().String(),
		Title:     fmt.Sprintf("Chat %s", now.Format("2006-01-02 15:04")),
		Server:    server,
		CreatedAt: now,
		UpdatedAt: now,
		Turns:     []models.Turn{},
	}

	if err := s.saveConversation(conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// GetConversation retrieves a conversation by ID
func (s *Store) GetConversation(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadConversation(id)
}

// ListConversations returns all conversations, most recently updated first
func (s *Store) ListConversations() ([]*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var conversations []*Conversation
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		conv, err := s.loadConversation(id)
		if err != nil {
			continue // Skip corrupted files
		}
		conversations = append(conversations, conv)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

// AppendTurn adds a turn to a conversation.
// The first user turn replaces the default title.
func (s *Store) AppendTurn(id string, turn models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.loadConversation(id)
	if err != nil {
		return err
	}

	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	conv.Turns = append(conv.Turns, turn)
	conv.UpdatedAt = time.Now()

	if turn.IsUser() && conv.Questions() == 1 {
		conv.Title = titleFrom(turn.Text)
	}

	return s.saveConversation(conv)
}

// UpdateTitle updates the title of a conversation
func (s *Store) UpdateTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.loadConversation(id)
	if err != nil {
		return err
	}

	conv.Title = title
	conv.UpdatedAt = time.Now()

	return s.saveConversation(conv)
}

// DeleteConversation removes a conversation
func (s *Store) DeleteConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.conversationPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("conversation not found: %s", id)
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return nil
}

// ClearAll deletes all conversations and returns how many were removed
func (s *Store) ClearAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read history directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.baseDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
		}
		removed++
	}

	return removed, nil
}

// Internal methods

// conversationPath maps an ID to its file. Only UUIDs are accepted so an ID
// can never name a file outside the history directory.
func (s *Store) conversationPath(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid conversation id %q", id)
	}
	return filepath.Join(s.baseDir, parsed.String()+".json"), nil
}

func (s *Store) loadConversation(id string) (*Conversation, error) {
	path, err := s.conversationPath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("conversation not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation: %w", err)
	}

	return &conv, nil
}

func (s *Store) saveConversation(conv *Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	path, err := s.conversationPath(conv.ID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}

	return nil
}

func titleFrom(text string) string {
	title := strings.Join(strings.Fields(text), " ")
	runes := []rune(title)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return title
}

// GetHistoryDir returns the default base directory of the store
func GetHistoryDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".estate"), nil
}

// DefaultStore creates a store using the default location
func DefaultStore() (*Store, error) {
	dir, err := GetHistoryDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir)
}
