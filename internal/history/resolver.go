package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// minIDPrefix is the shortest ID prefix accepted as a reference
const minIDPrefix = 6

// Resolver resolves user-friendly references to conversation IDs
type Resolver struct {
	store *Store
}

// NewResolver creates a new alias resolver
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve converts a user-friendly reference to a conversation ID
//
// Supported references:
//   - "@last" - most recently updated conversation
//   - "@first" - oldest conversation
//   - full ID, or an unambiguous ID prefix of at least 6 characters
//   - "1", "2", "3" - by index (1-based, most recent first)
//   - "substring" - match on title (error if multiple matches)
func (r *Resolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}

	conversations, err := r.store.ListConversations()
	if err != nil {
		return "", fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		return "", fmt.Errorf("no conversations found")
	}

	switch strings.ToLower(ref) {
	case "@last":
		return conversations[0].ID, nil
	case "@first":
		return conversations[len(conversations)-1].ID, nil
	}

	if _, err := uuid.Parse(ref); err == nil {
		for _, conv := range conversations {
			if strings.EqualFold(conv.ID, ref) {
				return conv.ID, nil
			}
		}
		return "", fmt.Errorf("conversation not found: %s", ref)
	}

	if len(ref) >= minIDPrefix {
		var byPrefix []*Conversation
		for _, conv := range conversations {
			if strings.HasPrefix(conv.ID, strings.ToLower(ref)) {
				byPrefix = append(byPrefix, conv)
			}
		}
		if len(byPrefix) == 1 {
			return byPrefix[0].ID, nil
		}
		if len(byPrefix) > 1 {
			return "", fmt.Errorf("ID prefix '%s' is ambiguous (%d matches)", ref, len(byPrefix))
		}
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(conversations) {
			return "", fmt.Errorf("index %d out of range (1-%d)", index, len(conversations))
		}
		return conversations[index-1].ID, nil
	}

	refLower := strings.ToLower(ref)
	var matches []*Conversation
	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), refLower) {
			matches = append(matches, conv)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no conversation matching '%s'", ref)
	case 1:
		return matches[0].ID, nil
	default:
		var titles []string
		for _, m := range matches {
			titles = append(titles, fmt.Sprintf("'%s'", m.Title))
		}
		return "", fmt.Errorf("multiple conversations match '%s': %s. Use ID or be more specific",
			ref, strings.Join(titles, ", "))
	}
}

// ResolveWithInfo resolves a reference and returns the conversation
func (r *Resolver) ResolveWithInfo(ref string) (*Conversation, error) {
	id, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}

	return r.store.GetConversation(id)
}

// ListAliases returns information about supported references
func ListAliases() string {
	return `Supported references:
  @last          Most recently updated conversation
  @first         Oldest conversation
  1, 2, 3        By index (1-based, from most recent)
  3f2a9c...      Conversation ID or a unique prefix of it
  "text"         Search by title substring`
}
