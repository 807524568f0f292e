package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/estate/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat accepts "markdown", "md" and "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use markdown or json)", s)
	}
}

// Export renders a conversation in the given format
func (s *Store) Export(id string, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return s.ExportToJSON(id)
	default:
		md, err := s.ExportToMarkdown(id)
		return []byte(md), err
	}
}

// ExportToMarkdown exports a conversation to Markdown
func (s *Store) ExportToMarkdown(id string) (string, error) {
	conv, err := s.GetConversation(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(conv.Title)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "**Server:** %s  \n", conv.Server)
	fmt.Fprintf(&sb, "**Created:** %s  \n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Questions:** %d\n\n---\n\n", conv.Questions())

	for i, turn := range conv.Turns {
		role := "You"
		if !turn.IsUser() {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !turn.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(turn.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		sb.WriteString(turn.Text)
		sb.WriteString("\n")

		if turn.ShowSource() {
			sb.WriteString("\n*Source: ")
			sb.WriteString(turn.Source)
			sb.WriteString("*\n")
		}

		if i < len(conv.Turns)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String(), nil
}

// ExportToJSON exports a conversation as indented JSON
func (s *Store) ExportToJSON(id string) ([]byte, error) {
	conv, err := s.GetConversation(id)
	if err != nil {
		return nil, err
	}
	if conv.Turns == nil {
		conv.Turns = []models.Turn{}
	}
	return json.MarshalIndent(conv, "", "  ")
}

// SearchResult represents a search match in conversations
type SearchResult struct {
	Conversation *Conversation
	MatchSnippet string // Snippet where the term was found
	MatchField   string // "title" or "content"
	MatchIndex   int    // Turn index if MatchField is "content", -1 for title
}

// SearchConversations searches titles and, optionally, turn text
func (s *Store) SearchConversations(query string, searchContent bool) ([]*SearchResult, error) {
	conversations, err := s.ListConversations()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var results []*SearchResult

	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), queryLower) {
			results = append(results, &SearchResult{
				Conversation: conv,
				MatchSnippet: conv.Title,
				MatchField:   "title",
				MatchIndex:   -1,
			})
			continue
		}

		if !searchContent {
			continue
		}
		for i, turn := range conv.Turns {
			if strings.Contains(strings.ToLower(turn.Text), queryLower) {
				results = append(results, &SearchResult{
					Conversation: conv,
					MatchSnippet: extractSnippet(turn.Text, query, 80),
					MatchField:   "content",
					MatchIndex:   i,
				})
				break // One match per conversation
			}
		}
	}

	return results, nil
}

// extractSnippet returns about maxLen runes around the first occurrence of query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx == -1 {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	// byte offset to rune offset
	pos := len([]rune(content[:idx]))
	qLen := len([]rune(query))

	half := maxLen / 2
	start := pos - half
	end := pos + qLen + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}

	return snippet
}

// FormatRelativeTime formats a time as "just now", "5 min ago", "yesterday"...
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return t.Format("2006-01-02")
	}
}
