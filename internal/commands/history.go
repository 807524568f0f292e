package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/history"
	"github.com/diogo/estate/internal/models"
)

func newHistoryCmd(a *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved conversations",
		Long: `View and manage the chat sessions saved on this machine.
Without a subcommand the interactive history manager opens.

` + history.ListAliases(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistoryManager()
		},
	}

	historyCmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List all conversations",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runHistoryList()
			},
		},
		&cobra.Command{
			Use:   "show <ref>",
			Short: "Show a conversation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runHistoryShow(args[0])
			},
		},
		&cobra.Command{
			Use:     "delete <ref>",
			Aliases: []string{"rm"},
			Short:   "Delete a conversation",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runHistoryDelete(args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all conversations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runHistoryClear()
			},
		},
		newHistorySearchCmd(a),
		newHistoryExportCmd(a),
	)

	return historyCmd
}

func newHistorySearchCmd(a *app) *cobra.Command {
	var content bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search conversation titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistorySearch(args[0], content)
		},
	}
	cmd.Flags().BoolVar(&content, "content", false, "Search the questions and answers as well")

	return cmd
}

func newHistoryExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Export a conversation as markdown or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistoryExport(args[0], format, output)
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "Export format: markdown (md) or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")

	return cmd
}

func (a *app) openHistory() (*history.Store, error) {
	store, err := a.deps.OpenHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func (a *app) runHistoryList() error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}

	conversations, err := store.ListConversations()
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Fprintln(a.deps.Stdout, "No conversations found.")
		return nil
	}

	w := tabwriter.NewWriter(a.deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tID\tTITLE\tQUESTIONS\tUPDATED")
	_, _ = fmt.Fprintln(w, "-\t--\t-----\t---------\t-------")

	for i, conv := range conversations {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			i+1, shortID(conv.ID), truncate(conv.Title, 40), conv.Questions(), history.FormatRelativeTime(conv.UpdatedAt))
	}

	return w.Flush()
}

func (a *app) runHistoryShow(ref string) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}

	conv, err := history.NewResolver(store).ResolveWithInfo(ref)
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	a.printConversation(conv)
	return nil
}

// printConversation writes the header and every turn of conv
func (a *app) printConversation(conv *history.Conversation) {
	out := a.deps.Stdout
	fmt.Fprintf(out, "ID: %s\n", conv.ID)
	fmt.Fprintf(out, "Title: %s\n", conv.Title)
	if conv.Server != "" {
		fmt.Fprintf(out, "Server: %s\n", conv.Server)
	}
	fmt.Fprintf(out, "Created: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated: %s\n", conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Questions: %d\n", conv.Questions())
	fmt.Fprintln(out)

	for i, turn := range conv.Turns {
		role := "You"
		if turn.Sender == models.SenderAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(out, "[%d] %s (%s):\n", i+1, role, turn.Timestamp.Format("15:04"))
		fmt.Fprintf(out, "  %s\n", strings.ReplaceAll(truncate(turn.Text, 500), "\n", "\n  "))
		if turn.ShowSource() {
			fmt.Fprintf(out, "  Source: %s\n", turn.Source)
		}
		fmt.Fprintln(out)
	}
}

func (a *app) runHistoryDelete(ref string) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}

	conv, err := history.NewResolver(store).ResolveWithInfo(ref)
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	if err := store.DeleteConversation(conv.ID); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Fprintf(a.deps.Stdout, "Deleted conversation: %s (%s)\n", shortID(conv.ID), conv.Title)
	return nil
}

func (a *app) runHistoryClear() error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}

	n, err := store.ClearAll()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintf(a.deps.Stdout, "Deleted %d conversation(s).\n", n)
	return nil
}

func (a *app) runHistorySearch(query string, content bool) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}

	results, err := store.SearchConversations(query, content)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintf(a.deps.Stdout, "No conversations match %q.\n", query)
		return nil
	}

	w := tabwriter.NewWriter(a.deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tMATCH")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(r.Conversation.ID), truncate(r.Conversation.Title, 40), r.MatchSnippet)
	}
	return w.Flush()
}

func (a *app) runHistoryExport(ref, format, output string) error {
	exportFormat, err := history.ParseExportFormat(format)
	if err != nil {
		return err
	}

	store, err := a.openHistory()
	if err != nil {
		return err
	}

	id, err := history.NewResolver(store).Resolve(ref)
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	data, err := store.Export(id, exportFormat)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if output == "" || output == "-" {
		_, err := a.deps.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	ancli.PrintOK(fmt.Sprintf("exported conversation %s to %s\n", shortID(id), output))
	return nil
}

// runHistoryManager opens the interactive manager and prints the conversation
// the user picked, if any
func (a *app) runHistoryManager() error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	applyTheme(a.config())

	conv, err := a.deps.TUI.RunHistoryManager(store)
	if err != nil {
		return err
	}
	if conv == nil {
		return nil
	}
	a.printConversation(conv)
	return nil
}

// shortID returns the first eight characters of a conversation ID
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate shortens s to maxRunes runes, marking the cut with "..."
func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
