package commands

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/mockserver"
)

func newMockServerCmd(a *app) *cobra.Command {
	var (
		addr string
		opts mockserver.Options
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve a local fixture backend",
		Long: `Serve the analytics REST API over a fixed set of listings, for trying
the client without the real backend. The chat endpoint can be made to fail
so every error message can be seen.

Examples:
  estate mock-server
  estate mock-server --chat-status 503      Answer chat with "RAG system not initialized"
  estate mock-server --chat-delay 50s       Make chat questions time out
  estate mock-server --chat-raw             Answer chat with an HTML page`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ChatStatus != 0 && (opts.ChatStatus < 400 || opts.ChatStatus > 599) {
				return fmt.Errorf("--chat-status must be an HTTP error status, got %d", opts.ChatStatus)
			}
			opts.Logger = slog.Default()

			srv := mockserver.New(opts)
			ancli.PrintOK(fmt.Sprintf("mock backend listening on %s, press Ctrl+C to stop\n", addr))
			if opts.ChatStatus != 0 {
				ancli.PrintWarn(fmt.Sprintf("chat answers fail with %d %s\n", opts.ChatStatus, http.StatusText(opts.ChatStatus)))
			}

			if err := srv.Run(cmd.Context(), addr); err != nil {
				return err
			}
			ancli.PrintOK("mock backend stopped\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "Address to listen on")
	cmd.Flags().IntVar(&opts.ChatStatus, "chat-status", 0, "Fail every chat question with this HTTP status")
	cmd.Flags().DurationVar(&opts.ChatDelay, "chat-delay", 0, "Wait this long before answering a chat question")
	cmd.Flags().BoolVar(&opts.ChatRaw, "chat-raw", false, "Answer chat questions with a non-JSON body")

	return cmd
}
