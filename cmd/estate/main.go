// Command estate is a terminal client for the real-estate analytics backend.
package main

import (
	"context"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"

	"github.com/diogo/estate/internal/commands"
)

func main() {
	ancli.SetupSlog()

	ctx, cancel := context.WithCancel(context.Background())
	go func() { shutdown.Monitor(cancel) }()

	code := commands.Execute(ctx)
	cancel()
	os.Exit(code)
}
