package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/perfume-seed/internal/cli"
)

func main() {
	// Cancel the run on SIGINT or SIGTERM; an interrupted apply rolls back.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCmd())
	cancel()
	os.Exit(code)
}
