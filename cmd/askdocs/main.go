// askdocs answers questions about a local document corpus using
// retrieval-augmented generation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/askdocs-ai/askdocs-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for provider API keys.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
