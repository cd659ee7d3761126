package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ptbench/internal/cli"
)

func main() {
	// Ctrl+C should stop the current ffmpeg trial and exit cleanly
	// instead of leaving the sidecar running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
