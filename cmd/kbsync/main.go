// Package main is the kbsync command entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hctlabs/kbsync/internal/adapters/driving/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
