package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"autolog/internal/app"
)

func main() {
	logger, _ := app.NewLogger(nil, "info")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}
