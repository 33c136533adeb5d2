// Package main provides the entry point for the lessons server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/lessons-server/internal/di"
	"github.com/listenupapp/lessons-server/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := di.NewContainer()

	if err := di.Bootstrap(ctx, injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	<-ctx.Done()
	log.Info("Shutting down server gracefully...")

	// Handles implement do.Shutdownable; the container stops the HTTP
	// server before closing the index and the database it depends on.
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		log.WithError(report).Error("Shutdown error")
	}

	log.Info("Server stopped")
}
