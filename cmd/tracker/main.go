// Command tracker is the operator CLI of the AGL MCT airfield maintenance tracker.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aglmct/tracker/internal/config"
	"github.com/aglmct/tracker/internal/view"
	"github.com/aglmct/tracker/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, view.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration via OTEL_* env vars (endpoint, headers, resource attributes)
	providers, err := observability.Setup(ctx, observability.Options{
		ServiceName: "tracker",
		Enabled:     cfg.Observability.OTelEnabled,
		LogOutput:   os.Stderr,
		LogLevel:    cfg.Observability.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// Use a timeout to prevent hanging if collector is unreachable
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown observability providers", "error", err)
		}
	}()
	slog.SetDefault(providers.Logger)

	a := newApp(cfg, providers.Logger)
	defer func() {
		if err := a.close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	err = newRootCmd(a).ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}
