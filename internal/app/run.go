package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/toolgridgo/internal/ctxlog"
)

// Run performs the initial discovery pass and serves HTTP until the context
// is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	summary, err := a.engine.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("initial tool load failed: %w", err)
	}
	a.logger.Info("🔌 Initial tool load complete.",
		"count", summary.Count, "errors", len(summary.Errors))
	for _, e := range summary.Errors {
		a.logger.Warn("Module failed to load.", "detail", e)
	}

	if a.config.Watch {
		stop, err := a.watchTools(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch tools directory: %w", err)
		}
		defer stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: a.newServeMux(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🛰️ Tool server starting", "address", fmt.Sprintf("http://localhost%s/tools", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown requested, draining server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
