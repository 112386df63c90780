// Package app wires the handler packs, the host runtime, the discovery
// engine, and the HTTP surface into a runnable tool server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/engine"
	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/host"
)

// serverName identifies the host runtime instance in logs.
const serverName = "agent-tools"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	table  *handlers.Table
	host   *host.Runtime
	engine *engine.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, handler table,
// host runtime, and discovery engine.
func NewApp(outW io.Writer, cfg *Config, packs ...handlers.Pack) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loadDotenv(logger)

	// Create and populate the handler table from the compiled-in packs.
	table := handlers.New()
	if len(packs) == 0 {
		packs = corePacks
	}
	for _, p := range packs {
		p.Register(table)
	}
	logger.Debug("All handler packs registered.", "count", len(packs))

	rt := host.NewRuntime(serverName, host.DuplicateError, logger)
	eng := engine.New(cfg.ToolsPath, table, rt)

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		table:  table,
		host:   rt,
		engine: eng,
	}

	// The admin tools are part of the server itself, not of any module; a
	// failure to bind them is a programmer error.
	if err := a.registerAdminTools(ctx); err != nil {
		panic(fmt.Errorf("failed to register admin tools: %w", err))
	}
	logger.Debug("Admin tools registered.")

	return a
}

// Host returns the application's host runtime. This is primarily for testing.
func (a *App) Host() *host.Runtime {
	return a.host
}

// Engine returns the application's discovery engine. This is primarily for
// testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
