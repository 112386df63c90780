// Package engine orchestrates tool discovery: it scans the tools directory
// for module manifests, applies the four-tier registration precedence per
// module, isolates per-module failures, and reconciles the host's tool set
// on demand.
package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/fsutil"
	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/tool"
)

// Host is the runtime surface the engine needs: tool creation plus the
// ability to wipe discovered tools at the start of a reconciliation.
type Host interface {
	tool.Host
	Reset()
}

// Summary is a value snapshot of one discovery pass.
type Summary struct {
	// Registered lists all live tool names from the pass, sorted.
	Registered []string `json:"registered"`
	// Count is len(Registered).
	Count int `json:"count"`
	// Errors holds one "<module>: <failure>" entry per module that failed
	// to import or register.
	Errors []string `json:"errors"`
}

// Engine is the discovery and reconciliation state machine. Reconciliations
// are serialized with a mutex: a pass clears and rebuilds all shared state,
// so two passes must never interleave.
type Engine struct {
	mu    sync.Mutex
	dir   string
	table *handlers.Table
	host  Host
	reg   *tool.Registry
	last  *Summary
}

// New creates an Engine scanning the given directory against the given
// handler table and host.
func New(dir string, table *handlers.Table, host Host) *Engine {
	return &Engine{
		dir:   dir,
		table: table,
		host:  host,
		reg:   tool.NewRegistry(),
	}
}

// LoadAll performs a full reconciliation: clear the name registry and the
// host's discovered tools, re-read every eligible module manifest from disk,
// and re-run per-module registration. Per-module failures are recorded in
// the summary and never abort the pass; only an unreadable tools directory
// is a top-level failure.
func (e *Engine) LoadAll(ctx context.Context) (*Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Engine loading tools from modules path...", "path", e.dir)

	e.reg.Clear()
	e.host.Reset()

	modules, err := fsutil.ListModules(e.dir)
	if os.IsNotExist(err) {
		logger.Warn("Tools directory not found.", "path", e.dir)
		modules, err = nil, nil
	}
	if err != nil {
		logger.Error("Failed to list tools directory.", "path", e.dir, "error", err)
		return nil, fmt.Errorf("failed to list tools directory %s: %w", e.dir, err)
	}

	errs := []string{}
	for _, mod := range modules {
		logger.Info("Discovered module.", "module", mod.Name)
		if err := e.loadModule(ctx, mod); err != nil {
			logger.Error("Failed to register tools from module.", "module", mod.Name, "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", mod.Name, err))
		}
	}

	summary := &Summary{
		Registered: e.reg.Names(),
		Count:      e.reg.Len(),
		Errors:     errs,
	}
	e.last = summary
	logger.Info("Tool load summary.", "count", summary.Count, "errors", len(summary.Errors))
	return summary, nil
}

// Reload is LoadAll under its admin-facing name: a synchronous, full
// clear-and-rebuild reconciliation. It is the only way tools are ever
// removed from the live set.
func (e *Engine) Reload(ctx context.Context) (*Summary, error) {
	return e.LoadAll(ctx)
}

// Inventory returns a copy of the most recent discovery summary. Read-only,
// no side effects.
func (e *Engine) Inventory() *Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.last == nil {
		return &Summary{Registered: []string{}, Errors: []string{}}
	}
	cp := &Summary{
		Registered: append([]string{}, e.last.Registered...),
		Count:      e.last.Count,
		Errors:     append([]string{}, e.last.Errors...),
	}
	return cp
}
