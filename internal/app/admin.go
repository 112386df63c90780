package app

import (
	"context"

	"github.com/vk/toolgridgo/internal/engine"
	"github.com/vk/toolgridgo/internal/tool"
)

// registerAdminTools binds the server's own introspection tools. They are
// builtins: a discovery pass clears every module tool, but the inventory and
// reload surface must survive it.
func (a *App) registerAdminTools(ctx context.Context) error {
	list := &tool.Spec{
		Func: &tool.Func{
			Name: "list_loaded_tools",
			Fn:   a.listLoadedTools,
		},
		Description: "List the dynamically loaded tools and the result of the last load pass.",
		Annotations: map[string]any{
			"title":        "List Loaded Tools",
			"readOnlyHint": true,
		},
	}
	if _, err := a.host.AddBuiltin(ctx, list); err != nil {
		return err
	}

	reload := &tool.Spec{
		Func: &tool.Func{
			Name: "reload_tools",
			Fn:   a.reloadTools,
		},
		Description: "Re-scan the tools directory and rebuild the live tool set.",
		Annotations: map[string]any{
			"title": "Reload Tools",
		},
	}
	_, err := a.host.AddBuiltin(ctx, reload)
	return err
}

func (a *App) listLoadedTools(ctx context.Context, _ *struct{}) (map[string]any, error) {
	return a.inventoryPayload(), nil
}

func (a *App) reloadTools(ctx context.Context, _ *struct{}) (map[string]any, error) {
	summary, err := a.engine.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"reloaded": true,
		"summary":  summaryPayload(summary),
	}, nil
}

// inventoryPayload builds the shared response shape of the list tool and the
// GET /tools endpoint.
func (a *App) inventoryPayload() map[string]any {
	summary := a.engine.Inventory()
	tools := make([]map[string]any, 0, len(summary.Registered))
	for _, name := range summary.Registered {
		tools = append(tools, map[string]any{"name": name})
	}
	return map[string]any{
		"tools":        tools,
		"count":        summary.Count,
		"load_summary": summaryPayload(summary),
	}
}

func summaryPayload(s *engine.Summary) map[string]any {
	return map[string]any{
		"registered": s.Registered,
		"count":      s.Count,
		"errors":     s.Errors,
	}
}
