package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/host"
)

// newServeMux builds the HTTP surface: health, tool inventory, tool
// invocation, and reload.
func (a *App) newServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /tools", a.toolsHandler)
	mux.HandleFunc("POST /tools/{name}", a.callHandler)
	mux.HandleFunc("POST /reload", a.reloadHandler)
	return mux
}

// healthHandler reports liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// toolsHandler reports the live inventory plus the last load summary.
func (a *App) toolsHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.inventoryPayload())
}

// callHandler invokes one live tool with a JSON argument object. An empty
// body means no arguments.
func (a *App) callHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ctx := ctxlog.WithLogger(r.Context(), a.logger)

	args := map[string]any{}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			a.writeError(w, http.StatusBadRequest, fmt.Errorf("request body must be a JSON object: %w", err))
			return
		}
	}

	result, err := a.host.Call(ctx, name, args)
	if err != nil {
		a.writeError(w, callStatus(err), err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// reloadHandler triggers a synchronous full discovery pass.
func (a *App) reloadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := ctxlog.WithLogger(r.Context(), a.logger)
	payload, err := a.reloadTools(ctx, nil)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err)
		return
	}
	a.writeJSON(w, http.StatusOK, payload)
}

// callStatus maps an invocation failure to an HTTP status code.
func callStatus(err error) int {
	switch {
	case errors.Is(err, host.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, host.ErrToolDisabled):
		return http.StatusForbidden
	case errors.Is(err, host.ErrBadArguments):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode response.", "error", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, err error) {
	a.logger.Warn("Request failed.", "status", status, "error", err)
	a.writeJSON(w, status, map[string]any{"error": err.Error()})
}
