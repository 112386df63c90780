// Package host implements the runtime that turns validated tool specs into
// live, externally callable bindings. It is the process's single source of
// truth for which tools exist right now.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/toolgridgo/internal/tool"
)

// DuplicatePolicy controls how the runtime reacts when a tool is added under
// a name that is already bound.
type DuplicatePolicy int

const (
	// DuplicateError hard-fails the AddTool call. The discovery engine
	// expects this policy: it is the second line of defense behind the
	// registration gate's own uniqueness check.
	DuplicateError DuplicatePolicy = iota

	// DuplicateReplace silently replaces the existing binding.
	DuplicateReplace
)

// Standard sentinel errors for comparison using errors.Is().
var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolDisabled = errors.New("tool not enabled")
	ErrDuplicate    = errors.New("tool already registered")
	ErrBadArguments = errors.New("invalid tool arguments")
)

// entry is one live binding.
type entry struct {
	handle  tool.Handle
	spec    *tool.Spec
	builtin bool
}

// Runtime is an in-process tool host.
type Runtime struct {
	name   string
	policy DuplicatePolicy
	logger *slog.Logger

	mu    sync.RWMutex
	tools map[string]*entry
}

// NewRuntime creates a host runtime with the given instance name and
// duplicate-name policy.
func NewRuntime(name string, policy DuplicatePolicy, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{
		name:   name,
		policy: policy,
		logger: logger,
		tools:  make(map[string]*entry),
	}
}

// AddTool creates a live binding for a discovered tool. It trusts the spec's
// fields (validation belongs to the registration gate) but still refuses
// duplicate names under DuplicateError.
func (r *Runtime) AddTool(ctx context.Context, spec *tool.Spec) (*tool.Handle, error) {
	return r.add(spec, false)
}

// AddBuiltin creates a binding that survives Reset. Used for the admin tools
// so the inventory and reload surface cannot discover itself away.
func (r *Runtime) AddBuiltin(ctx context.Context, spec *tool.Spec) (*tool.Handle, error) {
	return r.add(spec, true)
}

func (r *Runtime) add(spec *tool.Spec, builtin bool) (*tool.Handle, error) {
	name := spec.EffectiveName()
	if name == "" {
		return nil, tool.ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists && r.policy == DuplicateError {
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, name)
	}

	handle := tool.Handle{Name: name, ID: uuid.NewString()}
	r.tools[name] = &entry{handle: handle, spec: spec, builtin: builtin}
	r.logger.Info("Registered tool.", "host", r.name, "tool", name)
	return &handle, nil
}

// Reset drops every non-builtin binding. Called by the discovery engine at
// the start of a full reconciliation pass.
func (r *Runtime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, e := range r.tools {
		if !e.builtin {
			delete(r.tools, name)
		}
	}
}

// Info is a read-only snapshot of one live binding.
type Info struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Builtin     bool     `json:"builtin,omitempty"`
}

// List returns a name-sorted snapshot of every live binding.
func (r *Runtime) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.tools))
	for _, e := range r.tools {
		infos = append(infos, Info{
			Name:        e.handle.Name,
			Description: e.spec.Description,
			Tags:        e.spec.Tags,
			Builtin:     e.builtin,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Len returns the number of live bindings, builtins included.
func (r *Runtime) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

func (r *Runtime) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e, ok
}
