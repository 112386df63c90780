package tool

import (
	"context"
	"fmt"
	"sort"
)

// Handle is the opaque record the host runtime returns for a live tool
// binding. It is retained for inventory reporting only.
type Handle struct {
	// Name is the resolved tool name the binding lives under.
	Name string
	// ID uniquely identifies this binding instance.
	ID string
}

// Host is the boundary into the runtime that turns a Spec into a live,
// externally callable tool. Implementations must reject duplicate names as a
// second line of defense behind the Registry's own check.
type Host interface {
	AddTool(ctx context.Context, spec *Spec) (*Handle, error)
}

// Registry tracks the tool names claimed during a single discovery pass. It
// is the single piece of cross-module shared mutable state in a pass, owned
// by the discovery engine and cleared at the start of every full reload.
type Registry struct {
	seen map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Register validates a Spec, resolves its effective name, enforces
// pass-scoped name uniqueness, and only then asks the host to create the
// live binding. On success the name is recorded and the host's handle
// returned. Failures propagate unmodified; nothing is partially registered.
func (r *Registry) Register(ctx context.Context, host Host, spec *Spec) (*Handle, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	name := spec.EffectiveName()
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, dup := r.seen[name]; dup {
		// Checked before the host call so the host is only ever asked to
		// register names known unique within the current pass.
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	handle, err := host.AddTool(ctx, spec)
	if err != nil {
		return nil, err
	}
	r.seen[name] = struct{}{}
	return handle, nil
}

// Names returns all names registered in the current pass, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.seen))
	for name := range r.seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.seen)
}

// Clear forgets every registered name, readying the Registry for a fresh
// reconciliation pass.
func (r *Registry) Clear() {
	r.seen = make(map[string]struct{})
}
