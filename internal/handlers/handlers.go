// Package handlers stores the mappings between the string identifiers used
// in tool manifests and the compiled Go functions that implement them.
//
// The table is populated at startup by the compiled-in handler packs and then
// consulted on every discovery pass, so the public-facing manifests and the
// Go code stay in sync.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/toolgridgo/internal/tool"
)

// Delegate is a full-control registration function. A manifest that names a
// delegate hands it the host handle and trusts it entirely; the delegate is
// responsible for its own registration calls.
type Delegate func(ctx context.Context, host tool.Host) error

// Pack is the interface a compiled-in handler pack implements to contribute
// its functions and delegates to the table.
type Pack interface {
	Register(t *Table)
}

// Table holds all registered handler functions and delegates for a single
// application instance, plus the per-pack membership lists the fallback
// discovery tier scans.
type Table struct {
	tools     map[string]*tool.Func
	delegates map[string]Delegate
	packs     map[string][]string
}

// New creates and initializes a new Table instance.
func New() *Table {
	return &Table{
		tools:     make(map[string]*tool.Func),
		delegates: make(map[string]Delegate),
		packs:     make(map[string][]string),
	}
}

// RegisterTool registers a handler function under the given pack. Duplicate
// names and incomplete records are programmer errors and panic.
func (t *Table) RegisterTool(pack string, f *tool.Func) {
	if f == nil || f.Fn == nil || f.Name == "" {
		panic(fmt.Sprintf("incomplete tool handler registration in pack '%s'", pack))
	}
	if _, exists := t.tools[f.Name]; exists {
		panic(fmt.Sprintf("tool handler with name '%s' already registered", f.Name))
	}
	if f.Origin == "" {
		f.Origin = pack
	}
	slog.Debug("Registering tool handler.", "pack", pack, "name", f.Name)
	t.tools[f.Name] = f
	t.packs[pack] = append(t.packs[pack], f.Name)
}

// Share lists an already registered handler as a member of another pack
// without changing its origin. The fallback tier sees it there but skips it,
// exactly like a re-exported symbol.
func (t *Table) Share(pack, name string) {
	if _, exists := t.tools[name]; !exists {
		panic(fmt.Sprintf("cannot share unknown tool handler '%s' into pack '%s'", name, pack))
	}
	t.packs[pack] = append(t.packs[pack], name)
}

// RegisterDelegate registers a full-control registration delegate.
func (t *Table) RegisterDelegate(name string, d Delegate) {
	if d == nil || name == "" {
		panic("incomplete delegate registration")
	}
	if _, exists := t.delegates[name]; exists {
		panic(fmt.Sprintf("delegate with name '%s' already registered", name))
	}
	slog.Debug("Registering delegate.", "name", name)
	t.delegates[name] = d
}

// Tool looks up a handler function by its registered name.
func (t *Table) Tool(name string) (*tool.Func, bool) {
	f, ok := t.tools[name]
	return f, ok
}

// Delegate looks up a registration delegate by name.
func (t *Table) Delegate(name string) (Delegate, bool) {
	d, ok := t.delegates[name]
	return d, ok
}

// Members returns the handler functions listed in a pack, sorted by name so
// fallback discovery order is deterministic.
func (t *Table) Members(pack string) []*tool.Func {
	names := append([]string(nil), t.packs[pack]...)
	sort.Strings(names)
	funcs := make([]*tool.Func, 0, len(names))
	for _, name := range names {
		funcs = append(funcs, t.tools[name])
	}
	return funcs
}
