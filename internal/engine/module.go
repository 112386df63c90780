package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/ctygo"
	"github.com/vk/toolgridgo/internal/fsutil"
	"github.com/vk/toolgridgo/internal/schema"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty/convert"
)

// conventionPrefix marks handler names eligible for fallback discovery even
// without attached metadata.
const conventionPrefix = "tool_"

// loadModule imports one module manifest and runs its registration tier.
// A panic anywhere inside the module's registration is converted into the
// module's import error, so one faulty module never takes down the pass.
func (e *Engine) loadModule(ctx context.Context, mod fsutil.ModuleFile) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during registration: %v", r)
		}
	}()

	m, err := schema.DecodeFile(mod.Path)
	if err != nil {
		return err
	}

	pack := m.Pack
	if pack == "" {
		pack = mod.Name
	}

	switch {
	case m.Register != "":
		return e.runDelegate(ctx, m.Register)
	case len(m.Tools) > 0:
		return e.registerBlocks(ctx, m.Tools)
	case m.ToolList != nil:
		return e.registerListed(ctx, m.ToolList)
	default:
		return e.registerFallback(ctx, pack)
	}
}

// runDelegate hands the host to a named registration delegate (first tier).
func (e *Engine) runDelegate(ctx context.Context, name string) error {
	d, ok := e.table.Delegate(name)
	if !ok {
		return fmt.Errorf("%w: unknown delegate %q", tool.ErrBadEntry, name)
	}
	return d(ctx, registrar{e})
}

// registerBlocks registers explicit tool declarations in manifest order
// (second tier). The first failing declaration aborts the rest of the
// module; earlier declarations stay registered.
func (e *Engine) registerBlocks(ctx context.Context, blocks []*schema.Tool) error {
	for _, b := range blocks {
		spec, err := e.specFromBlock(b)
		if err != nil {
			return err
		}
		if _, err := e.reg.Register(ctx, e.host, spec); err != nil {
			return err
		}
	}
	return nil
}

// registerListed registers bare handler names in list order (third tier).
func (e *Engine) registerListed(ctx context.Context, names []string) error {
	for _, name := range names {
		f, ok := e.table.Tool(name)
		if !ok {
			return fmt.Errorf("%w: unknown handler %q", tool.ErrBadEntry, name)
		}
		if _, err := e.reg.Register(ctx, e.host, tool.Derive(f)); err != nil {
			return err
		}
	}
	return nil
}

// registerFallback scans the module's handler pack (fourth tier). A member
// is picked up when it carries attached metadata or follows the naming
// convention; members whose origin is another pack are re-exports and are
// skipped.
func (e *Engine) registerFallback(ctx context.Context, pack string) error {
	logger := ctxlog.FromContext(ctx)
	for _, f := range e.table.Members(pack) {
		if f.Origin != pack {
			logger.Debug("Skipping re-exported handler.", "pack", pack, "handler", f.Name)
			continue
		}
		meta := tool.MetaOf(f.Fn)
		if meta.IsZero() && !strings.HasPrefix(f.Name, conventionPrefix) {
			continue
		}
		if _, err := e.reg.Register(ctx, e.host, tool.Derive(f)); err != nil {
			return err
		}
	}
	return nil
}

// specFromBlock builds a Spec from one explicit tool declaration, overlaying
// input refinements onto the handler's declared parameter schema.
func (e *Engine) specFromBlock(b *schema.Tool) (*tool.Spec, error) {
	f, ok := e.table.Tool(b.Handler)
	if !ok {
		return nil, fmt.Errorf("%w: tool %q names unknown handler %q", tool.ErrBadEntry, b.Name, b.Handler)
	}

	annotations, err := ctygo.MapFromCty(b.Annotations)
	if err != nil {
		return nil, fmt.Errorf("tool %q: annotations: %w", b.Name, err)
	}
	outputSchema, err := ctygo.MapFromCty(b.OutputSchema)
	if err != nil {
		return nil, fmt.Errorf("tool %q: output_schema: %w", b.Name, err)
	}
	meta, err := ctygo.MapFromCty(b.Meta)
	if err != nil {
		return nil, fmt.Errorf("tool %q: meta: %w", b.Name, err)
	}

	params, err := overlayInputs(f.Params, b.Inputs, b.Name)
	if err != nil {
		return nil, err
	}

	return &tool.Spec{
		Func:         f,
		Name:         b.Name,
		Description:  b.Description,
		Tags:         b.Tags,
		Annotations:  annotations,
		ExcludeArgs:  b.ExcludeArgs,
		OutputSchema: outputSchema,
		Enabled:      b.Enabled,
		Meta:         meta,
		Params:       params,
	}, nil
}

// overlayInputs merges manifest input blocks onto the handler's declared
// parameters. Inputs may refine descriptions and defaults but cannot invent
// parameters the handler does not take; defaults must fit the declared type.
func overlayInputs(declared []tool.Param, inputs []*schema.Input, toolName string) ([]tool.Param, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	params := append([]tool.Param(nil), declared...)
	for _, in := range inputs {
		idx := -1
		for i, p := range params {
			if p.Name == in.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("tool %q: input %q does not match any handler parameter", toolName, in.Name)
		}
		if in.Description != "" {
			params[idx].Description = in.Description
		}
		if in.Default != nil {
			conv, err := convert.Convert(*in.Default, params[idx].Type)
			if err != nil {
				return nil, fmt.Errorf("tool %q: default for input %q: %w", toolName, in.Name, err)
			}
			params[idx].Default = &conv
		}
	}
	return params, nil
}

// registrar routes a delegate's registrations through the engine's name
// registry so delegate-registered tools obey the same pass-scoped uniqueness
// and validation rules as every other tier.
type registrar struct {
	e *Engine
}

func (r registrar) AddTool(ctx context.Context, spec *tool.Spec) (*tool.Handle, error) {
	return r.e.reg.Register(ctx, r.e.host, spec)
}
