// Package calc exposes small arithmetic tools. Its manifest uses the bare
// handler list form, so the registered names below are the tool names.
package calc

import (
	"context"

	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty"
)

// Pack implements the handlers.Pack interface for this package.
type Pack struct{}

// Input defines the arguments of both arithmetic tools.
type Input struct {
	A float64 `tool:"a"`
	B float64 `tool:"b"`
}

// OnAdd is the handler for the 'add' tool.
func OnAdd(ctx context.Context, input *Input) (float64, error) {
	return input.A + input.B, nil
}

// OnMul is the handler for the 'mul' tool.
func OnMul(ctx context.Context, input *Input) (float64, error) {
	return input.A * input.B, nil
}

// Register registers both handlers with the table.
func (p *Pack) Register(t *handlers.Table) {
	params := []tool.Param{
		{Name: "a", Type: cty.Number},
		{Name: "b", Type: cty.Number},
	}
	t.RegisterTool("calc", &tool.Func{
		Name:     "add",
		NewInput: func() any { return new(Input) },
		Fn:       OnAdd,
		Params:   params,
	})
	t.RegisterTool("calc", &tool.Func{
		Name:     "mul",
		NewInput: func() any { return new(Input) },
		Fn:       OnMul,
		Params:   params,
	})
}
