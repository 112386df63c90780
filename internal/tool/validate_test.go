package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type echoInput struct {
	Text string `tool:"text"`
}

func echoHandler(ctx context.Context, input *echoInput) (string, error) {
	return input.Text, nil
}

func variadicHandler(ctx context.Context, parts ...string) (string, error) {
	return "", nil
}

func untypedHandler(ctx context.Context, input *echoInput) (any, error) {
	return input.Text, nil
}

func noErrorHandler(ctx context.Context, input *echoInput) string {
	return input.Text
}

func echoFunc() *Func {
	return &Func{
		Name:     "echo",
		NewInput: func() any { return new(echoInput) },
		Fn:       echoHandler,
		Params:   []Param{{Name: "text", Type: cty.String}},
	}
}

func TestEnsureNoVariadic(t *testing.T) {
	t.Run("accepts fixed arity", func(t *testing.T) {
		assert.NoError(t, EnsureNoVariadic(echoFunc()))
	})

	t.Run("rejects variadic handler", func(t *testing.T) {
		err := EnsureNoVariadic(&Func{Name: "spread", Fn: variadicHandler})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects missing handler", func(t *testing.T) {
		err := EnsureNoVariadic(&Func{Name: "ghost"})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects non-function handler", func(t *testing.T) {
		err := EnsureNoVariadic(&Func{Name: "notfn", Fn: 42})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestEnsureTypedReturn(t *testing.T) {
	t.Run("accepts concrete result", func(t *testing.T) {
		assert.NoError(t, EnsureTypedReturn(echoFunc()))
	})

	t.Run("rejects any result", func(t *testing.T) {
		err := EnsureTypedReturn(&Func{Name: "loose", Fn: untypedHandler})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects missing error result", func(t *testing.T) {
		err := EnsureTypedReturn(&Func{Name: "noerr", Fn: noErrorHandler})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestEnsureExcludeArgs(t *testing.T) {
	def := cty.StringVal("fallback")
	params := []Param{
		{Name: "text", Type: cty.String},
		{Name: "mode", Type: cty.String, Default: &def},
	}

	t.Run("accepts excluded parameter with default", func(t *testing.T) {
		assert.NoError(t, EnsureExcludeArgs(params, []string{"mode"}))
	})

	t.Run("accepts empty exclusion list", func(t *testing.T) {
		assert.NoError(t, EnsureExcludeArgs(params, nil))
	})

	t.Run("rejects unknown parameter", func(t *testing.T) {
		err := EnsureExcludeArgs(params, []string{"nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidExclusion)
	})

	t.Run("rejects required parameter", func(t *testing.T) {
		err := EnsureExcludeArgs(params, []string{"text"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidExclusion)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid spec passes", func(t *testing.T) {
		assert.NoError(t, Validate(&Spec{Func: echoFunc()}))
	})

	t.Run("manifest params override handler params for exclusion checks", func(t *testing.T) {
		def := cty.StringVal("hi")
		spec := &Spec{
			Func:        echoFunc(),
			Params:      []Param{{Name: "text", Type: cty.String, Default: &def}},
			ExcludeArgs: []string{"text"},
		}
		assert.NoError(t, Validate(spec))
	})

	t.Run("first failure wins", func(t *testing.T) {
		spec := &Spec{
			Func:        &Func{Name: "spread", Fn: variadicHandler},
			ExcludeArgs: []string{"nope"},
		}
		assert.ErrorIs(t, Validate(spec), ErrInvalidSignature)
	})
}
