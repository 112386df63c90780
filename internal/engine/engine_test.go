package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/host"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty"
)

type textInput struct {
	Text string `tool:"text"`
}

func alphaHandler(ctx context.Context, input *textInput) (string, error) {
	return "alpha:" + input.Text, nil
}

func betaHandler(ctx context.Context, input *textInput) (string, error) {
	return "beta:" + input.Text, nil
}

func helperHandler(ctx context.Context, input *textInput) (string, error) {
	return "helper:" + input.Text, nil
}

func gammaHandler(ctx context.Context, input *textInput) (string, error) {
	return "gamma:" + input.Text, nil
}

func deltaHandler(ctx context.Context, _ *struct{}) (string, error) {
	return "delta", nil
}

func panicDelegate(ctx context.Context, h tool.Host) error {
	panic("delegate exploded")
}

// newTestTable builds a handler table with one member of every discovery
// shape: a convention-named handler, a metadata-carrying handler, a plain
// helper, a re-export, a listed handler, and a delegate.
func newTestTable(t *testing.T) *handlers.Table {
	t.Helper()
	table := handlers.New()
	textParams := []tool.Param{{Name: "text", Type: cty.String}}
	newText := func() any { return new(textInput) }

	table.RegisterTool("good", &tool.Func{
		Name: "tool_alpha", NewInput: newText, Fn: alphaHandler, Params: textParams,
	})
	tool.Attach(betaHandler, tool.Meta{Name: "beta", Description: "has metadata"})
	table.RegisterTool("good", &tool.Func{
		Name: "Beta", NewInput: newText, Fn: betaHandler, Params: textParams,
	})
	table.RegisterTool("good", &tool.Func{
		Name: "Helper", NewInput: newText, Fn: helperHandler, Params: textParams,
	})

	table.RegisterTool("other", &tool.Func{
		Name: "gamma", NewInput: newText, Fn: gammaHandler, Params: textParams,
	})
	table.Share("good", "gamma")

	table.RegisterDelegate("RegisterDelta", func(ctx context.Context, h tool.Host) error {
		_, err := h.AddTool(ctx, &tool.Spec{Func: &tool.Func{Name: "delta", Fn: deltaHandler}})
		return err
	})
	table.RegisterDelegate("PanicDelegate", panicDelegate)

	return table
}

// harness wires a fresh engine over a temp tools directory.
type harness struct {
	dir    string
	engine *Engine
	host   *host.Runtime
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	rt := host.NewRuntime("test", host.DuplicateError, nil)
	return &harness{
		dir:    dir,
		engine: New(dir, newTestTable(t), rt),
		host:   rt,
	}
}

func (h *harness) writeModule(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, name+".hcl"), []byte(content), 0o644))
}

func TestEngine_LoadAll_Fallback(t *testing.T) {
	h := newHarness(t)
	h.writeModule(t, "good", "# fallback\n")

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)

	// tool_alpha by convention, beta by metadata; the plain helper and the
	// re-exported gamma stay out.
	assert.Equal(t, []string{"beta", "tool_alpha"}, summary.Registered)
	assert.Equal(t, 2, summary.Count)
	assert.Empty(t, summary.Errors)
}

func TestEngine_LoadAll_DelegateWinsOverOtherForms(t *testing.T) {
	h := newHarness(t)
	h.writeModule(t, "good", `
register = "RegisterDelta"
tools    = ["gamma"]

tool "renamed" {
  handler = "gamma"
}
`)

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"delta"}, summary.Registered)
	assert.Empty(t, summary.Errors)
}

func TestEngine_LoadAll_ExplicitBlocks(t *testing.T) {
	h := newHarness(t)
	h.writeModule(t, "mod", `
tool "shout" {
  handler     = "gamma"
  description = "Renamed gamma."
  tags        = ["text"]

  annotations = {
    title        = "Shout"
    readOnlyHint = true
  }

  exclude_args = ["text"]

  input "text" {
    description = "What to shout."
    default     = "hi"
  }
}
`)

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"shout"}, summary.Registered)

	// The overlaid default feeds the excluded parameter; the caller's value
	// is ignored.
	result, err := h.host.Call(context.Background(), "shout", map[string]any{"text": "LOUD"})
	require.NoError(t, err)
	assert.Equal(t, "gamma:hi", result)
}

func TestEngine_LoadAll_ExplicitBlockErrors(t *testing.T) {
	testCases := []struct {
		name     string
		manifest string
		contains string
	}{
		{
			name: "unknown handler",
			manifest: `
tool "x" {
  handler = "Missing"
}
`,
			contains: "unknown handler",
		},
		{
			name: "unknown input",
			manifest: `
tool "x" {
  handler = "gamma"
  input "bogus" {
    default = 1
  }
}
`,
			contains: "does not match any handler parameter",
		},
		{
			name: "excluding a required parameter",
			manifest: `
tool "x" {
  handler      = "gamma"
  exclude_args = ["text"]
}
`,
			contains: "can be excluded",
		},
		{
			name: "default of the wrong type",
			manifest: `
tool "x" {
  handler = "gamma"
  input "text" {
    default = ["not", "a", "string"]
  }
}
`,
			contains: "default for input",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.writeModule(t, "mod", tc.manifest)

			summary, err := h.engine.LoadAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, summary.Registered)
			require.Len(t, summary.Errors, 1)
			assert.Contains(t, summary.Errors[0], "mod: ")
			assert.Contains(t, summary.Errors[0], tc.contains)
		})
	}
}

func TestEngine_LoadAll_BareList(t *testing.T) {
	t.Run("registers in list order", func(t *testing.T) {
		h := newHarness(t)
		h.writeModule(t, "mod", `tools = ["gamma", "tool_alpha"]`)

		summary, err := h.engine.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"gamma", "tool_alpha"}, summary.Registered)
	})

	t.Run("unknown entry aborts the module but keeps earlier tools", func(t *testing.T) {
		h := newHarness(t)
		h.writeModule(t, "mod", `tools = ["gamma", "Missing", "tool_alpha"]`)

		summary, err := h.engine.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"gamma"}, summary.Registered)
		require.Len(t, summary.Errors, 1)
		assert.Contains(t, summary.Errors[0], "Missing")
	})
}

func TestEngine_LoadAll_FailureIsolation(t *testing.T) {
	h := newHarness(t)
	h.writeModule(t, "broken", `tool "x" {`) // unparsable
	h.writeModule(t, "good", "# fallback\n")
	h.writeModule(t, "panicky", `register = "PanicDelegate"`)

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"beta", "tool_alpha"}, summary.Registered)
	require.Len(t, summary.Errors, 2)
	assert.Contains(t, summary.Errors[0], "broken: ")
	assert.Contains(t, summary.Errors[1], "panicky: ")
	assert.Contains(t, summary.Errors[1], "panic during registration")
}

func TestEngine_LoadAll_DuplicateAcrossModules(t *testing.T) {
	h := newHarness(t)
	// Lexicographic order: a.hcl claims gamma first, b.hcl collides.
	h.writeModule(t, "a", `tools = ["gamma"]`)
	h.writeModule(t, "b", `
tool "gamma" {
  handler = "gamma"
}
`)

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma"}, summary.Registered)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "b: ")
	assert.Contains(t, summary.Errors[0], "duplicate tool name")
}

func TestEngine_Reload(t *testing.T) {
	t.Run("idempotent when nothing changes", func(t *testing.T) {
		h := newHarness(t)
		h.writeModule(t, "good", "# fallback\n")
		ctx := context.Background()

		first, err := h.engine.LoadAll(ctx)
		require.NoError(t, err)
		second, err := h.engine.Reload(ctx)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("reload summary mismatch (-first +second):\n%s", diff)
		}
		assert.Equal(t, second.Count, h.host.Len())
	})

	t.Run("picks up added and removed modules", func(t *testing.T) {
		h := newHarness(t)
		h.writeModule(t, "good", "# fallback\n")
		ctx := context.Background()

		_, err := h.engine.LoadAll(ctx)
		require.NoError(t, err)

		h.writeModule(t, "extra", `tools = ["gamma"]`)
		summary, err := h.engine.Reload(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"beta", "gamma", "tool_alpha"}, summary.Registered)

		require.NoError(t, os.Remove(filepath.Join(h.dir, "extra.hcl")))
		summary, err = h.engine.Reload(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"beta", "tool_alpha"}, summary.Registered)
		_, err = h.host.Call(ctx, "gamma", map[string]any{"text": "x"})
		assert.ErrorIs(t, err, host.ErrToolNotFound)
	})
}

func TestEngine_LoadAll_MissingDirectory(t *testing.T) {
	rt := host.NewRuntime("test", host.DuplicateError, nil)
	eng := New(filepath.Join(t.TempDir(), "absent"), newTestTable(t), rt)

	summary, err := eng.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Registered)
	assert.Zero(t, summary.Count)
	assert.Empty(t, summary.Errors)
}

func TestEngine_LoadAll_SkipsReservedAndForeignFiles(t *testing.T) {
	h := newHarness(t)
	h.writeModule(t, "good", "# fallback\n")
	h.writeModule(t, "_draft", `tools = ["gamma"]`)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "notes.txt"), []byte("x"), 0o644))

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "tool_alpha"}, summary.Registered)
}

func TestEngine_Inventory(t *testing.T) {
	h := newHarness(t)
	h.writeModule(t, "good", "# fallback\n")

	t.Run("empty before first pass", func(t *testing.T) {
		inv := h.engine.Inventory()
		assert.Empty(t, inv.Registered)
		assert.Zero(t, inv.Count)
	})

	t.Run("snapshot after a pass", func(t *testing.T) {
		_, err := h.engine.LoadAll(context.Background())
		require.NoError(t, err)

		inv := h.engine.Inventory()
		assert.Equal(t, []string{"beta", "tool_alpha"}, inv.Registered)

		// Mutating the snapshot must not leak into the engine.
		inv.Registered[0] = "tampered"
		assert.Equal(t, []string{"beta", "tool_alpha"}, h.engine.Inventory().Registered)
	})
}

func TestEngine_PackOverride(t *testing.T) {
	h := newHarness(t)
	// File name does not match any pack; the pack attribute redirects the
	// fallback scan.
	h.writeModule(t, "misnamed", `pack = "good"`)

	summary, err := h.engine.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "tool_alpha"}, summary.Registered)
}
