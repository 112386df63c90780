// Package textkit exposes small text utilities. Its manifest carries no
// registration directive at all, so discovery falls back to scanning the
// pack: handlers are picked up by attached metadata or by the naming
// convention, and everything else stays private.
package textkit

import (
	"context"
	"regexp"
	"strings"

	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty"
)

// Pack implements the handlers.Pack interface for this package.
type Pack struct{}

// Input defines the single text argument all textkit tools take.
type Input struct {
	Text string `tool:"text"`
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// ToolReverse reverses a string. Its registered name follows the discovery
// naming convention, so fallback discovery picks it up without metadata.
func ToolReverse(ctx context.Context, input *Input) (string, error) {
	runes := []rune(input.Text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes), nil
}

// Slugify lowercases a string and collapses everything non-alphanumeric into
// hyphens. Eligible for fallback discovery through its attached metadata.
func Slugify(ctx context.Context, input *Input) (string, error) {
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(input.Text), "-")
	return strings.Trim(slug, "-"), nil
}

// TitleCase uppercases the first letter of each word. It carries no metadata
// and no convention name: a plain helper the fallback tier must leave alone.
func TitleCase(ctx context.Context, input *Input) (string, error) {
	words := strings.Fields(input.Text)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " "), nil
}

// Register registers the handlers with the table and attaches discovery
// metadata where the handler relies on it.
func (p *Pack) Register(t *handlers.Table) {
	params := []tool.Param{
		{Name: "text", Type: cty.String, Description: "The text to transform."},
	}
	newInput := func() any { return new(Input) }

	t.RegisterTool("textkit", &tool.Func{
		Name:     "tool_reverse",
		NewInput: newInput,
		Fn:       ToolReverse,
		Params:   params,
	})

	tool.Attach(Slugify, tool.Meta{
		Name:        "slugify",
		Description: "Turn text into a URL-safe slug.",
		Tags:        []string{"text"},
	})
	t.RegisterTool("textkit", &tool.Func{
		Name:     "Slugify",
		NewInput: newInput,
		Fn:       Slugify,
		Params:   params,
	})

	t.RegisterTool("textkit", &tool.Func{
		Name:     "TitleCase",
		NewInput: newInput,
		Fn:       TitleCase,
		Params:   params,
	})

	// The arithmetic handlers are re-exported here for manifests that want to
	// reference them by name; fallback discovery must not register them twice.
	t.Share("textkit", "add")
	t.Share("textkit", "mul")
}
