// Package schema defines the HCL shape of a tool module manifest and the
// decoder that turns one file into its parsed representation.
package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Module represents the top-level structure of one tool module manifest.
// The three registration forms are mutually exclusive in effect: the
// discovery engine applies the first one present, in the order the fields
// are declared here, and falls back to scanning the module's handler pack
// when none is.
type Module struct {
	// Pack overrides the handler pack this module binds to. Defaults to the
	// manifest's file name without extension.
	Pack string `hcl:"pack,optional"`

	// Register names a delegate that receives the host handle and performs
	// all registration itself.
	Register string `hcl:"register,optional"`

	// ToolList names handler functions to register as-is, in order.
	ToolList []string `hcl:"tools,optional"`

	// Tools is the explicit, ordered list of tool declarations.
	Tools []*Tool `hcl:"tool,block"`
}

// Tool represents a single `tool` block: one explicit tool declaration.
type Tool struct {
	Name         string     `hcl:"name,label"`
	Handler      string     `hcl:"handler"`
	Description  string     `hcl:"description,optional"`
	Tags         []string   `hcl:"tags,optional"`
	Annotations  *cty.Value `hcl:"annotations,optional"`
	ExcludeArgs  []string   `hcl:"exclude_args,optional"`
	OutputSchema *cty.Value `hcl:"output_schema,optional"`
	Enabled      *bool      `hcl:"enabled,optional"`
	Meta         *cty.Value `hcl:"meta,optional"`
	Inputs       []*Input   `hcl:"input,block"`
}

// Input represents an `input` block inside a tool declaration. It refines a
// parameter the handler already declares in Go: a description for clients,
// or a default that makes the parameter optional (and thereby excludable).
type Input struct {
	Name        string     `hcl:"name,label"`
	Description string     `hcl:"description,optional"`
	Default     *cty.Value `hcl:"default,optional"`
}

// DecodeFile parses and decodes one manifest file. Any parse or decode
// diagnostic is an import failure for the owning module.
func DecodeFile(path string) (*Module, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}
	return decodeBody(file.Body, path)
}

func decodeBody(body hcl.Body, path string) (*Module, error) {
	var mod Module
	if diags := gohcl.DecodeBody(body, nil, &mod); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}
	return &mod, nil
}
