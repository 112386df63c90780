package tool

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Param declares one named argument of a handler function. Go reflection
// cannot see parameter names or defaults, so every handler carries an
// explicit parameter schema declared at registration time.
type Param struct {
	// Name is the wire name remote callers use for this argument.
	Name string

	// Type is the value type the argument must conform to.
	Type cty.Type

	// Description is an optional human-readable explanation.
	Description string

	// Default is the value used when the caller omits the argument. A nil
	// Default means the argument is required.
	Default *cty.Value
}

// Func is one registered callable unit: a Go handler function plus the
// declared schema the host needs to expose it.
//
// The Fn field must be a function of the shape
//
//	func(ctx context.Context, input *T) (R, error)
//
// where T is the struct produced by NewInput with fields tagged
// `tool:"<param name>"`.
type Func struct {
	// Name is the registration identifier. It doubles as the tool name when
	// a Spec carries no explicit name override.
	Name string

	// Origin is the handler pack that defines this function. The fallback
	// discovery tier skips functions whose Origin differs from the module
	// being scanned, so shared helpers are never double-registered.
	Origin string

	// NewInput returns a fresh pointer to the handler's input struct. It may
	// be nil for handlers that take no arguments.
	NewInput func() any

	// Fn is the handler function itself.
	Fn any

	// Params declares the handler's argument schema.
	Params []Param
}

// Spec is the declarative description of a tool prior to registration.
//
// It is a plain data holder: no invariants beyond field types are enforced at
// construction. Validation happens in the registration gate, and a Spec is
// rebuilt wholesale on every discovery pass.
type Spec struct {
	// Func is the underlying callable. The Spec holds a reference, not a
	// copy; the originating pack owns the function.
	Func *Func

	// Name optionally overrides the tool name. When blank, the name resolves
	// from Func.Name at registration time.
	Name string

	Description string
	Tags        []string
	Annotations map[string]any

	// ExcludeArgs lists parameter names the host must not expose to remote
	// callers. Each must name a declared parameter that has a default.
	ExcludeArgs []string

	OutputSchema map[string]any

	// Enabled is tri-state: nil defers to the host default.
	Enabled *bool

	// Meta is free-form metadata passed through opaquely to the host.
	Meta map[string]any

	// Params optionally replaces the handler's declared schema, e.g. when a
	// manifest overlays descriptions or defaults. Nil means Func.Params.
	Params []Param
}

// EffectiveName resolves the tool name: the explicit override if set,
// otherwise the handler's own identifier. The result is trimmed; blank means
// the Spec cannot be registered.
func (s *Spec) EffectiveName() string {
	name := s.Name
	if name == "" && s.Func != nil {
		name = s.Func.Name
	}
	return strings.TrimSpace(name)
}

// EffectiveParams returns the parameter schema in force for this Spec.
func (s *Spec) EffectiveParams() []Param {
	if s.Params != nil {
		return s.Params
	}
	if s.Func != nil {
		return s.Func.Params
	}
	return nil
}

// ParamNamed looks up a parameter of the effective schema by name.
func (s *Spec) ParamNamed(name string) (Param, bool) {
	for _, p := range s.EffectiveParams() {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
