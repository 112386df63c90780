package tool

import "errors"

// Standard sentinel errors for comparison using errors.Is().
// Each corresponds to one distinct validation or registration failure kind.
var (
	// ErrInvalidSignature marks a handler whose Go signature cannot be
	// exposed: variadic parameters, or a missing/untyped return value.
	ErrInvalidSignature = errors.New("invalid tool signature")

	// ErrInvalidExclusion marks an exclude_args entry that names an unknown
	// parameter or a required one (no default).
	ErrInvalidExclusion = errors.New("invalid excluded argument")

	// ErrEmptyName marks a tool whose resolved name is blank.
	ErrEmptyName = errors.New("tool name resolved to empty string")

	// ErrDuplicateName marks a name collision within one discovery pass.
	ErrDuplicateName = errors.New("duplicate tool name")

	// ErrBadEntry marks a manifest list entry that is not of the expected
	// shape, e.g. a tools list element that is not a registered handler.
	ErrBadEntry = errors.New("unexpected tool list entry")
)
