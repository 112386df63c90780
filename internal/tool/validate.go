package tool

import (
	"fmt"
	"reflect"
)

// Validation helpers. Each check is pure and independently callable so the
// engine, the deriver, and the tests can run subsets. Validate runs all of
// them in order and returns the first failure.

var errType = reflect.TypeOf((*error)(nil)).Elem()

// EnsureNoVariadic rejects handler functions with a variadic parameter. The
// host requires a complete, enumerable parameter schema, which a variadic
// signature makes impossible to express.
func EnsureNoVariadic(f *Func) error {
	t, err := fnType(f)
	if err != nil {
		return err
	}
	if t.IsVariadic() {
		return fmt.Errorf("%w: tool %q must not be variadic", ErrInvalidSignature, f.Name)
	}
	return nil
}

// EnsureTypedReturn rejects handler functions that do not return a concrete
// value alongside their error. The host needs a deterministic output shape,
// so both a missing result and a bare `any` result are refused.
func EnsureTypedReturn(f *Func) error {
	t, err := fnType(f)
	if err != nil {
		return err
	}
	if t.NumOut() != 2 || !t.Out(1).Implements(errType) {
		return fmt.Errorf("%w: tool %q must return (result, error)", ErrInvalidSignature, f.Name)
	}
	out := t.Out(0)
	if out.Kind() == reflect.Interface && out.NumMethod() == 0 {
		return fmt.Errorf("%w: tool %q must not declare 'any' as its result type", ErrInvalidSignature, f.Name)
	}
	return nil
}

// EnsureExcludeArgs checks that every excluded argument names a declared
// parameter carrying a default. Excluding a required parameter would make the
// tool uninvocable, because the host could never supply a value for it.
func EnsureExcludeArgs(params []Param, exclude []string) error {
	for _, name := range exclude {
		p, found := paramNamed(params, name)
		if !found {
			return fmt.Errorf("%w: %q is not a declared parameter", ErrInvalidExclusion, name)
		}
		if p.Default == nil {
			return fmt.Errorf("%w: %q is required; only parameters with defaults can be excluded", ErrInvalidExclusion, name)
		}
	}
	return nil
}

// Validate runs all signature and exclusion checks on a Spec.
func Validate(s *Spec) error {
	if err := EnsureNoVariadic(s.Func); err != nil {
		return err
	}
	if err := EnsureTypedReturn(s.Func); err != nil {
		return err
	}
	return EnsureExcludeArgs(s.EffectiveParams(), s.ExcludeArgs)
}

func fnType(f *Func) (reflect.Type, error) {
	if f == nil || f.Fn == nil {
		return nil, fmt.Errorf("%w: no handler function", ErrInvalidSignature)
	}
	t := reflect.TypeOf(f.Fn)
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: tool %q handler is %s, not a function", ErrInvalidSignature, f.Name, t.Kind())
	}
	return t, nil
}

func paramNamed(params []Param, name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
