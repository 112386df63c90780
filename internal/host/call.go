package host

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Call invokes a live tool with a decoded JSON argument map. Arguments pass
// through the declared parameter schema: values are converted to the declared
// cty type, defaults fill omitted arguments, and values supplied for excluded
// parameters are ignored so remote callers cannot reach them.
func (r *Runtime) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx).With("tool", name)

	e, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	spec := e.spec
	if spec.Enabled != nil && !*spec.Enabled {
		return nil, fmt.Errorf("%w: %q", ErrToolDisabled, name)
	}

	input, err := buildInput(spec, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}

	logger.Debug("Calling tool handler.", "handler", spec.Func.Name)
	fn := reflect.ValueOf(spec.Func.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx)}
	if input == nil {
		callArgs = append(callArgs, reflect.Zero(fn.Type().In(1)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(input))
	}

	results := fn.Call(callArgs)
	if errResult := results[1].Interface(); errResult != nil {
		return nil, errResult.(error)
	}
	return results[0].Interface(), nil
}

// buildInput produces the handler's input struct from the caller-supplied
// argument map and the effective parameter schema.
func buildInput(spec *tool.Spec, args map[string]any) (any, error) {
	f := spec.Func
	if f.NewInput == nil {
		return nil, nil
	}
	input := f.NewInput()

	excluded := make(map[string]struct{}, len(spec.ExcludeArgs))
	for _, name := range spec.ExcludeArgs {
		excluded[name] = struct{}{}
	}

	for _, p := range spec.EffectiveParams() {
		raw, supplied := args[p.Name]
		if _, hidden := excluded[p.Name]; hidden {
			supplied = false
		}

		var val cty.Value
		switch {
		case supplied:
			conv, err := gocty.ToCtyValue(raw, p.Type)
			if err != nil {
				return nil, fmt.Errorf("invalid argument %q: %w", p.Name, err)
			}
			val = conv
		case p.Default != nil:
			conv, err := convert.Convert(*p.Default, p.Type)
			if err != nil {
				return nil, fmt.Errorf("default for %q does not fit its declared type: %w", p.Name, err)
			}
			val = conv
		default:
			return nil, fmt.Errorf("missing required argument %q", p.Name)
		}

		if err := assignField(input, p.Name, val); err != nil {
			return nil, err
		}
	}
	return input, nil
}

// assignField stores a value into the input struct field tagged with the
// parameter's name.
func assignField(input any, name string, val cty.Value) error {
	v := reflect.ValueOf(input).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := strings.Split(field.Tag.Get("tool"), ",")[0]
		if tag != name {
			continue
		}
		if err := gocty.FromCtyValue(val, v.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("handler input %s has no field for parameter %q", t, name)
}
