// Package ctygo converts cty values from manifest expressions into plain Go
// values that can be passed through to the host runtime and serialized as
// JSON.
package ctygo

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts a cty.Value into a native Go value: strings, bools,
// int64/float64 numbers, []any, and map[string]any. Null values become nil.
func FromCty(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("cannot convert unknown value")
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Bool:
		return v.True(), nil
	case t == cty.Number:
		return numberFromCty(v), nil
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any)
		for key, val := range v.AsValueMap() {
			conv, err := FromCty(val)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = conv
		}
		return out, nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		vals := v.AsValueSlice()
		out := make([]any, 0, len(vals))
		for i, val := range vals {
			conv, err := FromCty(val)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, conv)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", t.FriendlyName())
	}
}

// MapFromCty converts an object or map value into map[string]any. A nil or
// null value yields a nil map.
func MapFromCty(v *cty.Value) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	conv, err := FromCty(*v)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, nil
	}
	m, ok := conv.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", v.Type().FriendlyName())
	}
	return m, nil
}

func numberFromCty(v cty.Value) any {
	bf := v.AsBigFloat()
	if i, acc := bf.Int64(); acc == big.Exact {
		return i
	}
	f, _ := bf.Float64()
	return f
}
