package tool

import (
	"fmt"
	"reflect"
	"sync"
)

// Meta is the side-channel metadata record a plain handler function may
// carry. Attaching Meta does not register the function as a tool; the
// discovery engine reads it when deriving a Spec, and its mere presence makes
// a function eligible for the fallback discovery tier.
type Meta struct {
	Name         string
	Description  string
	Tags         []string
	Annotations  map[string]any
	ExcludeArgs  []string
	OutputSchema map[string]any
	Enabled      *bool
	Extra        map[string]any
}

// IsZero reports whether no metadata was ever attached.
func (m Meta) IsZero() bool {
	return m.Name == "" && m.Description == "" &&
		m.Tags == nil && m.Annotations == nil && m.ExcludeArgs == nil &&
		m.OutputSchema == nil && m.Enabled == nil && m.Extra == nil
}

// metaTable associates metadata with function identity. Populated once at
// pack registration time, read on every discovery pass.
var metaTable = struct {
	sync.RWMutex
	m map[uintptr]Meta
}{m: make(map[uintptr]Meta)}

// Attach records metadata for a handler function, keyed by the function
// value's identity. It panics when fn is not a function: that is a
// programmer error in a pack's registration code.
func Attach(fn any, m Meta) {
	metaTable.Lock()
	defer metaTable.Unlock()
	metaTable.m[fnKey(fn)] = m
}

// MetaOf returns the metadata attached to fn, or a zero Meta when none was
// ever attached. Absence is not a failure.
func MetaOf(fn any) Meta {
	metaTable.RLock()
	defer metaTable.RUnlock()
	return metaTable.m[fnKey(fn)]
}

func fnKey(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("tool: metadata target must be a function, got %T", fn))
	}
	return v.Pointer()
}
