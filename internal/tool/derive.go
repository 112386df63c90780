package tool

// Derive builds a Spec from a bare handler function, using any attached Meta
// as defaults. Absent metadata every optional field stays unset and the name
// resolves later from the handler's own identifier.
//
// Derive performs no validation; that is the registration gate's job. The
// fallback discovery tier relies on this separation to derive-then-filter
// without paying for a validation pass on every scanned function.
func Derive(f *Func) *Spec {
	m := MetaOf(f.Fn)
	return &Spec{
		Func:         f,
		Name:         m.Name,
		Description:  m.Description,
		Tags:         m.Tags,
		Annotations:  m.Annotations,
		ExcludeArgs:  m.ExcludeArgs,
		OutputSchema: m.OutputSchema,
		Enabled:      m.Enabled,
		Meta:         m.Extra,
	}
}
