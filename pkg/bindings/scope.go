package bindings

// Scope tags a registered callback with the layer it belongs to.
//
// The zero value is the global scope: its callbacks fire regardless of the
// active layer. A named scope fires only while its layer is the active one.
type Scope struct {
	layer string
}

// Global returns the scope whose callbacks always fire.
func Global() Scope {
	return Scope{}
}

// Named returns the scope bound to layer. It panics if layer is empty,
// because the empty string means "no active layer" and a callback bound to
// it could never fire.
func Named(layer string) Scope {
	if layer == "" {
		panic("bindings: layer name must not be empty")
	}
	return Scope{layer: layer}
}

// IsGlobal reports whether s is the global scope.
func (s Scope) IsGlobal() bool {
	return s.layer == ""
}

// Layer returns the layer name of a named scope, or "" for the global scope.
func (s Scope) Layer() string {
	return s.layer
}

// Matches reports whether callbacks in s are eligible while active is the
// active layer. An empty active layer means no layer is set.
func (s Scope) Matches(active string) bool {
	if s.IsGlobal() {
		return true
	}
	return s.layer == active
}

// String implements fmt.Stringer.
func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "layer:" + s.layer
}
