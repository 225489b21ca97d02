package bindings

import "fmt"

// Variable is a cached, per-tick sampled cell wrapping a Source.
//
// Update samples the source and stores the result; Get returns the stored
// value. Reading before the first successful Update is an error rather than
// a zero value, so a cell that was never wired into a Manager is caught
// instead of silently reporting zero.
type Variable[T any] struct {
	source  Source[T]
	manager *Manager
	value   T
	ready   bool
}

// NewVariable creates a Variable sampling src and registers it with m.
// If m is nil the Variable is unregistered and the caller is responsible
// for updating it (or adding it to a Manager later).
//
// Cells derived from the Variable are registered with the same Manager.
func NewVariable[T any](m *Manager, src Source[T]) *Variable[T] {
	v := &Variable[T]{source: src, manager: m}
	if m != nil {
		m.AddVariable(v)
	}
	return v
}

// Update samples the source and caches the result. On failure the previous
// value is kept and the error is returned wrapped in ErrSource.
func (v *Variable[T]) Update() error {
	value, err := v.source.Sample()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSource, err)
	}
	v.value = value
	v.ready = true
	return nil
}

// Get returns the value cached by the last Update.
func (v *Variable[T]) Get() (T, error) {
	if !v.ready {
		var zero T
		return zero, ErrUninitialized
	}
	return v.value, nil
}

// Sample implements Source by returning the cached value, so cells can feed
// other cells.
func (v *Variable[T]) Sample() (T, error) {
	return v.Get()
}

// Manager returns the Manager the Variable was created with, or nil.
func (v *Variable[T]) Manager() *Manager {
	return v.manager
}

// MapToRange returns a Range whose value is f applied to this Variable's
// cached value.
func (v *Variable[T]) MapToRange(f func(T) float64) *Range {
	return NewRange(v.manager, derive(v, f))
}

// AsButton returns a Button that is true while pred holds for this
// Variable's cached value.
func (v *Variable[T]) AsButton(pred func(T) bool) *Button {
	return NewButton(v.manager, derive(v, pred))
}

// Map returns a Variable whose value is f applied to v's cached value. The
// result is registered with v's Manager and re-evaluated every tick.
func Map[T, R any](v *Variable[T], f func(T) R) *Variable[R] {
	return NewVariable(v.manager, derive(v, f))
}

// derive builds a Source that reads src's cached value through f.
func derive[T, R any](src Source[T], f func(T) R) Source[R] {
	return SourceFunc[R](func() (R, error) {
		v, err := src.Sample()
		if err != nil {
			var zero R
			return zero, err
		}
		return f(v), nil
	})
}
