package bindings

import (
	"fmt"
	"math"
)

// Range is a float64 Variable with shaping operators and threshold
// predicates, typically a joystick axis, trigger or analog sensor.
//
// Every operator returns a new cell registered with the same Manager; none
// of them modify the receiver.
type Range struct {
	*Variable[float64]
}

// NewRange creates a Range sampling src and registers it with m. Use Float
// to build one from an integer or float32 source.
func NewRange(m *Manager, src Source[float64]) *Range {
	r := &Range{Variable: &Variable[float64]{source: src, manager: m}}
	if m != nil {
		m.AddVariable(r)
	}
	return r
}

// Map returns a Range whose value is f applied to this Range's value.
func (r *Range) Map(f func(float64) float64) *Range {
	return NewRange(r.manager, derive[float64](r, f))
}

// Negate returns a Range whose value is the opposite of this Range.
func (r *Range) Negate() *Range {
	return r.Map(func(v float64) float64 { return -v })
}

// Invert returns a Range whose value is one minus this Range.
func (r *Range) Invert() *Range {
	return r.Map(func(v float64) float64 { return 1 - v })
}

// DeadZone returns a Range that reads 0 while the absolute value of this
// Range is below threshold and passes the value through otherwise.
// A negative threshold is rejected before any Range is created.
func (r *Range) DeadZone(threshold float64) (*Range, error) {
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("%w: dead zone threshold %v must be non-negative", ErrInvalidArgument, threshold)
	}
	return r.Map(func(v float64) float64 {
		if math.Abs(v) < threshold {
			return 0
		}
		return v
	}), nil
}

// LessThan returns a Button that is true while the value is below x.
func (r *Range) LessThan(x float64) *Button {
	return r.AsButton(func(v float64) bool { return v < x })
}

// GreaterThan returns a Button that is true while the value is above x.
func (r *Range) GreaterThan(x float64) *Button {
	return r.AsButton(func(v float64) bool { return v > x })
}

// AtLeast returns a Button that is true while the value is x or more.
func (r *Range) AtLeast(x float64) *Button {
	return r.AsButton(func(v float64) bool { return v >= x })
}

// AtMost returns a Button that is true while the value is x or less.
func (r *Range) AtMost(x float64) *Button {
	return r.AsButton(func(v float64) bool { return v <= x })
}

// InRange returns a Button that is true while lo <= value <= hi. If lo > hi
// the interval is empty and the Button is always false.
func (r *Range) InRange(lo, hi float64) *Button {
	return r.AsButton(func(v float64) bool { return v >= lo && v <= hi })
}
