package bindings

import "fmt"

// Button is a cached boolean cell with edge and level callbacks. It can
// represent a physical button or any boolean condition.
//
// Each tick Update samples the source and dispatches, in order:
//  1. TriggerTrue callbacks if the value is true
//  2. TriggerFalse callbacks if the value is false
//  3. TriggerRising callbacks on a false → true transition
//  4. TriggerFalling callbacks on a true → false transition
//
// Within a trigger kind, callbacks run in registration order. Callbacks
// bound through InLayer only run when their layer is the one passed to
// Update.
//
// The first successful sample only establishes the baseline: level
// callbacks run but no edge is reported, since there is no previous value.
type Button struct {
	source  Source[bool]
	manager *Manager
	value   bool
	ready   bool

	callbacks [triggerCount]callbackList
}

// NewButton creates a Button sampling src and registers it with m. If m is
// nil the Button is unregistered.
func NewButton(m *Manager, src Source[bool]) *Button {
	b := &Button{source: src, manager: m}
	if m != nil {
		m.AddButton(b)
	}
	return b
}

// Get returns the value cached by the last Update.
func (b *Button) Get() (bool, error) {
	if !b.ready {
		return false, ErrUninitialized
	}
	return b.value, nil
}

// Sample implements Source so Buttons can be combined with other Buttons.
func (b *Button) Sample() (bool, error) {
	return b.Get()
}

// Manager returns the Manager the Button was created with, or nil.
func (b *Button) Manager() *Manager {
	return b.manager
}

// Update samples the source and runs the eligible callbacks. layer is the
// active layer for this dispatch; "" means no layer is active and only
// global callbacks run.
//
// A failing source leaves the cached state untouched. A failing callback
// stops the dispatch; the sampled value is still recorded so the next tick
// does not report the same edge twice.
func (b *Button) Update(layer string) error {
	v, err := b.source.Sample()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSource, err)
	}

	prev, first := b.value, !b.ready
	b.value, b.ready = v, true

	if v {
		if err := b.callbacks[TriggerTrue].run(layer); err != nil {
			return err
		}
	} else {
		if err := b.callbacks[TriggerFalse].run(layer); err != nil {
			return err
		}
	}

	if first {
		return nil
	}
	if v && !prev {
		return b.callbacks[TriggerRising].run(layer)
	}
	if !v && prev {
		return b.callbacks[TriggerFalling].run(layer)
	}
	return nil
}

// on registers action for trigger in scope.
func (b *Button) on(trigger Trigger, scope Scope, action func() error) {
	b.callbacks[trigger].add(scope, action)
}

// Bindings returns the number of callbacks registered for trigger, across
// all scopes.
func (b *Button) Bindings(trigger Trigger) int {
	return b.callbacks[trigger].len()
}

// WhenTrue runs f on every tick the button is true.
func (b *Button) WhenTrue(f func()) *Button {
	b.on(TriggerTrue, Global(), plain(f))
	return b
}

// WhenFalse runs f on every tick the button is false.
func (b *Button) WhenFalse(f func()) *Button {
	b.on(TriggerFalse, Global(), plain(f))
	return b
}

// WhenBecomesTrue runs f on the rising edge.
func (b *Button) WhenBecomesTrue(f func()) *Button {
	b.on(TriggerRising, Global(), plain(f))
	return b
}

// WhenBecomesFalse runs f on the falling edge.
func (b *Button) WhenBecomesFalse(f func()) *Button {
	b.on(TriggerFalling, Global(), plain(f))
	return b
}

// WhenChanges runs f with the new state on either edge.
func (b *Button) WhenChanges(f func(bool)) *Button {
	b.onChange(Global(), f)
	return b
}

func (b *Button) onChange(scope Scope, f func(bool)) {
	b.on(TriggerRising, scope, plain(func() { f(true) }))
	b.on(TriggerFalling, scope, plain(func() { f(false) }))
}

// InLayer returns a view that registers callbacks on this button which only
// fire while layer is active. It panics if layer is empty.
func (b *Button) InLayer(layer string) *LayerView {
	return &LayerView{button: b, scope: Named(layer)}
}

// InLayerDo calls fn with the view for layer and returns the button, for
// grouping several layered bindings in one expression.
func (b *Button) InLayerDo(layer string, fn func(*LayerView)) *Button {
	fn(b.InLayer(layer))
	return b
}
