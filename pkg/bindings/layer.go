package bindings

// LayerView registers callbacks on a Button that only fire while a named
// layer is active. It shares the Button's callback lists, so layered and
// global callbacks of the same trigger kind run in the order they were
// registered.
type LayerView struct {
	button *Button
	scope  Scope
}

// Layer returns the name of the layer the view binds to.
func (l *LayerView) Layer() string {
	return l.scope.Layer()
}

// WhenTrue runs f on every tick the button is true while the layer is active.
func (l *LayerView) WhenTrue(f func()) *LayerView {
	l.button.on(TriggerTrue, l.scope, plain(f))
	return l
}

// WhenFalse runs f on every tick the button is false while the layer is active.
func (l *LayerView) WhenFalse(f func()) *LayerView {
	l.button.on(TriggerFalse, l.scope, plain(f))
	return l
}

// WhenBecomesTrue runs f on the rising edge while the layer is active.
func (l *LayerView) WhenBecomesTrue(f func()) *LayerView {
	l.button.on(TriggerRising, l.scope, plain(f))
	return l
}

// WhenBecomesFalse runs f on the falling edge while the layer is active.
func (l *LayerView) WhenBecomesFalse(f func()) *LayerView {
	l.button.on(TriggerFalling, l.scope, plain(f))
	return l
}

// WhenChanges runs f with the new state on either edge while the layer is active.
func (l *LayerView) WhenChanges(f func(bool)) *LayerView {
	l.button.onChange(l.scope, f)
	return l
}

// InLayer returns the owning button's view for another layer.
func (l *LayerView) InLayer(layer string) *LayerView {
	return l.button.InLayer(layer)
}

// Global returns the owning button.
func (l *LayerView) Global() *Button {
	return l.button
}
