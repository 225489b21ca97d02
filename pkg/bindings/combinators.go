package bindings

// ToggleOnBecomesTrue returns a Button whose state flips on every rising
// edge of b, starting false. Both buttons must be ticked: the flag flips
// when b dispatches and the returned Button reports it on its own update.
func (b *Button) ToggleOnBecomesTrue() *Button {
	return b.toggle(TriggerRising)
}

// ToggleOnBecomesFalse returns a Button whose state flips on every falling
// edge of b, starting false.
func (b *Button) ToggleOnBecomesFalse() *Button {
	return b.toggle(TriggerFalling)
}

func (b *Button) toggle(trigger Trigger) *Button {
	state := false
	b.on(trigger, Global(), plain(func() { state = !state }))
	return NewButton(b.manager, Func(func() bool { return state }))
}

// And returns a Button that is true while both b and other are true. The
// result is an independent cell: it does not share b's callbacks and
// re-reads both operands every tick.
func (b *Button) And(other Source[bool]) *Button {
	return b.combine(other, func(x, y bool) bool { return x && y })
}

// Or returns a Button that is true while b or other is true.
func (b *Button) Or(other Source[bool]) *Button {
	return b.combine(other, func(x, y bool) bool { return x || y })
}

// Xor returns a Button that is true while exactly one of b and other is true.
func (b *Button) Xor(other Source[bool]) *Button {
	return b.combine(other, func(x, y bool) bool { return x != y })
}

// Not returns a Button that is true while b is false.
func (b *Button) Not() *Button {
	return NewButton(b.manager, derive[bool](b, func(v bool) bool { return !v }))
}

func (b *Button) combine(other Source[bool], op func(x, y bool) bool) *Button {
	return NewButton(b.manager, SourceFunc[bool](func() (bool, error) {
		x, err := b.Get()
		if err != nil {
			return false, err
		}
		y, err := other.Sample()
		if err != nil {
			return false, err
		}
		return op(x, y), nil
	}))
}
