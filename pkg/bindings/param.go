package bindings

import "fmt"

// ParamBinding registers callbacks on a Button that receive a parameter
// read at the moment the callback fires, such as the trigger pressure or
// the stick position that accompanied a button press.
type ParamBinding[P any] struct {
	button *Button
	param  Source[P]
	scope  Scope
}

// WithParam returns a ParamBinding for b whose callbacks receive the
// current value of param. param is usually a Variable or Range registered
// with the same Manager, so its value is already fresh when b dispatches.
func WithParam[P any](b *Button, param Source[P]) *ParamBinding[P] {
	return &ParamBinding[P]{button: b, param: param}
}

// Button returns the owning button.
func (p *ParamBinding[P]) Button() *Button {
	return p.button
}

// InLayer returns a ParamBinding whose callbacks only fire while layer is
// active.
func (p *ParamBinding[P]) InLayer(layer string) *ParamBinding[P] {
	return &ParamBinding[P]{button: p.button, param: p.param, scope: Named(layer)}
}

// WhenTrue runs f on every tick the button is true.
func (p *ParamBinding[P]) WhenTrue(f func(P)) *ParamBinding[P] {
	p.button.on(TriggerTrue, p.scope, p.with(f))
	return p
}

// WhenFalse runs f on every tick the button is false.
func (p *ParamBinding[P]) WhenFalse(f func(P)) *ParamBinding[P] {
	p.button.on(TriggerFalse, p.scope, p.with(f))
	return p
}

// WhenBecomesTrue runs f on the rising edge.
func (p *ParamBinding[P]) WhenBecomesTrue(f func(P)) *ParamBinding[P] {
	p.button.on(TriggerRising, p.scope, p.with(f))
	return p
}

// WhenBecomesFalse runs f on the falling edge.
func (p *ParamBinding[P]) WhenBecomesFalse(f func(P)) *ParamBinding[P] {
	p.button.on(TriggerFalling, p.scope, p.with(f))
	return p
}

// WhenChanges runs f with the parameter and the new state on either edge.
func (p *ParamBinding[P]) WhenChanges(f func(P, bool)) *ParamBinding[P] {
	p.button.on(TriggerRising, p.scope, p.with(func(v P) { f(v, true) }))
	p.button.on(TriggerFalling, p.scope, p.with(func(v P) { f(v, false) }))
	return p
}

func (p *ParamBinding[P]) with(f func(P)) func() error {
	return func() error {
		v, err := p.param.Sample()
		if err != nil {
			return fmt.Errorf("reading callback parameter: %w", err)
		}
		f(v)
		return nil
	}
}
