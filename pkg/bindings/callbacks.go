package bindings

// Trigger identifies the condition a button callback is registered for.
type Trigger int

// Trigger kinds, in dispatch order.
const (
	TriggerTrue     Trigger = iota // every tick the button is true
	TriggerFalse                   // every tick the button is false
	TriggerRising                  // false → true
	TriggerFalling                 // true → false
	triggerCount
)

// String implements fmt.Stringer.
func (t Trigger) String() string {
	switch t {
	case TriggerTrue:
		return "true"
	case TriggerFalse:
		return "false"
	case TriggerRising:
		return "becomes_true"
	case TriggerFalling:
		return "becomes_false"
	default:
		return "unknown"
	}
}

// binding is one registered callback and the scope it fires in.
type binding struct {
	scope  Scope
	action func() error
}

// callbackList holds the callbacks of one trigger kind in registration order.
type callbackList struct {
	bindings []binding
}

func (c *callbackList) add(scope Scope, action func() error) {
	c.bindings = append(c.bindings, binding{scope: scope, action: action})
}

// run invokes every callback eligible under the active layer. The list is
// iterated by index so callbacks registered while running are picked up on
// the next dispatch, not this one.
func (c *callbackList) run(active string) error {
	n := len(c.bindings)
	for i := 0; i < n; i++ {
		b := c.bindings[i]
		if !b.scope.Matches(active) {
			continue
		}
		if err := b.action(); err != nil {
			return err
		}
	}
	return nil
}

func (c *callbackList) len() int {
	return len(c.bindings)
}

// plain wraps an action that cannot fail.
func plain(f func()) func() error {
	return func() error {
		f()
		return nil
	}
}
