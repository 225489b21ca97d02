// Package bindings provides tick-driven input bindings for a real-time
// control loop.
//
// Raw input state (buttons, joystick axes, sensor readings, arbitrary typed
// values) is sampled once per control tick, cached, and used to trigger
// callbacks on edges, levels, toggles and threshold crossings. Hardware is
// read exactly once per tick no matter how many derived cells depend on it.
//
// Architecture:
//
//	┌────────────────────────────────────────────────────────┐
//	│                Manager (manager.go)                     │
//	│  Update() once per tick:                                │
//	│    1. capture active layer                              │
//	│    2. Variable/Range.Update() in registration order     │
//	│    3. Button.Update(layer) in registration order        │
//	│    4. append cells registered during the pass           │
//	│  ┌──────────────┐   ┌──────────────┐   ┌─────────────┐  │
//	│  │ Variable[T]  │──▶│    Range     │──▶│   Button    │  │
//	│  │ (variable.go)│   │  (range.go)  │   │ (button.go) │  │
//	│  └──────────────┘   └──────────────┘   └─────────────┘  │
//	│                                               │         │
//	│                          callbacks per trigger kind,    │
//	│                          each tagged with a Scope       │
//	└────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Source: capability producing a fresh value (sensor read, derived expression)
//   - Variable: cached typed cell with Map, MapToRange and AsButton
//   - Range: float64 Variable with shaping (Negate, Invert, DeadZone) and thresholds
//   - Button: cached boolean cell with edge/level callbacks, toggles and boolean algebra
//   - LayerView: registers callbacks that only fire while a named layer is active
//   - Manager: caller-owned registry driving the per-tick update
//
// # Thread Safety
//
// None of the types in this package are safe for concurrent use. The
// Manager must be driven from a single goroutine, and registration and
// layer changes must happen on that goroutine (typically from inside
// callbacks or between ticks).
//
// # Usage
//
//	m := bindings.NewManager()
//
//	trigger := bindings.NewButton(m, bindings.SourceFunc[bool](pad.A))
//	trigger.WhenBecomesTrue(shooter.Fire)
//
//	stick := bindings.NewRange(m, bindings.SourceFunc[float64](pad.LeftY))
//	drive, err := stick.Negate().DeadZone(0.05)
//	if err != nil {
//	    return err
//	}
//	drive.GreaterThan(0.9).InLayer("turbo").WhenTrue(boost)
//
//	for range ticker.C {
//	    if err := m.Update(); err != nil {
//	        return err
//	    }
//	}
package bindings
