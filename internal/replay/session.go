package replay

import (
	"fmt"
	"sort"

	"github.com/nerrad567/nextbind/pkg/bindings"
)

// Logger defines the logging interface used by a Session.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Session is a script wired into a bindings.Manager.
type Session struct {
	script  *Script
	manager *bindings.Manager
	logger  Logger

	cursor  int
	buttons map[string]*bindings.Button
	ranges  map[string]*bindings.Range
	layerAt map[int]string
	fired   map[string]int
}

// Report summarises a replay.
type Report struct {
	Ticks      int             `yaml:"ticks"`
	FinalLayer string          `yaml:"final_layer"`
	Bindings   []BindingReport `yaml:"bindings"`
}

// BindingReport is how often one binding fired.
type BindingReport struct {
	Name  string `yaml:"name"`
	Fired int    `yaml:"fired"`
}

// Wire registers the script's inputs, triggers and bindings with m, in
// declaration order. The script must be valid.
func Wire(m *bindings.Manager, s *Script) (*Session, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sess := &Session{
		script:  s,
		manager: m,
		logger:  noopLogger{},
		buttons: make(map[string]*bindings.Button),
		ranges:  make(map[string]*bindings.Range),
		layerAt: make(map[int]string),
		fired:   make(map[string]int),
	}

	for _, in := range s.Inputs {
		if err := sess.wireInput(in); err != nil {
			return nil, fmt.Errorf("wiring input %q: %w", in.Name, err)
		}
	}
	for _, tr := range s.Triggers {
		sess.wireTrigger(tr)
	}
	for _, lc := range s.Layers {
		sess.layerAt[lc.Tick] = lc.Layer
	}
	for _, b := range s.Bindings {
		sess.wireBinding(b)
	}
	return sess, nil
}

// SetLogger sets the logger used by the log action and layer schedule.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
}

// Advance moves every trace to tick and applies any layer change scheduled
// for it. Its signature matches controlloop.Runner.OnTick.
func (s *Session) Advance(tick int) error {
	if tick < 0 {
		return fmt.Errorf("replay: negative tick %d", tick)
	}
	s.cursor = tick
	if layer, ok := s.layerAt[tick]; ok {
		s.logger.Debug("layer scheduled", "tick", tick, "layer", layer)
		s.manager.SetLayer(layer)
	}
	return nil
}

// Length returns the number of ticks needed to play every trace once.
func (s *Session) Length() int {
	return s.script.Length()
}

// Button returns the named input or trigger button.
func (s *Session) Button(name string) (*bindings.Button, bool) {
	b, ok := s.buttons[name]
	return b, ok
}

// Range returns the named numeric input after shaping.
func (s *Session) Range(name string) (*bindings.Range, bool) {
	r, ok := s.ranges[name]
	return r, ok
}

// Fired returns how many times the named binding has fired.
func (s *Session) Fired(name string) int {
	return s.fired[name]
}

// Report returns per-binding fire counts sorted by name.
func (s *Session) Report(ticks int) Report {
	r := Report{
		Ticks:      ticks,
		FinalLayer: s.manager.Layer(),
		Bindings:   make([]BindingReport, 0, len(s.script.Bindings)),
	}
	for _, b := range s.script.Bindings {
		r.Bindings = append(r.Bindings, BindingReport{Name: b.Name, Fired: s.fired[b.Name]})
	}
	sort.Slice(r.Bindings, func(i, j int) bool {
		return r.Bindings[i].Name < r.Bindings[j].Name
	})
	return r
}

// sample returns the trace value at the cursor, holding the last sample.
func sample[T any](trace []T, cursor int) T {
	if cursor >= len(trace) {
		cursor = len(trace) - 1
	}
	return trace[cursor]
}

func (s *Session) wireInput(in Input) error {
	if in.IsButton() {
		trace := in.Pressed
		s.buttons[in.Name] = bindings.NewButton(s.manager, bindings.Func(func() bool {
			return sample(trace, s.cursor)
		}))
		return nil
	}

	trace := in.Values
	r := bindings.NewRange(s.manager, bindings.Func(func() float64 {
		return sample(trace, s.cursor)
	}))
	if in.Negate {
		r = r.Negate()
	}
	if in.Invert {
		r = r.Invert()
	}
	if in.DeadZone != nil {
		dz, err := r.DeadZone(*in.DeadZone)
		if err != nil {
			return err
		}
		r = dz
	}
	s.ranges[in.Name] = r
	return nil
}

func (s *Session) wireTrigger(tr Trigger) {
	var b *bindings.Button
	switch tr.kind() {
	case "threshold":
		r := s.ranges[tr.Input]
		switch {
		case tr.Above != nil:
			b = r.GreaterThan(*tr.Above)
		case tr.Below != nil:
			b = r.LessThan(*tr.Below)
		case tr.AtLeast != nil:
			b = r.AtLeast(*tr.AtLeast)
		case tr.AtMost != nil:
			b = r.AtMost(*tr.AtMost)
		default:
			b = r.InRange(tr.Between[0], tr.Between[1])
		}
	case "toggle":
		src := s.buttons[tr.ToggleOf]
		if tr.On == WhenBecomesFalse {
			b = src.ToggleOnBecomesFalse()
		} else {
			b = src.ToggleOnBecomesTrue()
		}
	case "all":
		b = s.fold(tr.All, (*bindings.Button).And)
	case "any":
		b = s.fold(tr.Any, (*bindings.Button).Or)
	case "xor":
		b = s.fold(tr.Xor, (*bindings.Button).Xor)
	case "not":
		b = s.buttons[tr.Not].Not()
	}
	s.buttons[tr.Name] = b
}

// fold combines operands left to right. Intermediate buttons are registered
// cells too, so each one is updated before the next in the chain.
func (s *Session) fold(names []string, op func(*bindings.Button, bindings.Source[bool]) *bindings.Button) *bindings.Button {
	acc := s.buttons[names[0]]
	for _, name := range names[1:] {
		acc = op(acc, s.buttons[name])
	}
	return acc
}

func (s *Session) wireBinding(b Binding) {
	btn := s.buttons[b.Button]

	fire := func(attrs ...any) {
		s.fired[b.Name]++
		switch b.Action {
		case ActionLog:
			args := append([]any{"binding", b.Name, "tick", s.cursor, "message", b.Message}, attrs...)
			s.logger.Info("binding fired", args...)
		case ActionSetLayer:
			s.manager.SetLayer(b.Target)
		case ActionClearLayer:
			s.manager.ClearLayer()
		}
	}

	if b.Param != "" {
		pb := bindings.WithParam[float64](btn, s.ranges[b.Param])
		if b.Layer != "" {
			pb = pb.InLayer(b.Layer)
		}
		param := func(v float64) { fire(b.Param, v) }
		switch b.When {
		case WhenTrue:
			pb.WhenTrue(param)
		case WhenFalse:
			pb.WhenFalse(param)
		case WhenBecomesTrue:
			pb.WhenBecomesTrue(param)
		case WhenBecomesFalse:
			pb.WhenBecomesFalse(param)
		case WhenChanges:
			pb.WhenChanges(func(v float64, state bool) { fire(b.Param, v, "state", state) })
		}
		return
	}

	plain := func() { fire() }
	changed := func(state bool) { fire("state", state) }
	if b.Layer != "" {
		view := btn.InLayer(b.Layer)
		switch b.When {
		case WhenTrue:
			view.WhenTrue(plain)
		case WhenFalse:
			view.WhenFalse(plain)
		case WhenBecomesTrue:
			view.WhenBecomesTrue(plain)
		case WhenBecomesFalse:
			view.WhenBecomesFalse(plain)
		case WhenChanges:
			view.WhenChanges(changed)
		}
		return
	}
	switch b.When {
	case WhenTrue:
		btn.WhenTrue(plain)
	case WhenFalse:
		btn.WhenFalse(plain)
	case WhenBecomesTrue:
		btn.WhenBecomesTrue(plain)
	case WhenBecomesFalse:
		btn.WhenBecomesFalse(plain)
	case WhenChanges:
		btn.WhenChanges(changed)
	}
}
