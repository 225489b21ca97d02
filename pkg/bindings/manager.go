package bindings

import (
	"errors"
	"fmt"

	"github.com/eapache/queue"
)

// Logger defines the logging interface used by the Manager.
// This allows different logging implementations to be used.
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

// VariableUpdater is a cell the Manager resamples before any button.
// Variable and Range satisfy it.
type VariableUpdater interface {
	Update() error
}

// ButtonUpdater is a cell the Manager resamples and dispatches with the
// active layer. Button satisfies it.
type ButtonUpdater interface {
	Update(layer string) error
}

// registration is a cell added while an update pass was running.
type registration struct {
	variable VariableUpdater
	button   ButtonUpdater
}

// Manager owns the cells of one control-loop session and the active layer.
//
// Update is called once per tick. Variables are updated first, in
// registration order, so buttons derived from them see current-tick values;
// then buttons are updated in registration order.
//
// Registration does not deduplicate: adding the same cell twice updates it
// twice per tick.
//
// Cells registered while a pass is running (for example from a callback)
// are queued and appended once the pass finishes, in the order they were
// added. They are first updated on the next pass. Likewise the layer passed
// to every button is the one active when the pass started.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	variables []VariableUpdater
	buttons   []ButtonUpdater
	layer     string

	updating bool
	pending  *queue.Queue
	// generation is bumped by Reset so a pass in progress can tell it was
	// cancelled from inside a callback.
	generation uint64

	logger Logger
}

// NewManager creates an empty Manager with no active layer.
func NewManager() *Manager {
	return &Manager{
		pending: queue.New(),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// Layer returns the active layer, or "" if no layer is active.
func (m *Manager) Layer() string {
	return m.layer
}

// SetLayer makes layer the active layer from the next Update on. An empty
// layer clears it.
func (m *Manager) SetLayer(layer string) {
	if layer != m.layer {
		m.logger.Debug("binding layer changed", "from", m.layer, "to", layer)
	}
	m.layer = layer
}

// ClearLayer deactivates the current layer; only global callbacks will run.
func (m *Manager) ClearLayer() {
	m.SetLayer("")
}

// AddVariable appends v to the variables updated each tick.
func (m *Manager) AddVariable(v VariableUpdater) {
	if m.updating {
		m.pending.Add(registration{variable: v})
		return
	}
	m.variables = append(m.variables, v)
}

// AddButton appends b to the buttons updated each tick.
func (m *Manager) AddButton(b ButtonUpdater) {
	if m.updating {
		m.pending.Add(registration{button: b})
		return
	}
	m.buttons = append(m.buttons, b)
}

// Len returns the number of registered variables and buttons, excluding
// registrations still queued behind a running pass.
func (m *Manager) Len() (variables, buttons int) {
	return len(m.variables), len(m.buttons)
}

// Update runs one tick: every variable, then every button with the layer
// that was active when the call began.
//
// A failing cell does not stop the pass: every other cell is still updated
// this tick and the failures are returned together, each wrapped with the
// cell's position. If a callback calls Reset the pass stops immediately and
// only the failures seen so far are returned.
func (m *Manager) Update() error {
	if m.updating {
		return fmt.Errorf("%w: Update called from inside an update pass", ErrInvalidArgument)
	}

	m.updating = true
	gen := m.generation
	layer := m.layer
	defer func() {
		m.updating = false
		m.flushPending()
	}()

	var errs []error
	for i, v := range m.variables {
		if err := v.Update(); err != nil {
			errs = append(errs, fmt.Errorf("updating variable %d: %w", i, err))
		}
		if m.generation != gen {
			return errors.Join(errs...)
		}
	}
	for i, b := range m.buttons {
		if err := b.Update(layer); err != nil {
			errs = append(errs, fmt.Errorf("updating button %d: %w", i, err))
		}
		if m.generation != gen {
			return errors.Join(errs...)
		}
	}
	if len(errs) > 0 {
		m.logger.Debug("update pass finished with failures", "failures", len(errs))
	}
	return errors.Join(errs...)
}

// flushPending appends queued registrations in FIFO order.
func (m *Manager) flushPending() {
	n := m.pending.Length()
	if n == 0 {
		return
	}
	for m.pending.Length() > 0 {
		r := m.pending.Remove().(registration)
		if r.variable != nil {
			m.variables = append(m.variables, r.variable)
		}
		if r.button != nil {
			m.buttons = append(m.buttons, r.button)
		}
	}
	m.logger.Debug("registered cells added during update", "count", n)
}

// Reset returns the manager to its initial state: no cells, no queued
// registrations and no active layer. Cells registered before the reset are
// never updated again by this manager, even if the caller still holds them.
//
// Called from a callback, Reset ends the running pass; cells registered
// after the Reset in that same callback are kept.
func (m *Manager) Reset() {
	vars, buttons := len(m.variables), len(m.buttons)
	m.variables = nil
	m.buttons = nil
	m.layer = ""
	m.pending = queue.New()
	m.generation++
	m.logger.Info("binding manager reset", "variables", vars, "buttons", buttons)
}
