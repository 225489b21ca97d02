package controlloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrFault is returned when the runner halts because a tick failed.
var ErrFault = errors.New("controlloop: tick fault")

// Status represents the current state of a runner.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusHalted  Status = "halted"
)

// Config holds the tick rate and fault policy.
type Config struct {
	// Period is the time between ticks in Run.
	Period time.Duration

	// MaxTicks stops the runner after this many ticks. 0 means unlimited.
	MaxTicks int

	// HaltOnFault stops the runner on the first failed tick.
	HaltOnFault bool

	// MaxConsecutiveFaults halts the runner after this many failed ticks in
	// a row when HaltOnFault is false. 0 means never.
	MaxConsecutiveFaults int
}

// DefaultConfig returns a Config with sensible defaults: 50 Hz, halt on
// the first fault.
func DefaultConfig() Config {
	return Config{
		Period:      20 * time.Millisecond,
		HaltOnFault: true,
	}
}

// Ticker is what the runner drives each tick. *bindings.Manager satisfies it.
type Ticker interface {
	Update() error
}

// Logger defines the logging interface for the runner.
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

// Stats is a snapshot of the runner's progress.
type Stats struct {
	Status    Status
	Ticks     int
	Faults    int
	LastFault error
}

// Runner calls a Ticker once per period.
//
// Step, RunTicks and Run must not be called concurrently. Stats may be
// called from any goroutine.
type Runner struct {
	config Config
	ticker Ticker
	logger Logger
	hooks  []func(tick int) error

	mu          sync.RWMutex
	status      Status
	ticks       int
	faults      int
	consecutive int
	lastFault   error
}

// New creates a runner for t.
func New(t Ticker, cfg Config) *Runner {
	if cfg.Period <= 0 {
		cfg.Period = DefaultConfig().Period
	}
	return &Runner{
		config: cfg,
		ticker: t,
		logger: noopLogger{},
		status: StatusStopped,
	}
}

// SetLogger sets the logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	r.logger = logger
}

// OnTick registers fn to run before the manager update of every tick, in
// registration order. tick counts from 0. An error from fn is a fault and
// skips the rest of that tick.
func (r *Runner) OnTick(fn func(tick int) error) {
	r.hooks = append(r.hooks, fn)
}

// Stats returns a snapshot of the runner's counters.
func (r *Runner) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Status:    r.status,
		Ticks:     r.ticks,
		Faults:    r.faults,
		LastFault: r.lastFault,
	}
}

// Step runs a single tick and returns its error without applying the fault
// policy.
func (r *Runner) Step() error {
	r.mu.RLock()
	tick := r.ticks
	r.mu.RUnlock()

	err := r.runTick(tick)

	r.mu.Lock()
	r.ticks++
	if err != nil {
		r.faults++
		r.consecutive++
		r.lastFault = err
	} else {
		r.consecutive = 0
	}
	r.mu.Unlock()
	return err
}

func (r *Runner) runTick(tick int) error {
	for _, hook := range r.hooks {
		if err := hook(tick); err != nil {
			return fmt.Errorf("tick hook: %w", err)
		}
	}
	return r.ticker.Update()
}

// RunTicks runs n ticks back to back, applying the fault policy. It
// returns an error wrapping ErrFault if the runner halts.
func (r *Runner) RunTicks(n int) error {
	r.setStatus(StatusRunning)
	for i := 0; i < n; i++ {
		if err := r.tickWithPolicy(); err != nil {
			return err
		}
	}
	r.setStatus(StatusStopped)
	return nil
}

// Run ticks every Period until ctx is cancelled or MaxTicks ticks have
// run. It returns nil on a clean stop and an error wrapping ErrFault if the
// fault policy halts the loop.
func (r *Runner) Run(ctx context.Context) error {
	r.setStatus(StatusRunning)
	r.logger.Info("control loop started",
		"period", r.config.Period,
		"max_ticks", r.config.MaxTicks,
		"halt_on_fault", r.config.HaltOnFault,
	)

	ticker := time.NewTicker(r.config.Period)
	defer ticker.Stop()

	for {
		if r.config.MaxTicks > 0 && r.Stats().Ticks >= r.config.MaxTicks {
			r.setStatus(StatusStopped)
			r.logger.Info("control loop finished", "ticks", r.config.MaxTicks)
			return nil
		}

		select {
		case <-ctx.Done():
			r.setStatus(StatusStopped)
			r.logger.Info("control loop stopped", "ticks", r.Stats().Ticks)
			return nil

		case <-ticker.C:
			if err := r.tickWithPolicy(); err != nil {
				return err
			}
		}
	}
}

// tickWithPolicy runs one tick and decides whether a fault halts the loop.
func (r *Runner) tickWithPolicy() error {
	err := r.Step()
	if err == nil {
		return nil
	}

	stats := r.Stats()
	tick := stats.Ticks - 1

	r.mu.RLock()
	consecutive := r.consecutive
	r.mu.RUnlock()

	if r.config.HaltOnFault {
		r.logger.Error("tick failed, halting control loop", "tick", tick, "error", err)
		r.setStatus(StatusHalted)
		return fmt.Errorf("%w: tick %d: %w", ErrFault, tick, err)
	}

	r.logger.Warn("tick failed",
		"tick", tick,
		"error", err,
		"consecutive_faults", consecutive,
	)

	if r.config.MaxConsecutiveFaults > 0 && consecutive >= r.config.MaxConsecutiveFaults {
		r.logger.Error("tick failed repeatedly, halting control loop",
			"tick", tick,
			"faults", consecutive,
		)
		r.setStatus(StatusHalted)
		return fmt.Errorf("%w: %d consecutive faults, last at tick %d: %w", ErrFault, consecutive, tick, err)
	}
	return nil
}

func (r *Runner) setStatus(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}
