package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// tickKey is the attribute that carries the control-loop tick.
const tickKey = "tick"

// TickClock holds the control-loop tick that log entries are stamped with.
// It is safe for concurrent use.
type TickClock struct {
	tick atomic.Int64
}

// NewTickClock returns a clock that has not seen a tick yet.
func NewTickClock() *TickClock {
	c := &TickClock{}
	c.tick.Store(-1)
	return c
}

// Set records the tick now running. Its signature matches
// controlloop.Runner.OnTick, so the clock can be registered as a hook.
func (c *TickClock) Set(tick int) error {
	c.tick.Store(int64(tick))
	return nil
}

// Tick returns the current tick, or -1 before the first one.
func (c *TickClock) Tick() int {
	return int(c.tick.Load())
}

// tickHandler adds tick=<n> to every record once the clock has started.
// Records that already carry a tick attribute are left alone.
type tickHandler struct {
	slog.Handler
	clock *TickClock
}

func (h tickHandler) Handle(ctx context.Context, r slog.Record) error {
	tick := h.clock.Tick()
	if tick >= 0 && !hasAttr(r, tickKey) {
		r = r.Clone()
		r.AddAttrs(slog.Int(tickKey, tick))
	}
	return h.Handler.Handle(ctx, r)
}

func (h tickHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tickHandler{Handler: h.Handler.WithAttrs(attrs), clock: h.clock}
}

func (h tickHandler) WithGroup(name string) slog.Handler {
	return tickHandler{Handler: h.Handler.WithGroup(name), clock: h.clock}
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}

// WithTicks returns a Logger that stamps every entry with the tick held by
// clock. Loggers derived from it with With or Component keep the stamp.
//
// Example:
//
//	clock := logging.NewTickClock()
//	log = log.WithTicks(clock)
//	runner.OnTick(clock.Set)
func (l *Logger) WithTicks(clock *TickClock) *Logger {
	return &Logger{
		Logger: slog.New(tickHandler{Handler: l.Handler(), clock: clock}),
	}
}
