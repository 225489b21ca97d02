package controlloop

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nerrad567/nextbind/pkg/bindings"
)

// fakeTicker counts updates and fails on the listed calls (0-based).
type fakeTicker struct {
	calls  int
	failOn map[int]bool
}

var errTick = errors.New("sensor unplugged")

func (f *fakeTicker) Update() error {
	defer func() { f.calls++ }()
	if f.failOn[f.calls] {
		return errTick
	}
	return nil
}

func TestNew_AppliesDefaultPeriod(t *testing.T) {
	r := New(&fakeTicker{}, Config{})
	if r.config.Period != DefaultConfig().Period {
		t.Errorf("Period = %v, want %v", r.config.Period, DefaultConfig().Period)
	}
	if s := r.Stats().Status; s != StatusStopped {
		t.Errorf("Status = %q, want %q", s, StatusStopped)
	}
}

func TestRunner_RunTicks(t *testing.T) {
	ticker := &fakeTicker{}
	r := New(ticker, DefaultConfig())

	var hookTicks []int
	r.OnTick(func(tick int) error {
		hookTicks = append(hookTicks, tick)
		return nil
	})

	if err := r.RunTicks(4); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}

	if ticker.calls != 4 {
		t.Errorf("updates = %d, want 4", ticker.calls)
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(hookTicks, want) {
		t.Errorf("hook ticks = %v, want %v", hookTicks, want)
	}
	stats := r.Stats()
	if stats.Ticks != 4 || stats.Faults != 0 || stats.Status != StatusStopped {
		t.Errorf("Stats() = %+v, want 4 ticks, 0 faults, stopped", stats)
	}
}

func TestRunner_FaultPolicy(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		failOn      map[int]bool
		ticks       int
		wantErr     bool
		wantTicks   int
		wantFaults  int
		wantStatus  Status
		wantUpdates int
	}{
		{
			name:        "halt on first fault",
			config:      Config{HaltOnFault: true},
			failOn:      map[int]bool{2: true},
			ticks:       5,
			wantErr:     true,
			wantTicks:   3,
			wantFaults:  1,
			wantStatus:  StatusHalted,
			wantUpdates: 3,
		},
		{
			name:        "tolerate isolated faults",
			config:      Config{MaxConsecutiveFaults: 2},
			failOn:      map[int]bool{1: true, 3: true},
			ticks:       5,
			wantErr:     false,
			wantTicks:   5,
			wantFaults:  2,
			wantStatus:  StatusStopped,
			wantUpdates: 5,
		},
		{
			name:        "halt after consecutive faults",
			config:      Config{MaxConsecutiveFaults: 2},
			failOn:      map[int]bool{1: true, 2: true},
			ticks:       5,
			wantErr:     true,
			wantTicks:   3,
			wantFaults:  2,
			wantStatus:  StatusHalted,
			wantUpdates: 3,
		},
		{
			name:        "never halt",
			config:      Config{},
			failOn:      map[int]bool{0: true, 1: true, 2: true},
			ticks:       4,
			wantErr:     false,
			wantTicks:   4,
			wantFaults:  3,
			wantStatus:  StatusStopped,
			wantUpdates: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker := &fakeTicker{failOn: tt.failOn}
			r := New(ticker, tt.config)

			err := r.RunTicks(tt.ticks)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RunTicks() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrFault) || !errors.Is(err, errTick) {
					t.Errorf("RunTicks() error = %v, want wrapping %v and %v", err, ErrFault, errTick)
				}
			}

			stats := r.Stats()
			if stats.Ticks != tt.wantTicks {
				t.Errorf("Ticks = %d, want %d", stats.Ticks, tt.wantTicks)
			}
			if stats.Faults != tt.wantFaults {
				t.Errorf("Faults = %d, want %d", stats.Faults, tt.wantFaults)
			}
			if stats.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", stats.Status, tt.wantStatus)
			}
			if ticker.calls != tt.wantUpdates {
				t.Errorf("updates = %d, want %d", ticker.calls, tt.wantUpdates)
			}
		})
	}
}

func TestRunner_HookErrorSkipsUpdate(t *testing.T) {
	ticker := &fakeTicker{}
	r := New(ticker, Config{})
	errTrace := errors.New("trace exhausted")
	r.OnTick(func(tick int) error {
		if tick == 1 {
			return errTrace
		}
		return nil
	})

	if err := r.RunTicks(3); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}
	if ticker.calls != 2 {
		t.Errorf("updates = %d, want 2", ticker.calls)
	}
	if stats := r.Stats(); !errors.Is(stats.LastFault, errTrace) {
		t.Errorf("LastFault = %v, want %v", stats.LastFault, errTrace)
	}
}

func TestRunner_RunStopsAtMaxTicks(t *testing.T) {
	ticker := &fakeTicker{}
	r := New(ticker, Config{Period: time.Millisecond, MaxTicks: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ticker.calls != 5 {
		t.Errorf("updates = %d, want 5", ticker.calls)
	}
	if s := r.Stats().Status; s != StatusStopped {
		t.Errorf("Status = %q, want %q", s, StatusStopped)
	}
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	r := New(&fakeTicker{}, Config{Period: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	r.OnTick(func(tick int) error {
		if tick == 2 {
			cancel()
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if ticks := r.Stats().Ticks; ticks < 3 {
		t.Errorf("Ticks = %d, want at least 3", ticks)
	}
}

func TestRunner_RunHaltsOnFault(t *testing.T) {
	r := New(&fakeTicker{failOn: map[int]bool{0: true}}, Config{Period: time.Millisecond, HaltOnFault: true})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.Run(ctx)
	if !errors.Is(err, ErrFault) {
		t.Errorf("Run() error = %v, want %v", err, ErrFault)
	}
}

func TestRunner_DrivesBindingManager(t *testing.T) {
	m := bindings.NewManager()
	trace := []bool{false, true, true, false, true}
	var pressed bool
	button := bindings.NewButton(m, bindings.Func(func() bool { return pressed }))
	presses := 0
	button.WhenBecomesTrue(func() { presses++ })

	r := New(m, DefaultConfig())
	r.OnTick(func(tick int) error {
		pressed = trace[tick]
		return nil
	})

	if err := r.RunTicks(len(trace)); err != nil {
		t.Fatalf("RunTicks() error = %v", err)
	}
	if presses != 2 {
		t.Errorf("presses = %d, want 2", presses)
	}
}

func TestRunner_UninitializedReadIsFault(t *testing.T) {
	m := bindings.NewManager()
	orphan := bindings.NewButton(nil, bindings.Constant(true))
	bindings.NewButton(m, orphan)

	r := New(m, Config{HaltOnFault: true})
	err := r.RunTicks(1)
	if !errors.Is(err, bindings.ErrUninitialized) {
		t.Errorf("RunTicks() error = %v, want %v", err, bindings.ErrUninitialized)
	}
}
