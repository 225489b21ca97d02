package bindings

import (
	"errors"
	"strings"
	"testing"
)

func TestVariable_GetBeforeUpdate(t *testing.T) {
	v := NewVariable(nil, Constant(42))

	if _, err := v.Get(); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("Get() before Update error = %v, want %v", err, ErrUninitialized)
	}
}

func TestVariable_UpdateSamplesOnce(t *testing.T) {
	calls := 0
	v := NewVariable(nil, Func(func() int {
		calls++
		return calls * 10
	}))

	if err := v.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := v.Get()
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != 10 {
			t.Errorf("Get() = %d, want 10", got)
		}
	}
	if calls != 1 {
		t.Errorf("source sampled %d times, want 1", calls)
	}

	if err := v.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got, _ := v.Get(); got != 20 {
		t.Errorf("Get() after second Update = %d, want 20", got)
	}
}

func TestVariable_SourceErrorKeepsValue(t *testing.T) {
	errSensor := errors.New("sensor offline")
	fail := false
	v := NewVariable(nil, SourceFunc[string](func() (string, error) {
		if fail {
			return "", errSensor
		}
		return "ok", nil
	}))

	if err := v.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fail = true
	err := v.Update()
	if !errors.Is(err, ErrSource) {
		t.Errorf("Update() error = %v, want wrapping %v", err, ErrSource)
	}
	if !errors.Is(err, errSensor) {
		t.Errorf("Update() error = %v, want wrapping %v", err, errSensor)
	}
	if got, _ := v.Get(); got != "ok" {
		t.Errorf("Get() after failed Update = %q, want %q", got, "ok")
	}
}

func TestNewVariable_Registers(t *testing.T) {
	m := NewManager()
	NewVariable(m, Constant("hello"))

	if vars, buttons := m.Len(); vars != 1 || buttons != 0 {
		t.Errorf("Len() = (%d, %d), want (1, 0)", vars, buttons)
	}
}

func TestMap_PropagatesChanges(t *testing.T) {
	m := NewManager()
	value := "ab"
	v := NewVariable(m, Func(func() string { return value }))
	doubled := Map(v, func(s string) string { return s + s })

	tests := []string{"ab", "", "xyz", "ab"}
	for _, in := range tests {
		value = in
		if err := m.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := doubled.Get()
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != in+in {
			t.Errorf("mapped value for %q = %q, want %q", in, got, in+in)
		}
	}
	if doubled.Manager() != m {
		t.Error("mapped variable not attached to the parent's manager")
	}
}

func TestMap_ReadsParentCacheNotSource(t *testing.T) {
	calls := 0
	m := NewManager()
	v := NewVariable(m, Func(func() int {
		calls++
		return calls
	}))
	Map(v, func(n int) int { return n + 1 })
	Map(v, func(n int) int { return n * 2 })

	if err := m.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("source sampled %d times in one tick, want 1", calls)
	}
}

func TestMap_UnregisteredParent(t *testing.T) {
	v := NewVariable(nil, Constant(3))
	sq := Map(v, func(n int) int { return n * n })

	if sq.Manager() != nil {
		t.Fatal("derived variable of an unregistered parent should be unregistered")
	}

	if err := sq.Update(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Update() before parent update error = %v, want %v", err, ErrUninitialized)
	}

	if err := v.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := sq.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got, _ := sq.Get(); got != 9 {
		t.Errorf("Get() = %d, want 9", got)
	}
}

func TestVariable_MapToRange(t *testing.T) {
	m := NewManager()
	value := "hello"
	v := NewVariable(m, Func(func() string { return value }))
	length := v.MapToRange(func(s string) float64 { return float64(len(s)) })

	for _, in := range []string{"hello", "", "robot"} {
		value = in
		if err := m.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := length.Get()
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != float64(len(in)) {
			t.Errorf("range value for %q = %v, want %v", in, got, len(in))
		}
	}
}

func TestVariable_AsButton(t *testing.T) {
	m := NewManager()
	value := 0
	v := NewVariable(m, Func(func() int { return value }))
	positive := v.AsButton(func(n int) bool { return n > 0 })

	tests := []struct {
		value int
		want  bool
	}{
		{value: 5, want: true},
		{value: 0, want: false},
		{value: -3, want: false},
		{value: 1, want: true},
	}

	for _, tt := range tests {
		value = tt.value
		if err := m.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := positive.Get()
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("AsButton(n > 0) with %d = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestVariable_SampleChains(t *testing.T) {
	m := NewManager()
	v := NewVariable(m, Constant("a"))
	upper := NewVariable[string](m, derive[string](v, strings.ToUpper))

	if err := m.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got, _ := upper.Get(); got != "A" {
		t.Errorf("Get() = %q, want %q", got, "A")
	}
}
