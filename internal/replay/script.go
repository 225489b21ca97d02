package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScript is returned when a script fails to parse or validate.
var ErrInvalidScript = errors.New("replay: invalid script")

// Binding conditions.
const (
	WhenTrue         = "true"
	WhenFalse        = "false"
	WhenBecomesTrue  = "becomes_true"
	WhenBecomesFalse = "becomes_false"
	WhenChanges      = "changes"
)

// Binding actions.
const (
	ActionCount      = "count"
	ActionLog        = "log"
	ActionSetLayer   = "set_layer"
	ActionClearLayer = "clear_layer"
)

// Script is a parsed replay document.
type Script struct {
	Inputs   []Input       `yaml:"inputs"`
	Triggers []Trigger     `yaml:"triggers"`
	Layers   []LayerChange `yaml:"layers"`
	Bindings []Binding     `yaml:"bindings"`
}

// Input is a recorded trace. Exactly one of Pressed and Values is set.
type Input struct {
	Name    string    `yaml:"name"`
	Pressed []bool    `yaml:"pressed"`
	Values  []float64 `yaml:"values"`

	// Shaping for numeric inputs, applied in this order.
	Negate   bool     `yaml:"negate"`
	Invert   bool     `yaml:"invert"`
	DeadZone *float64 `yaml:"dead_zone"`
}

// IsButton reports whether the input is a boolean trace.
func (in Input) IsButton() bool {
	return in.Pressed != nil
}

// Len returns the number of samples in the trace.
func (in Input) Len() int {
	if in.IsButton() {
		return len(in.Pressed)
	}
	return len(in.Values)
}

// Trigger derives a button. Exactly one derivation is set.
type Trigger struct {
	Name string `yaml:"name"`

	// Threshold on a numeric input.
	Input   string    `yaml:"input"`
	Above   *float64  `yaml:"above"`
	Below   *float64  `yaml:"below"`
	AtLeast *float64  `yaml:"at_least"`
	AtMost  *float64  `yaml:"at_most"`
	Between []float64 `yaml:"between"`

	// Toggle of another button, flipping on "becomes_true" (default) or
	// "becomes_false".
	ToggleOf string `yaml:"toggle_of"`
	On       string `yaml:"on"`

	// Boolean algebra over other buttons.
	All []string `yaml:"all"`
	Any []string `yaml:"any"`
	Xor []string `yaml:"xor"`
	Not string   `yaml:"not"`
}

// kind names the derivation the trigger uses, or "" if none or several are set.
func (t Trigger) kind() string {
	var kinds []string
	if t.Input != "" {
		kinds = append(kinds, "threshold")
	}
	if t.ToggleOf != "" {
		kinds = append(kinds, "toggle")
	}
	if t.All != nil {
		kinds = append(kinds, "all")
	}
	if t.Any != nil {
		kinds = append(kinds, "any")
	}
	if t.Xor != nil {
		kinds = append(kinds, "xor")
	}
	if t.Not != "" {
		kinds = append(kinds, "not")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// thresholds counts how many threshold comparisons are set.
func (t Trigger) thresholds() int {
	n := 0
	for _, p := range []*float64{t.Above, t.Below, t.AtLeast, t.AtMost} {
		if p != nil {
			n++
		}
	}
	if t.Between != nil {
		n++
	}
	return n
}

// LayerChange activates Layer at Tick. An empty layer clears it.
type LayerChange struct {
	Tick  int    `yaml:"tick"`
	Layer string `yaml:"layer"`
}

// Binding runs Action when Button meets When.
type Binding struct {
	Name   string `yaml:"name"`
	Button string `yaml:"button"`
	When   string `yaml:"when"`
	Layer  string `yaml:"layer"`
	Action string `yaml:"action"`

	// Target is the layer for set_layer.
	Target string `yaml:"target"`
	// Message is logged by the log action.
	Message string `yaml:"message"`
	// Param names a numeric input whose value accompanies the action.
	Param string `yaml:"param"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names, references and enumerations. Triggers may refer
// to inputs and to triggers declared before them.
func (s *Script) Validate() error {
	var errs []string
	kinds := make(map[string]string) // name → "button" | "range"

	declare := func(what, name, kind string) {
		switch {
		case name == "":
			errs = append(errs, what+" name is required")
		case kinds[name] != "":
			errs = append(errs, fmt.Sprintf("%s %q: duplicate name", what, name))
		default:
			kinds[name] = kind
		}
	}
	needButton := func(what, ref string) {
		switch kinds[ref] {
		case "button":
		case "":
			errs = append(errs, fmt.Sprintf("%s: unknown button %q", what, ref))
		default:
			errs = append(errs, fmt.Sprintf("%s: %q is numeric, not a button", what, ref))
		}
	}
	needRange := func(what, ref string) {
		switch kinds[ref] {
		case "range":
		case "":
			errs = append(errs, fmt.Sprintf("%s: unknown numeric input %q", what, ref))
		default:
			errs = append(errs, fmt.Sprintf("%s: %q is a button, not numeric", what, ref))
		}
	}

	if len(s.Inputs) == 0 {
		errs = append(errs, "at least one input is required")
	}
	for _, in := range s.Inputs {
		what := fmt.Sprintf("input %q", in.Name)
		switch {
		case (in.Pressed == nil) == (in.Values == nil):
			errs = append(errs, what+": exactly one of pressed or values is required")
		case in.Len() == 0:
			errs = append(errs, what+": trace is empty")
		case in.IsButton() && (in.Negate || in.Invert || in.DeadZone != nil):
			errs = append(errs, what+": shaping only applies to numeric inputs")
		case in.DeadZone != nil && *in.DeadZone < 0:
			errs = append(errs, what+": dead_zone must be non-negative")
		}
		kind := "range"
		if in.IsButton() {
			kind = "button"
		}
		declare("input", in.Name, kind)
	}

	for _, tr := range s.Triggers {
		what := fmt.Sprintf("trigger %q", tr.Name)
		switch tr.kind() {
		case "threshold":
			needRange(what, tr.Input)
			if tr.thresholds() != 1 {
				errs = append(errs, what+": exactly one of above, below, at_least, at_most, between is required")
			}
			if tr.Between != nil && len(tr.Between) != 2 {
				errs = append(errs, what+": between takes [low, high]")
			}
		case "toggle":
			needButton(what, tr.ToggleOf)
			if tr.On != "" && tr.On != WhenBecomesTrue && tr.On != WhenBecomesFalse {
				errs = append(errs, fmt.Sprintf("%s: on must be %s or %s", what, WhenBecomesTrue, WhenBecomesFalse))
			}
		case "all", "any", "xor":
			operands := tr.All
			if tr.Any != nil {
				operands = tr.Any
			}
			if tr.Xor != nil {
				operands = tr.Xor
			}
			if len(operands) < 2 {
				errs = append(errs, what+": needs at least two operands")
			}
			for _, ref := range operands {
				needButton(what, ref)
			}
		case "not":
			needButton(what, tr.Not)
		default:
			errs = append(errs, what+": exactly one of input, toggle_of, all, any, xor, not is required")
		}
		declare("trigger", tr.Name, "button")
	}

	for i, lc := range s.Layers {
		if lc.Tick < 0 {
			errs = append(errs, fmt.Sprintf("layers[%d]: tick must not be negative", i))
		}
	}

	names := make(map[string]bool)
	for i, b := range s.Bindings {
		what := fmt.Sprintf("binding %q", b.Name)
		switch {
		case b.Name == "":
			what = fmt.Sprintf("bindings[%d]", i)
			errs = append(errs, what+": name is required")
		case names[b.Name]:
			errs = append(errs, what+": duplicate name")
		default:
			names[b.Name] = true
		}

		needButton(what, b.Button)
		if b.Param != "" {
			needRange(what, b.Param)
		}
		switch b.When {
		case WhenTrue, WhenFalse, WhenBecomesTrue, WhenBecomesFalse, WhenChanges:
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown when %q", what, b.When))
		}
		switch b.Action {
		case ActionCount, ActionLog, ActionClearLayer:
		case ActionSetLayer:
			if b.Target == "" {
				errs = append(errs, what+": set_layer requires target")
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown action %q", what, b.Action))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidScript, strings.Join(errs, "; "))
	}
	return nil
}

// Length returns the number of ticks needed to play every trace once.
func (s *Script) Length() int {
	n := 0
	for _, in := range s.Inputs {
		if in.Len() > n {
			n = in.Len()
		}
	}
	return n
}
