// Package replay feeds recorded input traces through package bindings.
//
// A script is a YAML document describing:
//
//   - inputs: boolean ("pressed") or numeric ("values") traces, one sample
//     per tick, with optional shaping (negate, invert, dead_zone)
//   - triggers: buttons derived from inputs and earlier triggers
//     (thresholds, toggles, all/any/xor/not)
//   - layers: a tick → active layer schedule
//   - bindings: which button condition runs which action, optionally in a
//     layer and optionally carrying a numeric parameter
//
// Example:
//
//	inputs:
//	  - name: trigger
//	    pressed: [false, true, true, false]
//	  - name: stick_y
//	    values: [0, 0.05, -0.6, -0.95]
//	    negate: true
//	    dead_zone: 0.1
//	triggers:
//	  - name: forward
//	    input: stick_y
//	    above: 0.5
//	bindings:
//	  - name: fire
//	    button: trigger
//	    when: becomes_true
//	    action: log
//	    param: stick_y
//
// Wire builds the cells on a bindings.Manager and returns a Session whose
// Advance method moves every trace to a tick; it is meant to be registered
// as a controlloop tick hook. Traces hold their last sample once exhausted.
package replay
