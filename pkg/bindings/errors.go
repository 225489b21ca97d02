package bindings

import "errors"

// Domain errors for the bindings package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, bindings.ErrUninitialized) {
//	    // a cell was read before the manager ticked it
//	}
var (
	// ErrUninitialized is returned when a cell is read before its first successful update.
	ErrUninitialized = errors.New("bindings: value read before first update")

	// ErrInvalidArgument is returned when an operator is given an argument it cannot accept.
	ErrInvalidArgument = errors.New("bindings: invalid argument")

	// ErrSource wraps failures reported by a value source while sampling.
	ErrSource = errors.New("bindings: source failed")
)
