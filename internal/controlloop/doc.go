// Package controlloop drives a binding manager at a fixed tick rate.
//
// It is the reference host for package bindings: once per period it runs
// the registered tick hooks (for example advancing a recorded input trace)
// and then calls Update on the manager. Failures from either are control
// loop faults; the runner logs them and, depending on configuration, halts
// or keeps ticking.
//
// Features:
//   - Fixed-period ticking with time.Ticker
//   - Synchronous stepping for tests and offline replay (Step, RunTicks)
//   - Fault policy: halt on first fault, or tolerate up to N consecutive faults
//   - Context-based cancellation for clean shutdown
//
// Example usage:
//
//	runner := controlloop.New(manager, controlloop.Config{
//	    Period:      20 * time.Millisecond,
//	    HaltOnFault: true,
//	})
//	runner.SetLogger(log)
//
//	if err := runner.Run(ctx); err != nil {
//	    return err
//	}
package controlloop
