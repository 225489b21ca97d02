// Package logging provides structured logging for bindsim.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the control loop, the replay
// session and the binding manager.
//
// # Features
//
//   - JSON output for unattended runs (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Tick stamping: entries logged while the control loop runs carry the
//     current tick, so binding, replay and loop messages line up
//
// # Configuration
//
// Logging is configured via the LoggingConfig in bindsim.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stderr, stdout (stdout also carries the report)
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("control loop started", "period", cfg.Loop.Period)
//	logger.Component("controlloop").Error("tick failed", "error", err)
//
//	clock := logging.NewTickClock()
//	logger = logger.WithTicks(clock)
//	runner.OnTick(clock.Set)
//
// The Logger satisfies the small Logger interfaces declared by the
// bindings, controlloop and replay packages.
package logging
