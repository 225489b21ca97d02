// bindsim replays a recorded input script through a bindings.Manager.
//
// It loads the host configuration, wires the script's inputs, triggers and
// bindings into a fresh Manager, drives it from a fixed-period control loop
// and prints a YAML report of how often each binding fired.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/nextbind/internal/controlloop"
	"github.com/nerrad567/nextbind/internal/infrastructure/config"
	"github.com/nerrad567/nextbind/internal/infrastructure/logging"
	"github.com/nerrad567/nextbind/internal/replay"
	"github.com/nerrad567/nextbind/pkg/bindings"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/bindsim.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// The report is written to out.
func run(ctx context.Context, out io.Writer) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting bindsim",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	clock := logging.NewTickClock()
	log = logging.New(cfg.Logging, version).WithTicks(clock)
	log.Info("configuration loaded",
		"path", configPath,
		"tick_rate_hz", cfg.TickRate(),
	)

	script, err := replay.Load(cfg.Script.Path)
	if err != nil {
		return fmt.Errorf("loading script: %w", err)
	}

	manager := bindings.NewManager()
	manager.SetLogger(log.Component("bindings"))
	manager.SetLayer(cfg.Loop.InitialLayer)

	session, err := replay.Wire(manager, script)
	if err != nil {
		return fmt.Errorf("wiring script: %w", err)
	}
	session.SetLogger(log.Component("replay"))

	variables, buttons := manager.Len()
	log.Info("script wired",
		"path", cfg.Script.Path,
		"variables", variables,
		"buttons", buttons,
		"bindings", len(script.Bindings),
		"length", session.Length(),
	)

	runner := controlloop.New(manager, loopConfig(cfg.Loop))
	runner.SetLogger(log.Component("controlloop"))
	runner.OnTick(clock.Set)
	runner.OnTick(session.Advance)

	runErr := runner.Run(ctx)

	// The report is written even when the loop halted, so the ticks leading
	// up to the fault are visible.
	stats := runner.Stats()
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(session.Report(stats.Ticks)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("running control loop: %w", runErr)
	}
	log.Info("bindsim stopped", "ticks", stats.Ticks, "faults", stats.Faults)
	return nil
}

// loopConfig maps the loop section of the host configuration onto the
// runner's settings.
func loopConfig(c config.LoopConfig) controlloop.Config {
	return controlloop.Config{
		Period:               c.Period,
		MaxTicks:             c.MaxTicks,
		HaltOnFault:          c.HaltOnFault,
		MaxConsecutiveFaults: c.MaxConsecutiveFaults,
	}
}

// getConfigPath returns the configuration file path.
// Uses BINDSIM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BINDSIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
