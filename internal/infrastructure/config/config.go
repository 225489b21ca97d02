package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for bindsim.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Loop    LoopConfig    `yaml:"loop"`
	Logging LoggingConfig `yaml:"logging"`
	Script  ScriptConfig  `yaml:"script"`
}

// LoopConfig contains control-loop timing and fault policy.
type LoopConfig struct {
	// Period is the time between ticks. Default: 20ms (50 Hz).
	Period time.Duration `yaml:"period"`

	// MaxTicks stops the loop after this many ticks. 0 means run until
	// interrupted.
	MaxTicks int `yaml:"max_ticks"`

	// HaltOnFault stops the loop on the first failed tick instead of
	// logging it and carrying on.
	HaltOnFault bool `yaml:"halt_on_fault"`

	// MaxConsecutiveFaults stops the loop after this many failed ticks in a
	// row when HaltOnFault is false. 0 means never.
	MaxConsecutiveFaults int `yaml:"max_consecutive_faults"`

	// InitialLayer is the binding layer active before the first tick.
	InitialLayer string `yaml:"initial_layer"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ScriptConfig points at the input trace to replay.
type ScriptConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: BINDSIM_SECTION_KEY
// For example: BINDSIM_LOOP_PERIOD, BINDSIM_LOGGING_LEVEL
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Loop: LoopConfig{
			Period:      20 * time.Millisecond,
			HaltOnFault: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Script: ScriptConfig{
			Path: "configs/script.yaml",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: BINDSIM_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// Loop
	if v := os.Getenv("BINDSIM_LOOP_PERIOD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BINDSIM_LOOP_PERIOD: %w", err)
		}
		cfg.Loop.Period = d
	}
	if v := os.Getenv("BINDSIM_LOOP_MAX_TICKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BINDSIM_LOOP_MAX_TICKS: %w", err)
		}
		cfg.Loop.MaxTicks = n
	}
	if v := os.Getenv("BINDSIM_LOOP_MAX_CONSECUTIVE_FAULTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BINDSIM_LOOP_MAX_CONSECUTIVE_FAULTS: %w", err)
		}
		cfg.Loop.MaxConsecutiveFaults = n
	}
	if v := os.Getenv("BINDSIM_LOOP_INITIAL_LAYER"); v != "" {
		cfg.Loop.InitialLayer = v
	}

	// Logging
	if v := os.Getenv("BINDSIM_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Script
	if v := os.Getenv("BINDSIM_SCRIPT_PATH"); v != "" {
		cfg.Script.Path = v
	}
	return nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Loop validation
	if c.Loop.Period <= 0 {
		errs = append(errs, "loop.period must be positive")
	}
	if c.Loop.MaxTicks < 0 {
		errs = append(errs, "loop.max_ticks must not be negative")
	}
	if c.Loop.MaxConsecutiveFaults < 0 {
		errs = append(errs, "loop.max_consecutive_faults must not be negative")
	}

	// Logging validation
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, "logging.format must be json or text")
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	default:
		errs = append(errs, "logging.output must be stdout or stderr")
	}

	// Script validation
	if c.Script.Path == "" {
		errs = append(errs, "script.path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TickRate returns the loop frequency in ticks per second.
func (c *Config) TickRate() float64 {
	return float64(time.Second) / float64(c.Loop.Period)
}
