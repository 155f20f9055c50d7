// Package config loads the settings used to build simulation protocols.
//
// Values come from, in increasing precedence: protocol defaults, a JSON
// config file, and BIOSIM_-prefixed environment variables. Protocol values
// are not range-checked here; they pass through the protocol setters,
// which replace invalid input and report a warning. Validation only covers
// settings that have no safe fallback, such as the observer backend.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/tailored-agentic-units/biosim/observability"
	"github.com/tailored-agentic-units/biosim/protocol"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig and
// LoadEnv, e.g. BIOSIM_EQUILIBRATION_TIMESTEP.
const EnvPrefix = "BIOSIM_"

// EquilibrationConfig holds equilibration protocol settings. Nil fields
// are unset; an explicit zero is kept so the protocol setter sees it.
type EquilibrationConfig struct {
	Timestep         *float64 `json:"timestep,omitempty" koanf:"timestep"`                   // fs
	Runtime          *float64 `json:"runtime,omitempty" koanf:"runtime"`                     // ns
	TemperatureStart *float64 `json:"temperature_start,omitempty" koanf:"temperature_start"` // K
	TemperatureEnd   *float64 `json:"temperature_end,omitempty" koanf:"temperature_end"`     // K; nil for constant temperature
	RestrainBackbone any      `json:"restrain_backbone,omitempty" koanf:"restrain_backbone"`
	GasPhase         *bool    `json:"gas_phase,omitempty" koanf:"gas_phase"`
}

// Config holds all settings for building an equilibration run.
type Config struct {
	Equilibration EquilibrationConfig  `json:"equilibration" koanf:"equilibration"`
	Observability observability.Config `json:"observability" koanf:"observability"`
}

// DefaultEquilibrationConfig returns the protocol defaults.
func DefaultEquilibrationConfig() EquilibrationConfig {
	return EquilibrationConfig{
		Timestep:         ptr(protocol.DefaultTimestep),
		Runtime:          ptr(protocol.DefaultRuntime),
		TemperatureStart: ptr(protocol.DefaultTemperature),
		RestrainBackbone: false,
		GasPhase:         ptr(false),
	}
}

// DefaultConfig returns a Config with protocol and observer defaults.
func DefaultConfig() Config {
	return Config{
		Equilibration: DefaultEquilibrationConfig(),
		Observability: observability.DefaultConfig(),
	}
}

// Merge applies set values from source into c.
func (c *EquilibrationConfig) Merge(source *EquilibrationConfig) {
	if source.Timestep != nil {
		c.Timestep = source.Timestep
	}
	if source.Runtime != nil {
		c.Runtime = source.Runtime
	}
	if source.TemperatureStart != nil {
		c.TemperatureStart = source.TemperatureStart
	}
	if source.TemperatureEnd != nil {
		c.TemperatureEnd = source.TemperatureEnd
	}
	if source.RestrainBackbone != nil {
		c.RestrainBackbone = source.RestrainBackbone
	}
	if source.GasPhase != nil {
		c.GasPhase = source.GasPhase
	}
}

// Merge applies set values from source into c, delegating to each
// section's Merge method.
func (c *Config) Merge(source *Config) {
	c.Equilibration.Merge(&source.Equilibration)
	c.Observability.Merge(&source.Observability)
}

// Validate checks settings that cannot fall back to a default.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a JSON config file, merges it over the defaults,
// applies environment overrides and validates the result.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Merge(&loaded)

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnv returns the defaults with environment overrides applied.
func LoadEnv() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeEnv() error {
	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	var fromEnv Config
	if err := k.Unmarshal("", &fromEnv); err != nil {
		return fmt.Errorf("failed to decode environment: %w", err)
	}

	c.Merge(&fromEnv)
	return nil
}

// envValue maps BIOSIM_SECTION_FIELD_NAME to section.field_name. Boolean
// fields are parsed so that only unparseable values reach the protocol as
// non-boolean input. Empty variables are treated as unset.
func envValue(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}

	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)

	if strings.HasSuffix(key, ".restrain_backbone") || strings.HasSuffix(key, ".gas_phase") {
		if b, err := strconv.ParseBool(value); err == nil {
			return key, b
		}
	}
	return key, value
}

// Options converts the settings into protocol options.
func (c *EquilibrationConfig) Options() []protocol.Option {
	var opts []protocol.Option

	if c.Timestep != nil {
		opts = append(opts, protocol.WithTimestep(*c.Timestep))
	}
	if c.Runtime != nil {
		opts = append(opts, protocol.WithRuntime(*c.Runtime))
	}
	if c.TemperatureStart != nil {
		opts = append(opts, protocol.WithTemperatureStart(*c.TemperatureStart))
	}
	if c.TemperatureEnd != nil {
		opts = append(opts, protocol.WithTemperatureEnd(*c.TemperatureEnd))
	}
	if c.RestrainBackbone != nil {
		opts = append(opts, protocol.WithRestrainBackboneValue(c.RestrainBackbone))
	}
	if c.GasPhase != nil {
		opts = append(opts, protocol.WithGasPhase(*c.GasPhase))
	}
	return opts
}

// NewEquilibration builds the equilibration protocol, reporting replaced
// values to obs.
func (c *Config) NewEquilibration(obs observability.Observer) *protocol.Equilibration {
	opts := append(c.Equilibration.Options(), protocol.WithObserver(obs))
	return protocol.NewEquilibration(opts...)
}

func ptr[T any](v T) *T {
	return &v
}
