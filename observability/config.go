package observability

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// Backend names accepted by Config.Backend.
const (
	BackendNoop    = "noop"
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// Config selects and tunes the observer used as the warning channel.
type Config struct {
	Backend string `json:"backend,omitempty" koanf:"backend" validate:"omitempty,oneof=noop slog zerolog"`
	Level   string `json:"level,omitempty" koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a slog observer at info level.
func DefaultConfig() Config {
	return Config{
		Backend: BackendSlog,
		Level:   "info",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Level != "" {
		c.Level = source.Level
	}
}

// NewObserver creates the configured observer writing to w.
func NewObserver(cfg *Config, w io.Writer) (Observer, error) {
	level := ParseLevel(cfg.Level)

	switch cfg.Backend {
	case BackendNoop:
		return NoOpObserver{}, nil
	case BackendSlog, "":
		logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level.SlogLevel(),
		}))
		return NewSlogObserver(logger), nil
	case BackendZerolog:
		logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
			Level(level.ZerologLevel()).
			With().Timestamp().Logger()
		return NewZerologObserver(logger), nil
	default:
		return nil, fmt.Errorf("unknown observer backend: %s", cfg.Backend)
	}
}
