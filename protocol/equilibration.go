package protocol

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tailored-agentic-units/biosim/observability"
)

// Field defaults substituted for invalid input.
const (
	DefaultTimestep    = 2.0   // femtoseconds
	DefaultRuntime     = 0.2   // nanoseconds
	DefaultTemperature = 300.0 // Kelvin

	// MinimumTemperature replaces a temperature of zero so the thermostat
	// never targets absolute zero.
	MinimumTemperature = 0.01
)

// zeroTolerance is the absolute distance from zero below which a
// temperature counts as zero.
const zeroTolerance = 1e-12

// Equilibration describes an equilibration run: integration timestep,
// running time, a start (and optional end) temperature, and whether
// backbone atoms are restrained.
//
// An Equilibration is not safe for concurrent mutation.
type Equilibration struct {
	Protocol

	observer observability.Observer

	timestep         float64
	runtime          float64
	temperatureStart float64
	temperatureEnd   float64
	hasEnd           bool
	restrained       bool
	constantTemp     bool
}

type settings struct {
	timestep         float64
	runtime          float64
	temperatureStart float64
	temperatureEnd   *float64
	restrain         any
	gasPhase         bool
	observer         observability.Observer
}

// Option configures NewEquilibration.
type Option func(*settings)

// WithTimestep sets the integration timestep in femtoseconds.
func WithTimestep(fs float64) Option {
	return func(s *settings) { s.timestep = fs }
}

// WithRuntime sets the running time in nanoseconds.
func WithRuntime(ns float64) Option {
	return func(s *settings) { s.runtime = ns }
}

// WithTemperatureStart sets the starting temperature in Kelvin.
func WithTemperatureStart(k float64) Option {
	return func(s *settings) { s.temperatureStart = k }
}

// WithTemperatureEnd sets the final temperature in Kelvin. Without it the
// run is at constant temperature.
func WithTemperatureEnd(k float64) Option {
	return func(s *settings) { s.temperatureEnd = &k }
}

// WithRestrainBackbone sets whether backbone atoms are restrained.
func WithRestrainBackbone(restrain bool) Option {
	return func(s *settings) { s.restrain = restrain }
}

// WithRestrainBackboneValue sets the restraint flag from an untyped value,
// such as one decoded from a config file. Non-boolean values fall back to
// no restraint with a warning.
func WithRestrainBackboneValue(v any) Option {
	return func(s *settings) { s.restrain = v }
}

// WithGasPhase marks the run as a gas phase (solvent-free) simulation.
func WithGasPhase(gasPhase bool) Option {
	return func(s *settings) { s.gasPhase = gasPhase }
}

// WithObserver sets the observer that receives warnings. Defaults to
// observability.NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(s *settings) { s.observer = o }
}

// NewEquilibration creates an equilibration protocol. Every value passes
// through the corresponding setter, so invalid options are replaced with
// defaults and reported rather than rejected.
func NewEquilibration(opts ...Option) *Equilibration {
	s := settings{
		timestep:         DefaultTimestep,
		runtime:          DefaultRuntime,
		temperatureStart: DefaultTemperature,
		restrain:         false,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.observer == nil {
		s.observer = observability.NoOpObserver{}
	}

	e := &Equilibration{
		Protocol: NewProtocol(TypeEquilibration, s.gasPhase),
		observer: s.observer,
	}

	e.SetTimestep(s.timestep)
	e.SetRuntime(s.runtime)
	e.SetTemperatureStart(s.temperatureStart)

	if s.temperatureEnd != nil {
		e.SetTemperatureEnd(*s.temperatureEnd)
		if e.temperatureStart == e.temperatureEnd {
			e.emit(EventConstantTemperature, map[string]any{
				"temperature": e.temperatureStart,
				"reason":      "start and end temperatures are the same",
			})
			e.constantTemp = true
		}
	} else {
		e.constantTemp = true
	}

	e.SetRestrainedValue(s.restrain)

	return e
}

// Timestep returns the integration timestep in femtoseconds.
func (e *Equilibration) Timestep() float64 {
	return e.timestep
}

// SetTimestep sets the timestep. Non-positive values are replaced with
// DefaultTimestep.
func (e *Equilibration) SetTimestep(fs float64) {
	if fs <= 0 || math.IsNaN(fs) {
		e.invalid("timestep", fs, DefaultTimestep, "time step must be positive")
		e.timestep = DefaultTimestep
		return
	}
	e.timestep = fs
}

// Runtime returns the running time in nanoseconds.
func (e *Equilibration) Runtime() float64 {
	return e.runtime
}

// SetRuntime sets the running time. Non-positive values are replaced with
// DefaultRuntime.
func (e *Equilibration) SetRuntime(ns float64) {
	if ns <= 0 || math.IsNaN(ns) {
		e.invalid("runtime", ns, DefaultRuntime, "running time must be positive")
		e.runtime = DefaultRuntime
		return
	}
	e.runtime = ns
}

// TemperatureStart returns the starting temperature in Kelvin.
func (e *Equilibration) TemperatureStart() float64 {
	return e.temperatureStart
}

// SetTemperatureStart sets the starting temperature. Negative values are
// replaced with DefaultTemperature; zero becomes MinimumTemperature.
func (e *Equilibration) SetTemperatureStart(k float64) {
	e.temperatureStart = e.checkTemperature("temperature_start", k, "starting temperature must be positive")
}

// TemperatureEnd returns the final temperature in Kelvin and whether one
// was set.
func (e *Equilibration) TemperatureEnd() (float64, bool) {
	return e.temperatureEnd, e.hasEnd
}

// SetTemperatureEnd sets the final temperature with the same rules as
// SetTemperatureStart. It does not change IsConstantTemperature.
func (e *Equilibration) SetTemperatureEnd(k float64) {
	e.temperatureEnd = e.checkTemperature("temperature_end", k, "final temperature must be positive")
	e.hasEnd = true
}

// IsRestrained reports whether backbone atoms are restrained.
func (e *Equilibration) IsRestrained() bool {
	return e.restrained
}

// SetRestrained sets the backbone restraint flag.
func (e *Equilibration) SetRestrained(restrain bool) {
	e.restrained = restrain
}

// SetRestrainedValue sets the backbone restraint flag from an untyped
// value. Anything other than a bool disables the restraint.
func (e *Equilibration) SetRestrainedValue(v any) {
	b, ok := v.(bool)
	if !ok {
		e.invalid("restrain_backbone", v, false, "non-boolean backbone restraint flag")
		e.restrained = false
		return
	}
	e.restrained = b
}

// IsConstantTemperature reports whether the run holds a single
// temperature. It is decided at construction: true when no end
// temperature was given or when it equals the start temperature.
// Later calls to the temperature setters do not change it.
func (e *Equilibration) IsConstantTemperature() bool {
	return e.constantTemp
}

// String summarises the effective settings on one line.
func (e *Equilibration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: timestep=%g fs runtime=%g ns temperature_start=%g K",
		e.Type(), e.timestep, e.runtime, e.temperatureStart)
	if e.hasEnd {
		fmt.Fprintf(&b, " temperature_end=%g K", e.temperatureEnd)
	}
	fmt.Fprintf(&b, " constant_temperature=%t restrained=%t gas_phase=%t",
		e.constantTemp, e.restrained, e.IsGasPhase())
	return b.String()
}

func (e *Equilibration) checkTemperature(field string, k float64, reason string) float64 {
	switch {
	case k < 0 || math.IsNaN(k):
		e.invalid(field, k, DefaultTemperature, reason)
		return DefaultTemperature
	case math.Abs(k) <= zeroTolerance:
		return MinimumTemperature
	default:
		return k
	}
}

func (e *Equilibration) invalid(field string, value, def any, reason string) {
	e.emit(EventInputInvalid, map[string]any{
		"field":   field,
		"value":   value,
		"default": def,
		"reason":  reason,
	})
}

func (e *Equilibration) emit(t observability.EventType, data map[string]any) {
	if e.observer == nil {
		return
	}
	data["protocol_id"] = e.ID()
	e.observer.OnEvent(context.Background(), observability.Event{
		Type:      t,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    eventSource,
		Data:      data,
	})
}
