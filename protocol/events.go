package protocol

import "github.com/tailored-agentic-units/biosim/observability"

// Event types emitted by protocol setters.
const (
	EventInputInvalid        observability.EventType = "equilibration.input.invalid"
	EventConstantTemperature observability.EventType = "equilibration.temperature.constant"
)

const eventSource = "protocol.Equilibration"
