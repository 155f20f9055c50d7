// Package protocol defines simulation protocols: the settings that
// describe one stage of a molecular-dynamics workflow.
//
// Protocols are plain value objects. Their setters never reject input:
// an out-of-range value is replaced with the field default and the
// replacement is reported as a warning event to the protocol's observer.
//
//	var warnings observability.Collector
//	eq := protocol.NewEquilibration(
//		protocol.WithTemperatureStart(0),
//		protocol.WithTemperatureEnd(300),
//		protocol.WithObserver(&warnings),
//	)
package protocol

import "github.com/google/uuid"

// Type identifies the simulation stage a protocol describes.
type Type string

const (
	TypeMinimisation  Type = "minimisation"
	TypeEquilibration Type = "equilibration"
	TypeProduction    Type = "production"
)

// Protocol holds the settings shared by every protocol type.
type Protocol struct {
	id       string
	kind     Type
	gasPhase bool
}

// NewProtocol creates the shared protocol state. Each instance receives a
// unique ID used to correlate the warnings it emits.
func NewProtocol(kind Type, gasPhase bool) Protocol {
	return Protocol{
		id:       uuid.New().String(),
		kind:     kind,
		gasPhase: gasPhase,
	}
}

// ID returns the instance identifier.
func (p *Protocol) ID() string {
	return p.id
}

// Type returns the protocol kind.
func (p *Protocol) Type() Type {
	return p.kind
}

// IsGasPhase reports whether the simulation runs without solvent.
func (p *Protocol) IsGasPhase() bool {
	return p.gasPhase
}
