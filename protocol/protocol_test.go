package protocol_test

import (
	"testing"

	"github.com/tailored-agentic-units/biosim/protocol"
)

func TestNewProtocol(t *testing.T) {
	p := protocol.NewProtocol(protocol.TypeProduction, true)

	if p.Type() != protocol.TypeProduction {
		t.Errorf("got Type %q, want %q", p.Type(), protocol.TypeProduction)
	}
	if !p.IsGasPhase() {
		t.Error("expected gas phase protocol")
	}
	if p.ID() == "" {
		t.Error("protocol ID is empty")
	}
}

func TestNewProtocol_UniqueIDs(t *testing.T) {
	a := protocol.NewProtocol(protocol.TypeMinimisation, false)
	b := protocol.NewProtocol(protocol.TypeMinimisation, false)

	if a.ID() == b.ID() {
		t.Errorf("expected distinct IDs, both were %q", a.ID())
	}
}
