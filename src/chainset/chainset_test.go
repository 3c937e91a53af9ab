package chainset

import (
	"testing"

	"github.com/actioncodes/protocol/src/model"
	"github.com/actioncodes/protocol/src/protocol"
	"github.com/actioncodes/protocol/src/solana"
	"github.com/actioncodes/protocol/src/sphinxchain"
)

func newTestProtocol(supported []string) *protocol.Protocol {
	return protocol.New(model.CodeGenerationConfig{CodeLength: 8, TTLMs: 1000}, Options(supported)...)
}

func TestOptionsRegistersOnlySupportedChains(t *testing.T) {
	p := newTestProtocol([]string{solana.ChainID})
	if _, err := p.GetAdapter(solana.ChainID); err != nil {
		t.Fatalf("expected solana adapter registered: %v", err)
	}
	if _, err := p.GetAdapter(sphinxchain.ChainID); err == nil {
		t.Fatal("expected sphinx adapter to be absent when not in supported list")
	}
}

func TestOptionsIgnoresUnknownChainNames(t *testing.T) {
	p := newTestProtocol([]string{"bitcoin", solana.ChainID})
	if _, err := p.GetAdapter(solana.ChainID); err != nil {
		t.Fatalf("expected solana adapter registered: %v", err)
	}
	if _, err := p.GetAdapter("bitcoin"); err == nil {
		t.Fatal("expected unknown chain name to be silently skipped, not registered")
	}
}

func TestOptionsEmptySupportedListRegistersNothing(t *testing.T) {
	p := newTestProtocol(nil)
	if _, err := p.GetAdapter(solana.ChainID); err == nil {
		t.Fatal("expected no adapters registered for an empty supported list")
	}
}
