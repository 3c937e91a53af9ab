package strategy

import (
	"testing"

	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/model"
)

func TestGenerateDelegatedCodeRequiresMatchingPubkey(t *testing.T) {
	msg, _ := canon.BuildGenerationMessage("delegated-pubkey", 1759737720000)
	proof := model.DelegationProof{
		WalletPubkey:    "owner-pubkey",
		DelegatedPubkey: "someone-else",
		Chain:           "solana",
		ExpiresAt:       1759737720000 + int64(365)*24*3600*1000 - 1,
	}
	_, err := GenerateDelegatedCode(proof, msg, "solana", "sig", testConfig(), 1759737720000)
	if err == nil {
		t.Fatal("expected INVALID_INPUT when message pubkey mismatches delegatedPubkey")
	}
}

func TestValidateDelegatedCodeOutlivesRule(t *testing.T) {
	proof := model.DelegationProof{
		WalletPubkey:    "owner",
		DelegatedPubkey: "delegated",
		Chain:           "solana",
		ExpiresAt:       2_000_000,
	}
	dac := model.DelegatedActionCode{
		ActionCode: model.ActionCode{
			Code: "12345678", Pubkey: "delegated", Chain: "solana", Signature: "s",
			Timestamp: 1_000_000, ExpiresAt: 3_000_000,
		},
		Proof: proof,
	}
	// dac.ExpiresAt (3_000_000) > proof.ExpiresAt (2_000_000): the
	// outlives-rule rejection.
	if err := ValidateDelegatedCode(dac, 1_500_000, testConfig()); err == nil {
		t.Fatal("expected rejection when code outlives its delegation proof")
	}
}

func TestValidateDelegatedCodePubkeyMismatch(t *testing.T) {
	proofA := model.DelegationProof{
		WalletPubkey: "owner", DelegatedPubkey: "D_A", Chain: "solana", ExpiresAt: 2_000_000,
	}
	dac := model.DelegatedActionCode{
		ActionCode: model.ActionCode{
			Code: "12345678", Pubkey: "D_A", Chain: "solana", Signature: "s",
			Timestamp: 1_000_000, ExpiresAt: 1_500_000,
		},
		Proof: proofA,
	}
	if err := ValidateDelegatedCode(dac, 1_200_000, testConfig()); err != nil {
		t.Fatalf("expected success with matching proof, got %v", err)
	}

	// Substitute proof B with a different delegatedPubkey (scenario 4).
	proofB := proofA
	proofB.DelegatedPubkey = "D_B"
	dac.Proof = proofB
	if err := ValidateDelegatedCode(dac, 1_200_000, testConfig()); err == nil {
		t.Fatal("expected INVALID_INPUT after substituting a mismatched proof")
	}
}

func TestValidateDelegationProofExpiryBounds(t *testing.T) {
	proof := model.DelegationProof{
		WalletPubkey: "owner", DelegatedPubkey: "delegated", Chain: "solana",
		ExpiresAt: 100,
	}
	if err := ValidateDelegationProof(proof, 200); err == nil {
		t.Fatal("expected rejection of an already-expired proof")
	}

	farFuture := model.DelegationProof{
		WalletPubkey: "owner", DelegatedPubkey: "delegated", Chain: "solana",
		ExpiresAt: int64(400) * 24 * 3600 * 1000,
	}
	if err := ValidateDelegationProof(farFuture, 0); err == nil {
		t.Fatal("expected rejection of a proof expiring more than a year out")
	}
}
