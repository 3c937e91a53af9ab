package main

import (
	"testing"

	"github.com/actioncodes/protocol/src/model"
)

func TestActionCodeFromFlags(t *testing.T) {
	ac := actionCodeFromFlags("12345678", "pk", "solana", "sig", 1000, 2000)
	want := model.ActionCode{Code: "12345678", Pubkey: "pk", Chain: "solana", Signature: "sig", Timestamp: 1000, ExpiresAt: 2000}
	if ac != want {
		t.Fatalf("got %+v, want %+v", ac, want)
	}
}

func TestFixedSignReturnsConfiguredSignature(t *testing.T) {
	sign := fixedSign("abc123")
	got, err := sign(nil, nil, "solana")
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc123" {
		t.Fatalf("got %q, want %q", got, "abc123")
	}
}
