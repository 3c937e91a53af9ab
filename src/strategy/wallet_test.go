package strategy

import (
	"testing"

	"github.com/actioncodes/protocol/src/canon"
	"github.com/actioncodes/protocol/src/model"
)

func testConfig() model.CodeGenerationConfig {
	return model.CodeGenerationConfig{CodeLength: 8, TTLMs: 120000}
}

func TestGenerateCodeDeterministic(t *testing.T) {
	msg, err := canon.BuildGenerationMessage("2wyVnSw6j9omfqRixz37S2sU72rFTheQeUjDfXhAQJvf", 1759737720000)
	if err != nil {
		t.Fatal(err)
	}
	sig := "illustrative-signature-bytes"

	a, err := GenerateCode(msg, "solana", sig, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateCode(msg, "solana", sig, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("expected identical ActionCode for identical inputs, got %+v vs %+v", a, b)
	}
	if len(a.Code) != 8 {
		t.Fatalf("expected 8-digit code, got %q", a.Code)
	}
	if a.ExpiresAt != a.Timestamp+120000 {
		t.Fatalf("expected expiresAt == timestamp + ttlMs")
	}
}

func TestGenerateCodeRequiresSignature(t *testing.T) {
	msg, _ := canon.BuildGenerationMessage("pubkey", 1000)
	if _, err := GenerateCode(msg, "solana", "", testConfig()); err == nil {
		t.Fatal("expected error when signature is empty")
	}
}

func TestValidateCodeExpiry(t *testing.T) {
	msg, _ := canon.BuildGenerationMessage("2wyVnSw6j9omfqRixz37S2sU72rFTheQeUjDfXhAQJvf", 1759737720000)
	ac, err := GenerateCode(msg, "solana", "sig", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := ValidateCode(ac, 1759737721000, testConfig()); err != nil {
		t.Fatalf("expected valid code within ttl, got %v", err)
	}
	if err := ValidateCode(ac, 1759737961000, testConfig()); err == nil {
		t.Fatal("expected EXPIRED_CODE beyond ttl")
	}
}

func TestValidateCodeRejectsBadFormat(t *testing.T) {
	ac := model.ActionCode{
		Code: "abc", Pubkey: "p", Chain: "solana", Signature: "s",
		Timestamp: 0, ExpiresAt: 1 << 40,
	}
	if err := ValidateCode(ac, 0, testConfig()); err == nil {
		t.Fatal("expected INVALID_CODE_FORMAT for non-digit code")
	}
}
