package meta

import "testing"

func TestBuildRoundTripWithPayload(t *testing.T) {
	f := Fields{
		Ver:     2,
		ID:      "abc123",
		Intent:  "wallet:solana",
		Payload: map[string]any{"action": "pay-2usdc"},
	}
	s, err := Build(f)
	if err != nil {
		t.Fatal(err)
	}
	want := `actioncodes:ver=2&id=abc123&int=wallet%3Asolana&p=%7B%22action%22%3A%22pay-2usdc%22%7D`
	if s != want {
		t.Fatalf("got %q want %q", s, want)
	}

	got, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	if got.Ver != 2 || got.ID != "abc123" || got.Intent != "wallet:solana" {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	payload, ok := got.Payload.(map[string]any)
	if !ok || payload["action"] != "pay-2usdc" {
		t.Fatalf("unexpected payload: %+v", got.Payload)
	}
}

func TestIssuerOmittedWhenEqualToIntent(t *testing.T) {
	f := Fields{Ver: 2, ID: "abc123", Intent: "X", Issuer: "X"}
	s, err := Build(f)
	if err != nil {
		t.Fatal(err)
	}
	want := "actioncodes:ver=2&id=abc123&int=X"
	if s != want {
		t.Fatalf("got %q want %q", s, want)
	}
	got, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	if got.Issuer != "" {
		t.Fatalf("expected Issuer unset on parse, got %q", got.Issuer)
	}
	if got.EffectiveIssuer() != got.Intent {
		t.Fatalf("expected EffectiveIssuer to fall back to Intent")
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	_, err := Parse("actioncodes:ver=2&id=x&int=y&bogus=z")
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseRequiresCoreFields(t *testing.T) {
	_, err := Parse("actioncodes:ver=2&id=x")
	if err == nil {
		t.Fatal("expected error for missing int")
	}
}

func TestBuildRejectsOversizePayload(t *testing.T) {
	big := make(map[string]any)
	for i := 0; i < 100; i++ {
		big[string(rune('a'+i%26))+string(rune(i))] = "0123456789"
	}
	f := Fields{Ver: 2, ID: "x", Intent: "y", Payload: big}
	if _, err := Build(f); err == nil {
		t.Fatal("expected META_TOO_LARGE for oversize payload")
	}
}

func TestParseRejectsWrongPrefix(t *testing.T) {
	if _, err := Parse("notactioncodes:ver=2"); err == nil {
		t.Fatal("expected error for missing prefix")
	}
}
