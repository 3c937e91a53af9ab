package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if f.CodeLength != 8 || f.TTLMs != 120_000 {
		t.Fatalf("expected defaults, got %+v", f)
	}
	if len(f.SupportedChains) != 1 || f.SupportedChains[0] != "solana" {
		t.Fatalf("expected default supported chains, got %+v", f.SupportedChains)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actioncodes.yaml")
	yamlBody := "codeLength: 6\nttlMs: 60000\nclockSkewMs: 5000\nsupportedChains: [\"solana\", \"sphinx\"]\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.CodeLength != 6 || f.TTLMs != 60000 || f.ClockSkewMs != 5000 {
		t.Fatalf("unexpected parsed config: %+v", f)
	}
	cfg := f.CodeGenerationConfig()
	if cfg.CodeLength != 6 {
		t.Fatalf("expected CodeGenerationConfig to carry through CodeLength, got %d", cfg.CodeLength)
	}
}

func TestEnvOverrideWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actioncodes.yaml")
	if err := os.WriteFile(path, []byte("codeLength: 6\nttlMs: 60000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACTIONCODES_CODE_LENGTH", "10")
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.CodeLength != 10 {
		t.Fatalf("expected env override to win, got %d", f.CodeLength)
	}
}
