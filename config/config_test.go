package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigMatchesHardcodedConstants(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Compiler.ConstScanCap != 256 {
		t.Fatalf("expected const scan cap 256, got %d", cfg.Compiler.ConstScanCap)
	}
	if cfg.Compiler.MaxStatementRecursion != 256 {
		t.Fatalf("expected max statement recursion 256, got %d", cfg.Compiler.MaxStatementRecursion)
	}
	if cfg.Compiler.JumpChainCap != 16 {
		t.Fatalf("expected jump chain cap 16, got %d", cfg.Compiler.JumpChainCap)
	}
	if cfg.Flags.Eval || cfg.Flags.Strict || cfg.Flags.FuncExpr {
		t.Fatalf("expected all default flags false")
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom on a missing file should not error: %v", err)
	}
	if cfg.Compiler.ConstScanCap != 256 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveToThenLoadFromRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Compiler.ConstScanCap = 128
	cfg.Flags.Strict = true

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Compiler.ConstScanCap != 128 {
		t.Fatalf("expected round-tripped const scan cap 128, got %d", loaded.Compiler.ConstScanCap)
	}
	if !loaded.Flags.Strict {
		t.Fatalf("expected round-tripped strict flag true")
	}
}
