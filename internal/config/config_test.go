package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load with missing file must succeed: %v", err)
	}
	if cfg.Symbol != "NIFTY" {
		t.Errorf("symbol default: got %q", cfg.Symbol)
	}
	if cfg.Poll.IntervalSeconds != 900 {
		t.Errorf("interval default: got %d", cfg.Poll.IntervalSeconds)
	}
	if cfg.Signal.OIThreshold != 500000 {
		t.Errorf("threshold default: got %v", cfg.Signal.OIThreshold)
	}
	if cfg.Signal.StrikeOffset != 200 {
		t.Errorf("offset default: got %v", cfg.Signal.StrikeOffset)
	}
	if cfg.Window.HalfWidth != 250 {
		t.Errorf("half width default: got %v", cfg.Window.HalfWidth)
	}
	if cfg.DataSource.TimeoutSeconds != 10 {
		t.Errorf("timeout default: got %d", cfg.DataSource.TimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "symbol: BANKNIFTY\npoll:\n  interval_seconds: 300\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYMBOL", "FINNIFTY")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Symbol != "FINNIFTY" {
		t.Errorf("env must override file, got %q", cfg.Symbol)
	}
	if cfg.Poll.IntervalSeconds != 300 {
		t.Errorf("file value lost, got %d", cfg.Poll.IntervalSeconds)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Poll.IntervalSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative interval")
	}
}
