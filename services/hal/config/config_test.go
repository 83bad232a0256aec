package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hal.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HAL.Mode != "kill" || cfg.Period() != 20*time.Millisecond || cfg.InitTimeout() != 500*time.Millisecond {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
hal:
  mode: silent
notifier:
  rateHz: 50
log:
  level: debug
  format: json
sim:
  strict: true
  analogVolts:
    3: 2.5
  aht20:
    port: 1
    tempC: 21.5
    rh: 40
run:
  durationSec: 2
  analogChannel: 3
`)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HAL.Mode != "silent" || cfg.Log.Format != "json" || !cfg.Sim.Strict {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Period() != 20*time.Millisecond {
		t.Fatalf("rateHz period = %v", cfg.Period())
	}
	if cfg.Sim.AnalogVolts[3] != 2.5 || cfg.Sim.AHT20 == nil || cfg.Sim.AHT20.TempC != 21.5 {
		t.Fatalf("sim = %+v", cfg.Sim)
	}
	if cfg.RunDuration() != 2*time.Second || cfg.Run.AnalogChannel != 3 {
		t.Fatalf("run = %+v", cfg.Run)
	}
	// Untouched sections keep their defaults.
	if cfg.HAL.InitTimeoutMs != 500 {
		t.Fatalf("timeout = %d", cfg.HAL.InitTimeoutMs)
	}
}

func TestUnknownKeysRejected(t *testing.T) {
	p := writeFile(t, "hal:\n  moed: warn\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("typo accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	p := writeFile(t, "notifier:\n  rateHz: 100\n")
	t.Setenv(EnvConfig, p)
	t.Setenv(EnvMode, "warn")
	t.Setenv(EnvPeriodMs, "5")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HAL.Mode != "warn" || cfg.Period() != 5*time.Millisecond || cfg.Log.Level != "error" {
		t.Fatalf("cfg = %+v", cfg)
	}

	t.Setenv(EnvPeriodMs, "fast")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), EnvPeriodMs) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"mode", func(c *Config) { c.HAL.Mode = "loud" }},
		{"timeout", func(c *Config) { c.HAL.InitTimeoutMs = -1 }},
		{"period", func(c *Config) { c.Notifier.PeriodMs = 0 }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"duration", func(c *Config) { c.Run.DurationSec = -3 }},
		{"aht20", func(c *Config) { c.Sim.AHT20 = &AHT20Config{Port: 4} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(c)
			if c.Validate() == nil {
				t.Fatal("accepted")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}
