// Package config loads the settings for a HAL process: boot mode, notifier
// rate, logging and the simulated hardware used off-robot.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"frchal-go/x/timex"

	"gopkg.in/yaml.v2"
)

// Environment variables read by Load.
const (
	EnvConfig   = "FRCHAL_CONFIG"
	EnvMode     = "FRCHAL_MODE"
	EnvPeriodMs = "FRCHAL_PERIOD_MS"
	EnvLogLevel = "FRCHAL_LOG_LEVEL"
)

type Config struct {
	HAL      HALConfig      `yaml:"hal"`
	Notifier NotifierConfig `yaml:"notifier"`
	Log      LogConfig      `yaml:"log"`
	Sim      SimConfig      `yaml:"sim"`
	Run      RunConfig      `yaml:"run"`
}

type HALConfig struct {
	Mode          string `yaml:"mode"` // kill, warn or silent
	InitTimeoutMs int    `yaml:"initTimeoutMs"`
}

// NotifierConfig sets the loop period. RateHz, when nonzero, wins over
// PeriodMs.
type NotifierConfig struct {
	PeriodMs int    `yaml:"periodMs"`
	RateHz   uint32 `yaml:"rateHz"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

type SimConfig struct {
	Strict      bool              `yaml:"strict"`
	AnalogVolts map[int32]float64 `yaml:"analogVolts"`
	AHT20       *AHT20Config      `yaml:"aht20"`
}

// AHT20Config attaches a simulated temperature/humidity sensor.
type AHT20Config struct {
	Port  int32   `yaml:"port"`
	TempC float64 `yaml:"tempC"`
	RH    float64 `yaml:"rh"`
}

type RunConfig struct {
	DurationSec   int   `yaml:"durationSec"` // 0 runs until interrupted
	AnalogChannel int32 `yaml:"analogChannel"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HAL:      HALConfig{Mode: "kill", InitTimeoutMs: 500},
		Notifier: NotifierConfig{PeriodMs: 20},
		Log:      LogConfig{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7},
		Run:      RunConfig{AnalogChannel: 0},
	}
}

// Load merges defaults, the file named by FRCHAL_CONFIG (if set) and
// environment overrides, then validates the result.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfig))
}

// LoadFile is Load with an explicit file; an empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvMode); v != "" {
		cfg.HAL.Mode = v
	}
	if v := os.Getenv(EnvPeriodMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPeriodMs, err)
		}
		cfg.Notifier.PeriodMs = ms
		cfg.Notifier.RateHz = 0
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch c.HAL.Mode {
	case "kill", "warn", "silent":
	default:
		return fmt.Errorf("hal.mode %q: want kill, warn or silent", c.HAL.Mode)
	}
	if c.HAL.InitTimeoutMs < 0 {
		return fmt.Errorf("hal.initTimeoutMs must not be negative")
	}
	if c.Notifier.RateHz == 0 && c.Notifier.PeriodMs <= 0 {
		return fmt.Errorf("notifier.periodMs must be positive")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	if c.Run.DurationSec < 0 {
		return fmt.Errorf("run.durationSec must not be negative")
	}
	if a := c.Sim.AHT20; a != nil && (a.Port < 0 || a.Port > 1) {
		return fmt.Errorf("sim.aht20.port %d: want 0 or 1", a.Port)
	}
	return nil
}

func (c *Config) Period() time.Duration {
	if c.Notifier.RateHz != 0 {
		return timex.PeriodFromHz(c.Notifier.RateHz)
	}
	return time.Duration(c.Notifier.PeriodMs) * time.Millisecond
}

func (c *Config) InitTimeout() time.Duration {
	return time.Duration(c.HAL.InitTimeoutMs) * time.Millisecond
}

func (c *Config) RunDuration() time.Duration {
	return time.Duration(c.Run.DurationSec) * time.Second
}
