package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaults := DefaultAnalysis()
	if cfg.Analysis.MinHistory != defaults.MinHistory {
		t.Errorf("min history: got %d, want %d", cfg.Analysis.MinHistory, defaults.MinHistory)
	}
	if cfg.Analysis.RSIPeriod != defaults.RSIPeriod {
		t.Errorf("rsi period: got %d, want %d", cfg.Analysis.RSIPeriod, defaults.RSIPeriod)
	}
	if cfg.Agent.Model != "gpt-4o-mini" {
		t.Errorf("model: got %s, want gpt-4o-mini", cfg.Agent.Model)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "[analysis]\nrsi_period = 21\nmin_history = 50\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.RSIPeriod != 21 {
		t.Errorf("rsi period: got %d, want 21", cfg.Analysis.RSIPeriod)
	}
	if cfg.Analysis.MinHistory != 50 {
		t.Errorf("min history: got %d, want 50", cfg.Analysis.MinHistory)
	}
	// Untouched keys keep their defaults.
	if cfg.Analysis.MACDSlow != 26 {
		t.Errorf("macd slow: got %d, want 26", cfg.Analysis.MACDSlow)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := "[analysis]\nsma_short = 30\nsma_medium = 25\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected a validation error for sma_short >= sma_medium")
	}
}

func TestDirFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"absent", []string{"analyze", "ACME"}, ""},
		{"separate value", []string{"--config", "/tmp/conf", "analyze"}, "/tmp/conf"},
		{"equals form", []string{"analyze", "--config=/tmp/conf"}, "/tmp/conf"},
		{"trailing flag without value", []string{"analyze", "--config"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirFromArgs(tt.args); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rsi period", func(c *Config) { c.Analysis.RSIPeriod = 0 }},
		{"macd fast not below slow", func(c *Config) { c.Analysis.MACDFast = 30 }},
		{"surge ratio at one", func(c *Config) { c.Analysis.VolumeSurgeRatio = 1.0 }},
		{"unsorted extreme windows", func(c *Config) { c.Analysis.ExtremeWindows = []int{50, 20} }},
		{"position above hundred", func(c *Config) { c.Advisor.MaxPositionPercent = 150 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Analysis: DefaultAnalysis(), Advisor: DefaultAdvisor()}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
