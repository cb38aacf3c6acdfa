// Package config provides configuration management for the analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Advisor     AdvisorConfig  `mapstructure:"advisor"`
	Agent       AgentConfig    `mapstructure:"agent"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// AnalysisConfig enumerates every period, window, and threshold the engine
// uses. The engine receives this bundle by value and reads no environment
// variables or ambient globals of its own.
type AnalysisConfig struct {
	MinHistory int `mapstructure:"min_history"`

	SMAShort  int `mapstructure:"sma_short"`
	SMAMedium int `mapstructure:"sma_medium"`
	SMALong   int `mapstructure:"sma_long"`

	EMAFast int `mapstructure:"ema_fast"`
	EMASlow int `mapstructure:"ema_slow"`

	RSIPeriod int `mapstructure:"rsi_period"`

	MACDFast   int `mapstructure:"macd_fast"`
	MACDSlow   int `mapstructure:"macd_slow"`
	MACDSignal int `mapstructure:"macd_signal"`

	BollingerPeriod int     `mapstructure:"bollinger_period"`
	BollingerMult   float64 `mapstructure:"bollinger_mult"`

	BreakoutLookback int     `mapstructure:"breakout_lookback"`
	VolumeSurgeRatio float64 `mapstructure:"volume_surge_ratio"`

	ExtremeWindows []int `mapstructure:"extreme_windows"`

	LevelLookback   int `mapstructure:"level_lookback"`
	LevelMinTouches int `mapstructure:"level_min_touches"`

	CorrelationWindow     int `mapstructure:"correlation_window"`
	CorrelationMinSamples int `mapstructure:"correlation_min_samples"`

	VolatilityPeriod int `mapstructure:"volatility_period"`
}

// AdvisorConfig holds recommendation-generation parameters.
type AdvisorConfig struct {
	MaxPositionPercent float64 `mapstructure:"max_position_percent"`
	HighVolatilityPct  float64 `mapstructure:"high_volatility_pct"`
}

// AgentConfig holds AI analyst configuration.
type AgentConfig struct {
	Model       string `mapstructure:"model"`
	MaxRetries  int    `mapstructure:"max_retries"`
	BackoffSecs int    `mapstructure:"backoff_secs"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultAnalysis returns the documented default analysis configuration.
func DefaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		MinHistory:            30,
		SMAShort:              5,
		SMAMedium:             25,
		SMALong:               75,
		EMAFast:               12,
		EMASlow:               26,
		RSIPeriod:             14,
		MACDFast:              12,
		MACDSlow:              26,
		MACDSignal:            9,
		BollingerPeriod:       20,
		BollingerMult:         2.0,
		BreakoutLookback:      20,
		VolumeSurgeRatio:      1.5,
		ExtremeWindows:        []int{20, 50, 100, 200},
		LevelLookback:         20,
		LevelMinTouches:       2,
		CorrelationWindow:     50,
		CorrelationMinSamples: 10,
		VolatilityPeriod:      20,
	}
}

// DefaultAdvisor returns the default advisor configuration.
func DefaultAdvisor() AdvisorConfig {
	return AdvisorConfig{
		MaxPositionPercent: 10.0,
		HighVolatilityPct:  40.0,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-insight"
	}
	return filepath.Join(home, ".config", "stock-insight")
}

// DefaultStorePath returns the default SQLite database path.
func DefaultStorePath() string {
	return filepath.Join(DefaultConfigDir(), "insight.db")
}

// DirFromArgs extracts the value of a --config flag from raw command-line
// arguments. Configuration must be loaded before the command tree parses
// flags, so this is a plain scan over os.Args rather than a flag set. It
// returns "" when the flag is absent or has no value.
func DirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. Missing files
// fall back to documented defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{
		Analysis: DefaultAnalysis(),
		Advisor:  DefaultAdvisor(),
		Agent: AgentConfig{
			Model:       "gpt-4o-mini",
			MaxRetries:  3,
			BackoffSecs: 2,
		},
	}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Environment override for the API key only; analysis parameters come
	// exclusively from the config file.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setAnalysisDefaults(v, target.Analysis)
	v.SetDefault("advisor.max_position_percent", target.Advisor.MaxPositionPercent)
	v.SetDefault("advisor.high_volatility_pct", target.Advisor.HighVolatilityPct)
	v.SetDefault("agent.model", target.Agent.Model)
	v.SetDefault("agent.max_retries", target.Agent.MaxRetries)
	v.SetDefault("agent.backoff_secs", target.Agent.BackoffSecs)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return v.Unmarshal(target)
}

func setAnalysisDefaults(v *viper.Viper, a AnalysisConfig) {
	v.SetDefault("analysis.min_history", a.MinHistory)
	v.SetDefault("analysis.sma_short", a.SMAShort)
	v.SetDefault("analysis.sma_medium", a.SMAMedium)
	v.SetDefault("analysis.sma_long", a.SMALong)
	v.SetDefault("analysis.ema_fast", a.EMAFast)
	v.SetDefault("analysis.ema_slow", a.EMASlow)
	v.SetDefault("analysis.rsi_period", a.RSIPeriod)
	v.SetDefault("analysis.macd_fast", a.MACDFast)
	v.SetDefault("analysis.macd_slow", a.MACDSlow)
	v.SetDefault("analysis.macd_signal", a.MACDSignal)
	v.SetDefault("analysis.bollinger_period", a.BollingerPeriod)
	v.SetDefault("analysis.bollinger_mult", a.BollingerMult)
	v.SetDefault("analysis.breakout_lookback", a.BreakoutLookback)
	v.SetDefault("analysis.volume_surge_ratio", a.VolumeSurgeRatio)
	v.SetDefault("analysis.extreme_windows", a.ExtremeWindows)
	v.SetDefault("analysis.level_lookback", a.LevelLookback)
	v.SetDefault("analysis.level_min_touches", a.LevelMinTouches)
	v.SetDefault("analysis.correlation_window", a.CorrelationWindow)
	v.SetDefault("analysis.correlation_min_samples", a.CorrelationMinSamples)
	v.SetDefault("analysis.volatility_period", a.VolatilityPeriod)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return v.Unmarshal(creds)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.MinHistory < 1 {
		return fmt.Errorf("min_history must be positive")
	}
	for name, p := range map[string]int{
		"sma_short":        a.SMAShort,
		"sma_medium":       a.SMAMedium,
		"sma_long":         a.SMALong,
		"ema_fast":         a.EMAFast,
		"ema_slow":         a.EMASlow,
		"rsi_period":       a.RSIPeriod,
		"macd_fast":        a.MACDFast,
		"macd_slow":        a.MACDSlow,
		"macd_signal":      a.MACDSignal,
		"bollinger_period": a.BollingerPeriod,
		"breakout_lookback": a.BreakoutLookback,
		"level_lookback":   a.LevelLookback,
		"volatility_period": a.VolatilityPeriod,
	} {
		if p <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if a.SMAShort >= a.SMAMedium {
		return fmt.Errorf("sma_short must be less than sma_medium")
	}
	if a.MACDFast >= a.MACDSlow {
		return fmt.Errorf("macd_fast must be less than macd_slow")
	}
	if a.BollingerMult <= 0 {
		return fmt.Errorf("bollinger_mult must be positive")
	}
	if a.VolumeSurgeRatio <= 1 {
		return fmt.Errorf("volume_surge_ratio must exceed 1")
	}
	if len(a.ExtremeWindows) == 0 {
		return fmt.Errorf("extreme_windows must not be empty")
	}
	for i := 1; i < len(a.ExtremeWindows); i++ {
		if a.ExtremeWindows[i] <= a.ExtremeWindows[i-1] {
			return fmt.Errorf("extreme_windows must be strictly ascending")
		}
	}
	if a.LevelMinTouches < 1 {
		return fmt.Errorf("level_min_touches must be at least 1")
	}
	if a.CorrelationMinSamples < 2 {
		return fmt.Errorf("correlation_min_samples must be at least 2")
	}
	if c.Advisor.MaxPositionPercent < 0 || c.Advisor.MaxPositionPercent > 100 {
		return fmt.Errorf("max_position_percent must be between 0 and 100")
	}
	return nil
}
