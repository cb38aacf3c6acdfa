package models

import (
	"time"
)

// TrendDirection classifies the prevailing trend.
type TrendDirection string

const (
	TrendBullish TrendDirection = "bullish"
	TrendBearish TrendDirection = "bearish"
	TrendNeutral TrendDirection = "neutral"
)

// SignalType is the synthesized overall trading signal.
type SignalType string

const (
	SignalStrongBuy  SignalType = "strong_buy"
	SignalBuy        SignalType = "buy"
	SignalHold       SignalType = "hold"
	SignalSell       SignalType = "sell"
	SignalStrongSell SignalType = "strong_sell"
)

// CrossoverType identifies a moving-average crossover event.
type CrossoverType string

const (
	GoldenCross CrossoverType = "golden_cross"
	DeadCross   CrossoverType = "dead_cross"
)

// BreakoutType identifies the direction of a breakout event.
type BreakoutType string

const (
	ResistanceBreak BreakoutType = "resistance_break"
	SupportBreak    BreakoutType = "support_break"
)

// LevelType identifies a support or resistance level.
type LevelType string

const (
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
)

// CrossoverSignal is a single moving-average crossover event.
type CrossoverSignal struct {
	Date        time.Time
	Type        CrossoverType
	Price       float64
	Strength    float64 // [0, 1]
	Description string
}

// BreakoutSignal records a break of a prior high or low.
type BreakoutSignal struct {
	Date           time.Time
	Type           BreakoutType
	Price          float64
	ReferenceLevel float64
	Strength       float64 // [0, 1]
	VolumeSurge    bool
	Description    string
}

// SupportResistanceLevel is a clustered price level touched repeatedly by
// past price action.
type SupportResistanceLevel struct {
	Level      float64
	Type       LevelType
	Strength   float64 // [0, 1]
	TouchCount int
	LastTouch  time.Time
	Confidence float64 // [0, 0.9]
}

// MarketCorrelation is the Pearson correlation of daily returns against a
// caller-supplied reference series. Absent (nil) when undetermined.
type MarketCorrelation struct {
	Coefficient float64
	PeriodDays  int
	Confidence  float64
	Description string
}

// AnalysisResult bundles every indicator, signal, and the synthesized overall
// view for one symbol at one point in time. The engine keeps no reference to
// it after return.
type AnalysisResult struct {
	Symbol       string
	AnalysisDate time.Time
	CurrentPrice float64

	// Moving averages
	SMA5  IndicatorSeries
	SMA25 IndicatorSeries
	SMA75 IndicatorSeries
	EMA12 IndicatorSeries
	EMA26 IndicatorSeries

	// Oscillators and bands
	RSI       *RSISeries
	MACD      *MACDSeries
	Bollinger *BollingerSeries

	// Pattern signals
	Crossovers []CrossoverSignal
	Breakouts  []BreakoutSignal
	Levels     []SupportResistanceLevel

	// Market context
	Correlation *MarketCorrelation

	// Synthesis
	Trend          TrendDirection
	OverallSignal  SignalType
	SignalStrength float64 // [0, 1]

	// Additional metrics
	PriceChangePct  float64
	VolumeChangePct float64
	Volatility      float64 // annualized, percent

	// Record detection
	IsNewHigh     bool
	IsNewLow      bool
	NewHighPeriod int
	NewLowPeriod  int
}

// Supports returns the detected support levels.
func (r *AnalysisResult) Supports() []SupportResistanceLevel {
	return r.levelsOfType(LevelSupport)
}

// Resistances returns the detected resistance levels.
func (r *AnalysisResult) Resistances() []SupportResistanceLevel {
	return r.levelsOfType(LevelResistance)
}

func (r *AnalysisResult) levelsOfType(t LevelType) []SupportResistanceLevel {
	var out []SupportResistanceLevel
	for _, lvl := range r.Levels {
		if lvl.Type == t {
			out = append(out, lvl)
		}
	}
	return out
}

// LatestCrossover returns the most recent crossover event, if any.
func (r *AnalysisResult) LatestCrossover() (CrossoverSignal, bool) {
	if len(r.Crossovers) == 0 {
		return CrossoverSignal{}, false
	}
	return r.Crossovers[len(r.Crossovers)-1], true
}
