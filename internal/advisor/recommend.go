// Package advisor turns an analysis result into an actionable recommendation
// with position sizing and a risk assessment.
package advisor

import (
	"fmt"

	"stock-insight/internal/config"
	"stock-insight/internal/models"
)

// RiskLevel grades the risk of acting on a recommendation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Recommendation is the advisor's actionable output for one symbol.
type Recommendation struct {
	Symbol          string
	Action          models.SignalType
	Confidence      float64 // [0, 1]
	PositionPercent float64 // suggested position as percent of capital
	RiskLevel       RiskLevel
	Notes           []string
}

// Advisor derives recommendations from analysis results using configured
// sizing and risk thresholds.
type Advisor struct {
	cfg config.AdvisorConfig
}

// NewAdvisor creates a new advisor.
func NewAdvisor(cfg config.AdvisorConfig) *Advisor {
	return &Advisor{cfg: cfg}
}

// Recommend maps the overall signal to an action, sizes the position by
// signal strength, and grades risk from volatility and conflicting evidence.
// Hold actions always size to zero.
func (a *Advisor) Recommend(result *models.AnalysisResult) *Recommendation {
	rec := &Recommendation{
		Symbol:     result.Symbol,
		Action:     result.OverallSignal,
		Confidence: result.SignalStrength,
		RiskLevel:  a.assessRisk(result),
	}

	if rec.Action != models.SignalHold {
		rec.PositionPercent = a.cfg.MaxPositionPercent * result.SignalStrength
		if rec.RiskLevel == RiskHigh {
			rec.PositionPercent /= 2
			rec.Confidence *= 0.8
		}
	}

	rec.Notes = a.buildNotes(result, rec)
	return rec
}

func (a *Advisor) assessRisk(result *models.AnalysisResult) RiskLevel {
	if result.Volatility > a.cfg.HighVolatilityPct {
		return RiskHigh
	}
	// A breakout without a volume surge is prone to failure.
	for _, b := range result.Breakouts {
		if !b.VolumeSurge {
			return RiskMedium
		}
	}
	if result.Trend == models.TrendNeutral {
		return RiskMedium
	}
	return RiskLow
}

func (a *Advisor) buildNotes(result *models.AnalysisResult, rec *Recommendation) []string {
	var notes []string

	if result.Volatility > a.cfg.HighVolatilityPct {
		notes = append(notes, fmt.Sprintf("annualized volatility %.1f%% exceeds the %.0f%% threshold",
			result.Volatility, a.cfg.HighVolatilityPct))
	}
	if result.RSI != nil && result.RSI.Overbought && isBuy(rec.Action) {
		notes = append(notes, "buy signal despite overbought RSI")
	}
	if result.RSI != nil && result.RSI.Oversold && isSell(rec.Action) {
		notes = append(notes, "sell signal despite oversold RSI")
	}
	if result.IsNewHigh {
		notes = append(notes, fmt.Sprintf("price set a new %d-day high", result.NewHighPeriod))
	}
	if result.IsNewLow {
		notes = append(notes, fmt.Sprintf("price set a new %d-day low", result.NewLowPeriod))
	}

	return notes
}

func isBuy(s models.SignalType) bool {
	return s == models.SignalBuy || s == models.SignalStrongBuy
}

func isSell(s models.SignalType) bool {
	return s == models.SignalSell || s == models.SignalStrongSell
}
