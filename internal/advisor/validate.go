package advisor

import (
	"fmt"

	"stock-insight/internal/models"
)

// ValidateResult checks an analysis result for internal consistency before
// it is persisted or acted on. It returns the first violation found.
func ValidateResult(result *models.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("nil analysis result")
	}
	if result.Symbol == "" {
		return fmt.Errorf("empty symbol")
	}
	if result.CurrentPrice <= 0 {
		return fmt.Errorf("current price must be positive, got %.4f", result.CurrentPrice)
	}
	if result.SignalStrength < 0 || result.SignalStrength > 1 {
		return fmt.Errorf("signal strength %.4f out of [0, 1]", result.SignalStrength)
	}

	if result.RSI != nil {
		for _, v := range result.RSI.Values {
			if v < 0 || v > 100 {
				return fmt.Errorf("RSI value %.4f out of [0, 100]", v)
			}
		}
	}

	if result.Bollinger != nil {
		for i := range result.Bollinger.Middle {
			if result.Bollinger.Lower[i] > result.Bollinger.Middle[i] ||
				result.Bollinger.Middle[i] > result.Bollinger.Upper[i] {
				return fmt.Errorf("bollinger bands out of order at index %d", i)
			}
		}
	}

	for _, c := range result.Crossovers {
		if c.Strength < 0 || c.Strength > 1 {
			return fmt.Errorf("crossover strength %.4f out of [0, 1]", c.Strength)
		}
	}
	for _, b := range result.Breakouts {
		if b.Strength < 0 || b.Strength > 1 {
			return fmt.Errorf("breakout strength %.4f out of [0, 1]", b.Strength)
		}
	}
	for _, lvl := range result.Levels {
		if lvl.Strength < 0 || lvl.Strength > 1 {
			return fmt.Errorf("level strength %.4f out of [0, 1]", lvl.Strength)
		}
		if lvl.Confidence < 0 || lvl.Confidence > 0.9 {
			return fmt.Errorf("level confidence %.4f out of [0, 0.9]", lvl.Confidence)
		}
	}

	// Every support must sit below every resistance.
	for _, s := range result.Supports() {
		for _, r := range result.Resistances() {
			if s.Level >= r.Level {
				return fmt.Errorf("support %.2f at or above resistance %.2f", s.Level, r.Level)
			}
		}
	}

	if result.Correlation != nil {
		if result.Correlation.Coefficient < -1 || result.Correlation.Coefficient > 1 {
			return fmt.Errorf("correlation coefficient %.4f out of [-1, 1]", result.Correlation.Coefficient)
		}
		if result.Correlation.Confidence < 0 || result.Correlation.Confidence > 0.95 {
			return fmt.Errorf("correlation confidence %.4f out of [0, 0.95]", result.Correlation.Confidence)
		}
	}

	return nil
}
