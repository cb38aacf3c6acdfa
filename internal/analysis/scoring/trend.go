// Package scoring turns computed indicators into a trend classification and
// an overall trading signal.
package scoring

import (
	"stock-insight/internal/models"
)

// TrendClassifier votes bullish or bearish across four independent checks
// and classifies by majority.
type TrendClassifier struct{}

func NewTrendClassifier() *TrendClassifier {
	return &TrendClassifier{}
}

// Classify counts one bullish or bearish vote per computable check: SMA5
// against SMA25, RSI against 50, MACD line against signal line, and price
// against the Bollinger middle band. Checks whose inputs were not computed
// cast no vote. The side must lead by more than one vote to win, otherwise
// the trend is neutral.
func (t *TrendClassifier) Classify(result *models.AnalysisResult) models.TrendDirection {
	bullish, bearish := 0, 0

	if short, ok := result.SMA5.Last(); ok {
		if long, ok := result.SMA25.Last(); ok {
			if short > long {
				bullish++
			} else if short < long {
				bearish++
			}
		}
	}

	if result.RSI != nil {
		if rsi, ok := result.RSI.Last(); ok {
			if rsi > 50 {
				bullish++
			} else if rsi < 50 {
				bearish++
			}
		}
	}

	if result.MACD != nil {
		if macd, ok := result.MACD.LastMACD(); ok {
			if signal, ok := result.MACD.LastSignal(); ok {
				if macd > signal {
					bullish++
				} else if macd < signal {
					bearish++
				}
			}
		}
	}

	if middle, ok := result.Bollinger.LastMiddle(); ok {
		if result.CurrentPrice > middle {
			bullish++
		} else if result.CurrentPrice < middle {
			bearish++
		}
	}

	switch {
	case bullish > bearish+1:
		return models.TrendBullish
	case bearish > bullish+1:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}
