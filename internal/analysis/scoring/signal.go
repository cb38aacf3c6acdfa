package scoring

import (
	"math"

	"stock-insight/internal/models"
)

// SignalSynthesizer combines indicator readings into a single buy/sell/hold
// signal with a strength in [0, 1].
type SignalSynthesizer struct{}

func NewSignalSynthesizer() *SignalSynthesizer {
	return &SignalSynthesizer{}
}

// Synthesize scores each computable component and normalizes the total by
// the maximum attainable score. Components that were not computed contribute
// nothing to either side of the ratio, so thin data degrades the signal
// toward hold rather than biasing it.
func (s *SignalSynthesizer) Synthesize(result *models.AnalysisResult) (models.SignalType, float64) {
	score, maxScore := 0.0, 0.0

	if result.RSI != nil {
		if rsi, ok := result.RSI.Last(); ok {
			maxScore += 1.0
			switch {
			case rsi < models.RSIOversold:
				score += 1.0
			case rsi < 40:
				score += 0.5
			case rsi > models.RSIOverbought:
				score -= 1.0
			case rsi > 60:
				score -= 0.5
			}
		}
	}

	if result.MACD != nil {
		if macd, ok := result.MACD.LastMACD(); ok {
			if signal, ok := result.MACD.LastSignal(); ok {
				maxScore += 1.0
				if macd > signal {
					score += 0.5
				} else {
					score -= 0.5
				}
				if curr, ok := result.MACD.LastHistogram(); ok {
					if prev, ok := result.MACD.PrevHistogram(); ok {
						if curr > prev {
							score += 0.3
						} else {
							score -= 0.3
						}
					}
				}
			}
		}
	}

	if short, ok := result.SMA5.Last(); ok {
		if long, ok := result.SMA25.Last(); ok {
			maxScore += 1.0
			if result.CurrentPrice > short && short > long {
				score += 1.0
			} else if result.CurrentPrice < short && short < long {
				score -= 1.0
			}
		}
	}

	if cross, ok := result.LatestCrossover(); ok {
		maxScore += 1.0
		if cross.Type == models.GoldenCross {
			score += cross.Strength
		} else {
			score -= cross.Strength
		}
	}

	if maxScore == 0 {
		return models.SignalHold, 0
	}

	normalized := score / maxScore
	strength := math.Abs(normalized)
	switch {
	case normalized > 0.6:
		return models.SignalStrongBuy, strength
	case normalized > 0.2:
		return models.SignalBuy, strength
	case normalized < -0.6:
		return models.SignalStrongSell, strength
	case normalized < -0.2:
		return models.SignalSell, strength
	default:
		return models.SignalHold, strength
	}
}
