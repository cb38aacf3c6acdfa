// Package patterns provides threshold-based pattern and signal detection on
// price history and derived indicator series.
package patterns

import (
	"fmt"
	"math"

	"stock-insight/internal/models"
)

// CrossoverDetector scans two aligned moving-average series for golden and
// dead crosses.
type CrossoverDetector struct{}

// NewCrossoverDetector creates a new crossover detector.
func NewCrossoverDetector() *CrossoverDetector {
	return &CrossoverDetector{}
}

// Detect compares a short and long moving average over their shared window.
// The caller aligns the two series to equal length (trimming to the shared
// trailing window); unequal or sub-2-length inputs yield no events. A golden
// cross at i requires short[i-1] <= long[i-1] and short[i] > long[i]; a dead
// cross is the mirrored condition, so both can never fire for the same bar.
func (d *CrossoverDetector) Detect(short, long models.IndicatorSeries, prices []models.PricePoint) []models.CrossoverSignal {
	var signals []models.CrossoverSignal

	if short.Len() < 2 || long.Len() < 2 || short.Len() != long.Len() {
		return signals
	}

	// Price index for the bar behind short.Values[i].
	priceStart := len(prices) - short.Len()

	for i := 1; i < short.Len(); i++ {
		shortPrev, shortCurr := short.Values[i-1], short.Values[i]
		longPrev, longCurr := long.Values[i-1], long.Values[i]

		var price float64
		if priceStart >= 0 {
			price = prices[priceStart+i].Close
		}

		switch {
		case shortPrev <= longPrev && shortCurr > longCurr:
			signals = append(signals, models.CrossoverSignal{
				Date:     short.Dates[i],
				Type:     models.GoldenCross,
				Price:    price,
				Strength: crossStrength(shortCurr, longCurr),
				Description: fmt.Sprintf("short MA(%d) crossed above long MA(%d)",
					short.Period, long.Period),
			})
		case shortPrev >= longPrev && shortCurr < longCurr:
			signals = append(signals, models.CrossoverSignal{
				Date:     short.Dates[i],
				Type:     models.DeadCross,
				Price:    price,
				Strength: crossStrength(shortCurr, longCurr),
				Description: fmt.Sprintf("short MA(%d) crossed below long MA(%d)",
					short.Period, long.Period),
			})
		}
	}

	return signals
}

func crossStrength(short, long float64) float64 {
	if long == 0 {
		return 0
	}
	return math.Min(math.Abs(short-long)/long, 1.0)
}
