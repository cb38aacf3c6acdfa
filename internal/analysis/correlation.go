package analysis

import (
	"fmt"
	"math"

	"stock-insight/internal/models"
)

// Correlator measures how closely a symbol's daily returns track a reference
// return series over a trailing window.
type Correlator struct {
	window     int
	minSamples int
}

func NewCorrelator(window, minSamples int) *Correlator {
	return &Correlator{window: window, minSamples: minSamples}
}

// Estimate computes the Pearson correlation between the symbol's trailing
// returns and refReturns. It returns nil when no reference series is
// supplied, when the two series cannot be aligned, or when fewer than
// minSamples paired returns are available. A nil result means the
// correlation is undetermined, not zero.
func (c *Correlator) Estimate(prices []models.PricePoint, refReturns []float64) *models.MarketCorrelation {
	if len(refReturns) == 0 {
		return nil
	}

	window := c.window
	if len(prices) < window {
		window = len(prices)
	}
	if window < 2 {
		return nil
	}

	recent := prices[len(prices)-window:]
	returns := make([]float64, 0, window-1)
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Close
		if prev == 0 {
			return nil
		}
		returns = append(returns, (recent[i].Close-prev)/prev)
	}

	if len(refReturns) < len(returns) {
		return nil
	}
	ref := refReturns[len(refReturns)-len(returns):]

	n := len(returns)
	if n < c.minSamples {
		return nil
	}

	r, ok := pearson(returns, ref)
	if !ok {
		return nil
	}

	return &models.MarketCorrelation{
		Coefficient: r,
		PeriodDays:  n,
		Confidence:  math.Min(0.5+float64(n)/100.0*0.3+math.Abs(r)*0.2, 0.95),
		Description: describeCorrelation(r),
	}
}

// pearson returns the sample correlation coefficient, reporting failure when
// either series has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	meanX, meanY := 0.0, 0.0
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

func describeCorrelation(r float64) string {
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	switch abs := math.Abs(r); {
	case abs > 0.7:
		return fmt.Sprintf("strong %s correlation with the market", direction)
	case abs > 0.3:
		return fmt.Sprintf("moderate %s correlation with the market", direction)
	default:
		return "weak correlation with the market"
	}
}
