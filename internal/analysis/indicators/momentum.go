package indicators

import (
	"time"

	"stock-insight/internal/models"
)

// RSI calculates the Relative Strength Index using Wilder smoothing.
type RSI struct {
	period int
}

// NewRSI creates a new RSI calculator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Period() int {
	return r.period
}

// Calculate produces one RSI value per bar from index period onward. The
// first value seeds the average gain/loss with a simple mean; subsequent bars
// use the Wilder recurrence avg = (avg*(period-1) + x) / period. A zero
// average loss maps to RSI 100, so a flat series reads 100.
func (r *RSI) Calculate(prices []models.PricePoint) (*models.RSISeries, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}

	out := &models.RSISeries{Period: r.period}
	if len(prices) < r.period+1 {
		return out, nil
	}

	closes := closePrices(prices)
	n := len(closes)

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := mean(gains[1 : r.period+1])
	avgLoss := mean(losses[1 : r.period+1])

	out.Dates = make([]time.Time, 0, n-r.period)
	out.Values = make([]float64, 0, n-r.period)
	out.Values = append(out.Values, rsiValue(avgGain, avgLoss))
	out.Dates = append(out.Dates, prices[r.period].Date)

	for i := r.period + 1; i < n; i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		out.Values = append(out.Values, rsiValue(avgGain, avgLoss))
		out.Dates = append(out.Dates, prices[i].Date)
	}

	latest := out.Values[len(out.Values)-1]
	out.Overbought = latest > models.RSIOverbought
	out.Oversold = latest < models.RSIOversold

	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
