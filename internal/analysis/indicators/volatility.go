package indicators

import (
	"time"

	"stock-insight/internal/models"
)

// BollingerBands calculates Bollinger Bands: an SMA middle band flanked by a
// population standard deviation envelope.
type BollingerBands struct {
	period    int
	stdDevMul float64
}

// NewBollingerBands creates a new Bollinger Bands calculator.
func NewBollingerBands(period int, stdDevMul float64) *BollingerBands {
	return &BollingerBands{
		period:    period,
		stdDevMul: stdDevMul,
	}
}

func (b *BollingerBands) Period() int {
	return b.period
}

func (b *BollingerBands) Calculate(prices []models.PricePoint) (*models.BollingerSeries, error) {
	if b.period <= 0 || b.stdDevMul <= 0 {
		return nil, ErrInvalidPeriod
	}

	out := &models.BollingerSeries{Period: b.period, StdDevMult: b.stdDevMul}
	if len(prices) < b.period {
		return out, nil
	}

	closes := closePrices(prices)
	n := len(prices) - b.period + 1
	out.Dates = make([]time.Time, 0, n)
	out.Upper = make([]float64, 0, n)
	out.Middle = make([]float64, 0, n)
	out.Lower = make([]float64, 0, n)

	for i := b.period - 1; i < len(prices); i++ {
		window := closes[i-b.period+1 : i+1]
		middle := mean(window)
		sd := stdDev(window)

		out.Middle = append(out.Middle, middle)
		out.Upper = append(out.Upper, middle+b.stdDevMul*sd)
		out.Lower = append(out.Lower, middle-b.stdDevMul*sd)
		out.Dates = append(out.Dates, prices[i].Date)
	}

	return out, nil
}
