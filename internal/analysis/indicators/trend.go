package indicators

import (
	"time"

	"stock-insight/internal/models"
)

// SMA calculates the Simple Moving Average of closing prices.
type SMA struct {
	period int
}

// NewSMA creates a new SMA calculator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Period() int {
	return s.period
}

// Calculate returns one value per bar from index period-1 onward: the mean of
// the trailing period closes. Fewer bars than the period yields an empty
// series, not an error.
func (s *SMA) Calculate(prices []models.PricePoint) (models.IndicatorSeries, error) {
	if s.period <= 0 {
		return models.IndicatorSeries{}, ErrInvalidPeriod
	}
	out := models.IndicatorSeries{Period: s.period}
	if len(prices) < s.period {
		return out, nil
	}

	closes := closePrices(prices)
	n := len(prices) - s.period + 1
	out.Dates = make([]time.Time, 0, n)
	out.Values = make([]float64, 0, n)

	for i := s.period - 1; i < len(prices); i++ {
		out.Values = append(out.Values, mean(closes[i-s.period+1:i+1]))
		out.Dates = append(out.Dates, prices[i].Date)
	}

	return out, nil
}

// EMA calculates the Exponential Moving Average of closing prices, seeded
// with the SMA of the first period closes.
type EMA struct {
	period int
}

// NewEMA creates a new EMA calculator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Period() int {
	return e.period
}

func (e *EMA) Calculate(prices []models.PricePoint) (models.IndicatorSeries, error) {
	if e.period <= 0 {
		return models.IndicatorSeries{}, ErrInvalidPeriod
	}
	out := models.IndicatorSeries{Period: e.period}
	if len(prices) < e.period {
		return out, nil
	}

	closes := closePrices(prices)
	values := emaValues(closes, e.period)

	out.Values = values
	out.Dates = make([]time.Time, 0, len(values))
	for i := e.period - 1; i < len(prices); i++ {
		out.Dates = append(out.Dates, prices[i].Date)
	}

	return out, nil
}

// emaValues computes an EMA over raw values: SMA seed anchored at index
// period-1, then EMA[i] = v[i]*k + EMA[i-1]*(1-k) with k = 2/(period+1).
// The result holds len(values)-period+1 entries, or nil when too short.
func emaValues(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)
	out = append(out, mean(values[:period]))

	for i := period; i < len(values); i++ {
		prev := out[len(out)-1]
		out = append(out, values[i]*k+prev*(1-k))
	}

	return out
}

// MACD calculates Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD calculator with the given periods (12, 26, 9 by
// convention).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// Period returns the minimum number of bars required for a non-empty result.
func (m *MACD) Period() int {
	return m.slowPeriod + m.signalPeriod
}

func (m *MACD) Calculate(prices []models.PricePoint) (*models.MACDSeries, error) {
	if m.fastPeriod <= 0 || m.slowPeriod <= 0 || m.signalPeriod <= 0 || m.fastPeriod >= m.slowPeriod {
		return nil, ErrInvalidPeriod
	}

	out := &models.MACDSeries{
		FastPeriod:   m.fastPeriod,
		SlowPeriod:   m.slowPeriod,
		SignalPeriod: m.signalPeriod,
	}
	if len(prices) < m.Period() {
		return out, nil
	}

	closes := closePrices(prices)
	fastEMA := emaValues(closes, m.fastPeriod)
	slowEMA := emaValues(closes, m.slowPeriod)

	// The slow EMA starts later; offset aligns the fast EMA onto the slow
	// EMA's first index.
	offset := m.slowPeriod - m.fastPeriod
	out.MACDLine = make([]float64, len(slowEMA))
	out.Dates = make([]time.Time, len(slowEMA))
	for i := range slowEMA {
		out.MACDLine[i] = fastEMA[i+offset] - slowEMA[i]
		out.Dates[i] = prices[m.slowPeriod-1+i].Date
	}

	// Signal line: EMA of the MACD line, SMA-seeded the same way.
	out.SignalLine = emaValues(out.MACDLine, m.signalPeriod)

	// Histogram aligns with the signal line's start inside the MACD line.
	signalStart := m.signalPeriod - 1
	out.Histogram = make([]float64, len(out.SignalLine))
	for i := range out.SignalLine {
		out.Histogram[i] = out.MACDLine[i+signalStart] - out.SignalLine[i]
	}

	return out, nil
}
