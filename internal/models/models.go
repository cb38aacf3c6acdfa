// Package models provides the domain models for stock analysis.
package models

import (
	"time"
)

// PricePoint represents one daily OHLC bar.
type PricePoint struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // optional; Adjusted() falls back to Close
}

// Adjusted returns the adjusted close, defaulting to the raw close when unset.
func (p PricePoint) Adjusted() float64 {
	if p.AdjClose != 0 {
		return p.AdjClose
	}
	return p.Close
}

// VolumePoint represents one daily volume observation. The derived fields may
// be pre-populated by the data layer; the analyzer recomputes what it needs
// and never relies on them being set.
type VolumePoint struct {
	Date      time.Time
	Volume    int64
	SMA5      float64
	SMA20     float64
	ChangePct float64
}

// IndicatorSeries is a date-aligned indicator output (SMA, EMA, ...).
// For an input of L bars it holds L-period+1 values starting at bar period-1,
// or no values at all when fewer than period bars exist.
type IndicatorSeries struct {
	Period int
	Dates  []time.Time
	Values []float64
}

// Len returns the number of computed values.
func (s IndicatorSeries) Len() int {
	return len(s.Values)
}

// IsEmpty reports whether the series holds no values.
func (s IndicatorSeries) IsEmpty() bool {
	return len(s.Values) == 0
}

// Last returns the most recent value, if any.
func (s IndicatorSeries) Last() (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[len(s.Values)-1], true
}

// Prev returns the second most recent value, if any.
func (s IndicatorSeries) Prev() (float64, bool) {
	if len(s.Values) < 2 {
		return 0, false
	}
	return s.Values[len(s.Values)-2], true
}

// TrimToLast returns a view of the trailing n entries. Used to align two
// moving averages onto their shared window before crossover detection.
func (s IndicatorSeries) TrimToLast(n int) IndicatorSeries {
	if n >= len(s.Values) {
		return s
	}
	start := len(s.Values) - n
	return IndicatorSeries{
		Period: s.Period,
		Dates:  s.Dates[start:],
		Values: s.Values[start:],
	}
}

// RSI threshold levels.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// RSISeries holds Wilder RSI values with the extremity flags computed for
// the most recent bar.
type RSISeries struct {
	Period     int
	Dates      []time.Time
	Values     []float64
	Overbought bool
	Oversold   bool
}

// IsEmpty reports whether the series holds no values.
func (r *RSISeries) IsEmpty() bool {
	return r == nil || len(r.Values) == 0
}

// Last returns the most recent RSI value, if any.
func (r *RSISeries) Last() (float64, bool) {
	if r.IsEmpty() {
		return 0, false
	}
	return r.Values[len(r.Values)-1], true
}

// MACDSeries holds the MACD line, its signal line, and the histogram.
// Dates align with MACDLine; SignalLine and Histogram start SignalPeriod-1
// entries into the MACD line.
type MACDSeries struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
	Dates        []time.Time
	MACDLine     []float64
	SignalLine   []float64
	Histogram    []float64
}

// IsEmpty reports whether no MACD values were computed.
func (m *MACDSeries) IsEmpty() bool {
	return m == nil || len(m.MACDLine) == 0
}

// LastMACD returns the most recent MACD line value, if any.
func (m *MACDSeries) LastMACD() (float64, bool) {
	if m.IsEmpty() {
		return 0, false
	}
	return m.MACDLine[len(m.MACDLine)-1], true
}

// LastSignal returns the most recent signal line value, if any.
func (m *MACDSeries) LastSignal() (float64, bool) {
	if m == nil || len(m.SignalLine) == 0 {
		return 0, false
	}
	return m.SignalLine[len(m.SignalLine)-1], true
}

// LastHistogram returns the most recent histogram value, if any.
func (m *MACDSeries) LastHistogram() (float64, bool) {
	if m == nil || len(m.Histogram) == 0 {
		return 0, false
	}
	return m.Histogram[len(m.Histogram)-1], true
}

// PrevHistogram returns the second most recent histogram value, if any.
func (m *MACDSeries) PrevHistogram() (float64, bool) {
	if m == nil || len(m.Histogram) < 2 {
		return 0, false
	}
	return m.Histogram[len(m.Histogram)-2], true
}

// BollingerSeries holds Bollinger Bands built from an SMA middle band and a
// population standard deviation envelope.
type BollingerSeries struct {
	Period     int
	StdDevMult float64
	Dates      []time.Time
	Upper      []float64
	Middle     []float64
	Lower      []float64
}

// IsEmpty reports whether no band values were computed.
func (b *BollingerSeries) IsEmpty() bool {
	return b == nil || len(b.Middle) == 0
}

// LastMiddle returns the most recent middle band value, if any.
func (b *BollingerSeries) LastMiddle() (float64, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	return b.Middle[len(b.Middle)-1], true
}

// LastUpper returns the most recent upper band value, if any.
func (b *BollingerSeries) LastUpper() (float64, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	return b.Upper[len(b.Upper)-1], true
}

// LastLower returns the most recent lower band value, if any.
func (b *BollingerSeries) LastLower() (float64, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	return b.Lower[len(b.Lower)-1], true
}
