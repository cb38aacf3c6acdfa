package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stock-insight/internal/models"
)

// barSliceGen generates a slice of valid daily bars with ascending dates and
// OHLC constraints intact.
func barSliceGen(minLen, maxLen int) gopter.Gen {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return gen.SliceOfN(maxLen, gen.Float64Range(50.0, 500.0)).Map(func(closes []float64) []models.PricePoint {
		if len(closes) < minLen {
			for len(closes) < minLen {
				closes = append(closes, closes[len(closes)-1])
			}
		}
		bars := make([]models.PricePoint, len(closes))
		for i, c := range closes {
			bars[i] = models.PricePoint{
				Date:  base.AddDate(0, 0, i),
				Open:  c * 0.99,
				High:  c * 1.02,
				Low:   c * 0.98,
				Close: c,
			}
		}
		return bars
	})
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("RSI values are within [0, 100]", prop.ForAll(
		func(bars []models.PricePoint) bool {
			rsi := NewRSI(14)
			series, err := rsi.Calculate(bars)
			if err != nil {
				return false
			}
			for _, v := range series.Values {
				if v < 0 || v > 100 || math.IsNaN(v) {
					return false
				}
			}
			return true
		},
		barSliceGen(15, 60),
	))

	properties.TestingRun(t)
}

func TestProperty_SMAWithinWindowBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("SMA has L-period+1 values, each inside its window's close range", prop.ForAll(
		func(bars []models.PricePoint) bool {
			period := 5
			sma := NewSMA(period)
			series, err := sma.Calculate(bars)
			if err != nil {
				return false
			}
			if series.Len() != len(bars)-period+1 {
				return false
			}
			for i, v := range series.Values {
				window := bars[i : i+period]
				lo, hi := window[0].Close, window[0].Close
				for _, b := range window[1:] {
					lo = math.Min(lo, b.Close)
					hi = math.Max(hi, b.Close)
				}
				if v < lo-1e-9 || v > hi+1e-9 {
					return false
				}
			}
			return true
		},
		barSliceGen(5, 60),
	))

	properties.TestingRun(t)
}

func TestProperty_BollingerBandOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("lower <= middle <= upper at every bar", prop.ForAll(
		func(bars []models.PricePoint) bool {
			bb := NewBollingerBands(20, 2.0)
			series, err := bb.Calculate(bars)
			if err != nil {
				return false
			}
			for i := range series.Middle {
				if series.Lower[i] > series.Middle[i]+1e-9 || series.Middle[i] > series.Upper[i]+1e-9 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 80),
	))

	properties.TestingRun(t)
}

func TestProperty_MACDHistogramConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("histogram equals MACD line minus signal line", prop.ForAll(
		func(bars []models.PricePoint) bool {
			macd := NewMACD(12, 26, 9)
			series, err := macd.Calculate(bars)
			if err != nil {
				return false
			}
			if len(series.Histogram) != len(series.SignalLine) {
				return false
			}
			offset := series.SignalPeriod - 1
			for i := range series.Histogram {
				want := series.MACDLine[i+offset] - series.SignalLine[i]
				if math.Abs(series.Histogram[i]-want) > 1e-9 {
					return false
				}
			}
			return true
		},
		barSliceGen(35, 90),
	))

	properties.TestingRun(t)
}
