package scoring

import (
	"math"
	"testing"

	"stock-insight/internal/models"
)

func seriesOf(period int, values ...float64) models.IndicatorSeries {
	return models.IndicatorSeries{Period: period, Values: values}
}

func rsiOf(value float64) *models.RSISeries {
	return &models.RSISeries{
		Period:     14,
		Values:     []float64{value},
		Overbought: value > models.RSIOverbought,
		Oversold:   value < models.RSIOversold,
	}
}

func macdOf(macd, signal, prevHist, hist float64) *models.MACDSeries {
	return &models.MACDSeries{
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
		MACDLine:     []float64{macd},
		SignalLine:   []float64{signal},
		Histogram:    []float64{prevHist, hist},
	}
}

func bollOf(middle float64) *models.BollingerSeries {
	return &models.BollingerSeries{
		Period:     20,
		StdDevMult: 2.0,
		Upper:      []float64{middle * 1.05},
		Middle:     []float64{middle},
		Lower:      []float64{middle * 0.95},
	}
}

func TestClassifyBullishMajority(t *testing.T) {
	result := &models.AnalysisResult{
		CurrentPrice: 110,
		SMA5:         seriesOf(5, 105),
		SMA25:        seriesOf(25, 100),
		MACD:         macdOf(1.0, 0.5, 0, 0.5),
		RSI:          rsiOf(60),
		Bollinger:    bollOf(100),
	}

	if got := NewTrendClassifier().Classify(result); got != models.TrendBullish {
		t.Errorf("got %s, want bullish", got)
	}
}

func TestClassifyBearishMajority(t *testing.T) {
	result := &models.AnalysisResult{
		CurrentPrice: 90,
		SMA5:         seriesOf(5, 95),
		SMA25:        seriesOf(25, 100),
		MACD:         macdOf(-1.0, -0.5, 0, -0.5),
		RSI:          rsiOf(40),
		Bollinger:    bollOf(95),
	}

	if got := NewTrendClassifier().Classify(result); got != models.TrendBearish {
		t.Errorf("got %s, want bearish", got)
	}
}

func TestClassifySplitIsNeutral(t *testing.T) {
	// SMA alignment and price above the middle band, but MACD and RSI bearish.
	result := &models.AnalysisResult{
		CurrentPrice: 110,
		SMA5:         seriesOf(5, 105),
		SMA25:        seriesOf(25, 100),
		MACD:         macdOf(-1.0, -0.5, 0, -0.5),
		RSI:          rsiOf(40),
		Bollinger:    bollOf(100),
	}

	if got := NewTrendClassifier().Classify(result); got != models.TrendNeutral {
		t.Errorf("got %s, want neutral", got)
	}
}

func TestClassifyNothingComputableIsNeutral(t *testing.T) {
	result := &models.AnalysisResult{CurrentPrice: 100}

	if got := NewTrendClassifier().Classify(result); got != models.TrendNeutral {
		t.Errorf("got %s, want neutral", got)
	}
}

func TestClassifyLeadOfOneIsNeutral(t *testing.T) {
	// Three votes total: two bullish, one bearish. A lead of one is not
	// enough to call the trend.
	result := &models.AnalysisResult{
		CurrentPrice: 110,
		SMA5:         seriesOf(5, 105),
		SMA25:        seriesOf(25, 100),
		RSI:          rsiOf(40),
		Bollinger:    bollOf(100),
	}

	if got := NewTrendClassifier().Classify(result); got != models.TrendNeutral {
		t.Errorf("got %s, want neutral", got)
	}
}

func TestClassifyUsesMiddleBandNotSMA(t *testing.T) {
	// Price sits below SMA25 but above the middle band. The band vote joins
	// the SMA and RSI votes for a clean bullish call.
	result := &models.AnalysisResult{
		CurrentPrice: 104,
		SMA5:         seriesOf(5, 106),
		SMA25:        seriesOf(25, 105),
		RSI:          rsiOf(60),
		Bollinger:    bollOf(100),
	}

	if got := NewTrendClassifier().Classify(result); got != models.TrendBullish {
		t.Errorf("got %s, want bullish", got)
	}
}

func TestSynthesizeNothingComputableHolds(t *testing.T) {
	result := &models.AnalysisResult{CurrentPrice: 100}

	signal, strength := NewSignalSynthesizer().Synthesize(result)
	if signal != models.SignalHold {
		t.Errorf("signal: got %s, want hold", signal)
	}
	if strength != 0 {
		t.Errorf("strength: got %v, want 0", strength)
	}
}

func TestSynthesizeStrongBuy(t *testing.T) {
	result := &models.AnalysisResult{
		CurrentPrice: 110,
		SMA5:         seriesOf(5, 105),
		SMA25:        seriesOf(25, 100),
		RSI:          rsiOf(25),
		MACD:         macdOf(1.0, 0.5, 0.1, 0.5),
		Crossovers: []models.CrossoverSignal{
			{Type: models.GoldenCross, Strength: 0.8},
		},
	}

	signal, strength := NewSignalSynthesizer().Synthesize(result)
	if signal != models.SignalStrongBuy {
		t.Errorf("signal: got %s, want strong_buy", signal)
	}
	// score 1 + 0.5 + 0.3 + 1 + 0.8 over max 1 + 1 + 1 + 1.
	want := 3.6 / 4.0
	if math.Abs(strength-want) > 1e-9 {
		t.Errorf("strength: got %v, want %v", strength, want)
	}
}

func TestSynthesizeStrongSell(t *testing.T) {
	result := &models.AnalysisResult{
		CurrentPrice: 90,
		SMA5:         seriesOf(5, 95),
		SMA25:        seriesOf(25, 100),
		RSI:          rsiOf(75),
		MACD:         macdOf(-1.0, -0.5, -0.1, -0.5),
		Crossovers: []models.CrossoverSignal{
			{Type: models.DeadCross, Strength: 0.8},
		},
	}

	signal, _ := NewSignalSynthesizer().Synthesize(result)
	if signal != models.SignalStrongSell {
		t.Errorf("signal: got %s, want strong_sell", signal)
	}
}

func TestSynthesizeNeutralRSIHolds(t *testing.T) {
	result := &models.AnalysisResult{
		CurrentPrice: 100,
		RSI:          rsiOf(50),
	}

	signal, strength := NewSignalSynthesizer().Synthesize(result)
	if signal != models.SignalHold {
		t.Errorf("signal: got %s, want hold", signal)
	}
	if strength != 0 {
		t.Errorf("strength: got %v, want 0", strength)
	}
}

func TestSynthesizeMACDAloneWeighsFull(t *testing.T) {
	// A lone bullish MACD cross with no histogram slope scores 0.5 out of a
	// full unit weight, which lands in the buy band rather than strong buy.
	result := &models.AnalysisResult{
		CurrentPrice: 100,
		MACD: &models.MACDSeries{
			FastPeriod:   12,
			SlowPeriod:   26,
			SignalPeriod: 9,
			MACDLine:     []float64{1.0},
			SignalLine:   []float64{0.5},
			Histogram:    []float64{0.5},
		},
	}

	signal, strength := NewSignalSynthesizer().Synthesize(result)
	if signal != models.SignalBuy {
		t.Errorf("signal: got %s, want buy", signal)
	}
	if math.Abs(strength-0.5) > 1e-9 {
		t.Errorf("strength: got %v, want 0.5", strength)
	}
}

func TestSynthesizeRSIBoundariesAreNotExtreme(t *testing.T) {
	// Exactly 70 and exactly 30 fall into the moderate buckets, not the
	// overbought and oversold ones.
	cases := []struct {
		rsi        float64
		wantSignal models.SignalType
	}{
		{70, models.SignalSell},
		{30, models.SignalBuy},
	}
	for _, tc := range cases {
		result := &models.AnalysisResult{
			CurrentPrice: 100,
			RSI:          rsiOf(tc.rsi),
		}

		signal, strength := NewSignalSynthesizer().Synthesize(result)
		if signal != tc.wantSignal {
			t.Errorf("rsi %v: signal got %s, want %s", tc.rsi, signal, tc.wantSignal)
		}
		if math.Abs(strength-0.5) > 1e-9 {
			t.Errorf("rsi %v: strength got %v, want 0.5", tc.rsi, strength)
		}
	}
}

func TestSynthesizeFlatHistogramCountsAgainst(t *testing.T) {
	// A histogram that stops rising drags the score down. MACD above signal
	// gives +0.5, the flat histogram -0.3, leaving 0.2 which is a hold.
	result := &models.AnalysisResult{
		CurrentPrice: 100,
		MACD:         macdOf(1.0, 0.5, 0.2, 0.2),
	}

	signal, strength := NewSignalSynthesizer().Synthesize(result)
	if signal != models.SignalHold {
		t.Errorf("signal: got %s, want hold", signal)
	}
	if math.Abs(strength-0.2) > 1e-9 {
		t.Errorf("strength: got %v, want 0.2", strength)
	}
}
