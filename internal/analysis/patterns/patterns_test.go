package patterns

import (
	"math"
	"testing"
	"time"

	"stock-insight/internal/models"
)

func testBars(ohlc [][4]float64) []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PricePoint, len(ohlc))
	for i, v := range ohlc {
		bars[i] = models.PricePoint{
			Date:  base.AddDate(0, 0, i),
			Open:  v[0],
			High:  v[1],
			Low:   v[2],
			Close: v[3],
		}
	}
	return bars
}

func flatBars(closes []float64) []models.PricePoint {
	ohlc := make([][4]float64, len(closes))
	for i, c := range closes {
		ohlc[i] = [4]float64{c, c, c, c}
	}
	return testBars(ohlc)
}

func maSeries(values []float64, period int) models.IndicatorSeries {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, len(values))
	for i := range values {
		dates[i] = base.AddDate(0, 0, i)
	}
	return models.IndicatorSeries{Period: period, Dates: dates, Values: values}
}

func TestCrossoverGoldenCross(t *testing.T) {
	short := maSeries([]float64{1.0, 3.0}, 5)
	long := maSeries([]float64{2.0, 2.0}, 25)
	prices := flatBars([]float64{10, 11})

	signals := NewCrossoverDetector().Detect(short, long, prices)

	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	s := signals[0]
	if s.Type != models.GoldenCross {
		t.Errorf("type: got %s, want golden_cross", s.Type)
	}
	if math.Abs(s.Strength-0.5) > 1e-9 {
		t.Errorf("strength: got %v, want 0.5", s.Strength)
	}
	if s.Price != 11 {
		t.Errorf("price: got %v, want 11", s.Price)
	}
}

func TestCrossoverDeadCross(t *testing.T) {
	short := maSeries([]float64{3.0, 1.0}, 5)
	long := maSeries([]float64{2.0, 2.0}, 25)
	prices := flatBars([]float64{10, 9})

	signals := NewCrossoverDetector().Detect(short, long, prices)

	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Type != models.DeadCross {
		t.Errorf("type: got %s, want dead_cross", signals[0].Type)
	}
}

func TestCrossoverNoEventWhenShortStaysBelow(t *testing.T) {
	short := maSeries([]float64{1.0, 1.5, 1.8}, 5)
	long := maSeries([]float64{2.0, 2.0, 2.0}, 25)
	prices := flatBars([]float64{10, 10, 10})

	if signals := NewCrossoverDetector().Detect(short, long, prices); len(signals) != 0 {
		t.Errorf("got %d signals, want 0", len(signals))
	}
}

func TestCrossoverMismatchedSeries(t *testing.T) {
	short := maSeries([]float64{1.0, 3.0, 4.0}, 5)
	long := maSeries([]float64{2.0, 2.0}, 25)
	prices := flatBars([]float64{10, 11, 12})

	if signals := NewCrossoverDetector().Detect(short, long, prices); len(signals) != 0 {
		t.Errorf("unequal series must yield no events, got %d", len(signals))
	}
}

func TestBreakoutResistance(t *testing.T) {
	ohlc := [][4]float64{
		{100, 101, 99, 100},
		{100, 102, 99, 101},
		{101, 103, 100, 102},
		{102, 104, 101, 103},
		{103, 105, 102, 104},
		{104, 107, 103, 106}, // breaks every prior high
	}
	bars := testBars(ohlc)

	signals := NewBreakoutDetector(5, 1.5).Detect(bars, nil)

	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	s := signals[0]
	if s.Type != models.ResistanceBreak {
		t.Errorf("type: got %s, want resistance_break", s.Type)
	}
	// Oldest qualifying bar wins: reference is the first bar's high.
	if s.ReferenceLevel != 101 {
		t.Errorf("reference: got %v, want 101", s.ReferenceLevel)
	}
	want := math.Min((106-101)/101*10, 1.0)
	if math.Abs(s.Strength-want) > 1e-9 {
		t.Errorf("strength: got %v, want %v", s.Strength, want)
	}
	if s.VolumeSurge {
		t.Error("no volume data must mean no surge")
	}
}

func TestBreakoutVolumeSurge(t *testing.T) {
	ohlc := [][4]float64{
		{100, 101, 99, 100},
		{100, 102, 99, 101},
		{101, 103, 100, 102},
		{102, 104, 101, 103},
		{103, 105, 102, 104},
		{104, 107, 103, 106},
	}
	bars := testBars(ohlc)
	volumes := make([]models.VolumePoint, len(bars))
	for i := range volumes {
		volumes[i] = models.VolumePoint{Date: bars[i].Date, Volume: 1000}
	}
	volumes[len(volumes)-1].Volume = 5000

	signals := NewBreakoutDetector(5, 1.5).Detect(bars, volumes)

	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if !signals[0].VolumeSurge {
		t.Error("expected a volume surge flag")
	}
}

func TestBreakoutTooFewBars(t *testing.T) {
	bars := flatBars([]float64{100, 101, 102})

	if signals := NewBreakoutDetector(5, 1.5).Detect(bars, nil); len(signals) != 0 {
		t.Errorf("got %d signals, want 0", len(signals))
	}
}

func TestExtremeSmallestWindowWins(t *testing.T) {
	ohlc := make([][4]float64, 12)
	for i := range ohlc {
		ohlc[i] = [4]float64{100, 105, 95, 100}
	}
	ohlc[11] = [4]float64{100, 120, 95, 118}
	bars := testBars(ohlc)

	detector := NewExtremeDetector([]int{5, 10})

	isHigh, window := detector.DetectNewHigh(bars)
	if !isHigh {
		t.Fatal("expected a new high")
	}
	if window != 5 {
		t.Errorf("window: got %d, want 5", window)
	}

	if isLow, _ := detector.DetectNewLow(bars); isLow {
		t.Error("did not expect a new low")
	}
}

func TestExtremeWindowLargerThanHistorySkipped(t *testing.T) {
	ohlc := make([][4]float64, 8)
	for i := range ohlc {
		ohlc[i] = [4]float64{100, 105, 95, 100}
	}
	ohlc[7] = [4]float64{100, 120, 95, 118}
	bars := testBars(ohlc)

	isHigh, window := NewExtremeDetector([]int{10, 20}).DetectNewHigh(bars)
	if isHigh || window != 0 {
		t.Errorf("all windows exceed history: got (%v, %d), want (false, 0)", isHigh, window)
	}
}

func TestLevelsSupportBelowResistance(t *testing.T) {
	// Zigzag touching ~110 highs and ~100 lows repeatedly.
	var ohlc [][4]float64
	cycle := [][4]float64{
		{105, 106, 104, 105},
		{108, 110, 107, 109},
		{105, 106, 104, 105},
		{101, 102, 100, 101},
	}
	for i := 0; i < 4; i++ {
		ohlc = append(ohlc, cycle...)
	}
	bars := testBars(ohlc)

	levels := NewLevelLocator(5, 2).Locate(bars)

	if len(levels) == 0 {
		t.Fatal("expected levels")
	}
	if len(levels) > 5 {
		t.Fatalf("got %d levels, want at most 5", len(levels))
	}

	var supports, resistances []models.SupportResistanceLevel
	for _, lvl := range levels {
		if lvl.Strength < 0 || lvl.Strength > 1 {
			t.Errorf("strength %v out of [0, 1]", lvl.Strength)
		}
		if lvl.Confidence < 0 || lvl.Confidence > 0.9 {
			t.Errorf("confidence %v out of [0, 0.9]", lvl.Confidence)
		}
		if lvl.TouchCount < 2 {
			t.Errorf("touch count %d below minimum", lvl.TouchCount)
		}
		switch lvl.Type {
		case models.LevelSupport:
			supports = append(supports, lvl)
		case models.LevelResistance:
			resistances = append(resistances, lvl)
		}
	}
	for _, s := range supports {
		for _, r := range resistances {
			if s.Level >= r.Level {
				t.Errorf("support %v at or above resistance %v", s.Level, r.Level)
			}
		}
	}
}

func TestLevelsShortHistory(t *testing.T) {
	bars := flatBars([]float64{100, 101, 102, 103})

	if levels := NewLevelLocator(5, 2).Locate(bars); len(levels) != 0 {
		t.Errorf("got %d levels, want 0", len(levels))
	}
}
