package patterns

import (
	"math"
	"sort"
	"time"

	"stock-insight/internal/models"
)

// levelTolerance is the relative band within which two extrema count as
// touches of the same level.
const levelTolerance = 0.02

// maxLevels caps how many levels a single run reports.
const maxLevels = 5

// LevelLocator clusters local price extrema into support and resistance
// levels.
type LevelLocator struct {
	lookback   int
	minTouches int
}

// NewLevelLocator creates a new locator. The scan covers the last
// 3*lookback bars; a cluster needs at least minTouches touches to become a
// reported level.
func NewLevelLocator(lookback, minTouches int) *LevelLocator {
	return &LevelLocator{lookback: lookback, minTouches: minTouches}
}

type extremum struct {
	date  time.Time
	value float64
}

// Locate returns up to 5 levels ordered by strength descending. Order among
// equal-strength levels is unspecified. Whenever both kinds are present every
// reported support lies below every reported resistance.
func (l *LevelLocator) Locate(prices []models.PricePoint) []models.SupportResistanceLevel {
	if len(prices) < l.lookback*2 {
		return nil
	}

	recent := prices
	if span := l.lookback * 3; len(prices) > span {
		recent = prices[len(prices)-span:]
	}

	var highs, lows []extremum
	for i := 1; i < len(recent)-1; i++ {
		if recent[i].High > recent[i-1].High && recent[i].High > recent[i+1].High {
			highs = append(highs, extremum{date: recent[i].Date, value: recent[i].High})
		}
		if recent[i].Low < recent[i-1].Low && recent[i].Low < recent[i+1].Low {
			lows = append(lows, extremum{date: recent[i].Date, value: recent[i].Low})
		}
	}

	levels := l.cluster(highs, models.LevelResistance)
	levels = append(levels, l.cluster(lows, models.LevelSupport)...)

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Strength > levels[j].Strength
	})
	if len(levels) > maxLevels {
		levels = levels[:maxLevels]
	}

	return enforceOrdering(levels)
}

// cluster counts, for each extremum, how many extrema lie within the
// tolerance band around it, and emits a level once the touch count reaches
// the minimum.
func (l *LevelLocator) cluster(extrema []extremum, kind models.LevelType) []models.SupportResistanceLevel {
	var levels []models.SupportResistanceLevel

	for _, e := range extrema {
		tolerance := e.value * levelTolerance
		touches := 0
		var lastTouch time.Time
		for _, other := range extrema {
			if math.Abs(other.value-e.value) <= tolerance {
				touches++
				if other.date.After(lastTouch) {
					lastTouch = other.date
				}
			}
		}
		if touches < l.minTouches {
			continue
		}
		levels = append(levels, models.SupportResistanceLevel{
			Level:      e.value,
			Type:       kind,
			Strength:   math.Min(float64(touches)/5.0, 1.0),
			TouchCount: touches,
			LastTouch:  lastTouch,
			Confidence: math.Min(0.5+float64(touches-l.minTouches)*0.1, 0.9),
		})
	}

	return levels
}

// enforceOrdering keeps the invariant that every reported support sits below
// every reported resistance, dropping any support at or above the lowest
// resistance.
func enforceOrdering(levels []models.SupportResistanceLevel) []models.SupportResistanceLevel {
	minResistance := math.Inf(1)
	hasResistance := false
	for _, lvl := range levels {
		if lvl.Type == models.LevelResistance && lvl.Level < minResistance {
			minResistance = lvl.Level
			hasResistance = true
		}
	}
	if !hasResistance {
		return levels
	}

	out := levels[:0]
	for _, lvl := range levels {
		if lvl.Type == models.LevelSupport && lvl.Level >= minResistance {
			continue
		}
		out = append(out, lvl)
	}
	return out
}
