package patterns

import (
	"stock-insight/internal/models"
)

// ExtremeDetector checks whether the latest bar sets a new high or low over a
// set of candidate lookback windows.
type ExtremeDetector struct {
	windows []int
}

// NewExtremeDetector creates a detector over ascending candidate windows
// (conventionally {20, 50, 100, 200}).
func NewExtremeDetector(windows []int) *ExtremeDetector {
	return &ExtremeDetector{windows: windows}
}

// DetectNewHigh reports whether the current bar's high exceeds the maximum
// high of the prior N bars, for the smallest qualifying window N. Windows
// larger than the available history are skipped. First match in ascending
// order wins.
func (d *ExtremeDetector) DetectNewHigh(prices []models.PricePoint) (bool, int) {
	if len(prices) < 2 {
		return false, 0
	}

	currentHigh := prices[len(prices)-1].High
	for _, window := range d.windows {
		if len(prices) <= window {
			continue
		}
		past := prices[len(prices)-1-window : len(prices)-1]
		maxHigh := past[0].High
		for _, p := range past[1:] {
			if p.High > maxHigh {
				maxHigh = p.High
			}
		}
		if currentHigh > maxHigh {
			return true, window
		}
	}

	return false, 0
}

// DetectNewLow is the mirror of DetectNewHigh on lows.
func (d *ExtremeDetector) DetectNewLow(prices []models.PricePoint) (bool, int) {
	if len(prices) < 2 {
		return false, 0
	}

	currentLow := prices[len(prices)-1].Low
	for _, window := range d.windows {
		if len(prices) <= window {
			continue
		}
		past := prices[len(prices)-1-window : len(prices)-1]
		minLow := past[0].Low
		for _, p := range past[1:] {
			if p.Low < minLow {
				minLow = p.Low
			}
		}
		if currentLow < minLow {
			return true, window
		}
	}

	return false, 0
}
