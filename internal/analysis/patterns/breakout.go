package patterns

import (
	"fmt"
	"math"

	"stock-insight/internal/models"
)

// BreakoutDetector scans a trailing window for a break of a prior bar's high
// or low by the current bar.
type BreakoutDetector struct {
	lookback   int
	surgeRatio float64
}

// NewBreakoutDetector creates a new breakout detector. lookback is the number
// of historical bars scanned (the current bar excluded); surgeRatio is the
// volume multiple above the 5-bar mean that counts as a surge.
func NewBreakoutDetector(lookback int, surgeRatio float64) *BreakoutDetector {
	return &BreakoutDetector{lookback: lookback, surgeRatio: surgeRatio}
}

// Detect reports at most one resistance break and one support break per call.
// The window is scanned oldest-to-newest and only the first qualifying
// reference bar is reported (first-breach-wins); this is an intentional
// simplification, not a missed case.
func (d *BreakoutDetector) Detect(prices []models.PricePoint, volumes []models.VolumePoint) []models.BreakoutSignal {
	var signals []models.BreakoutSignal

	if len(prices) < d.lookback+1 {
		return signals
	}

	current := prices[len(prices)-1]
	window := prices[len(prices)-1-d.lookback : len(prices)-1]
	surge := d.volumeSurge(volumes)

	for _, ref := range window {
		if current.Close > ref.High && current.High > ref.High {
			signals = append(signals, models.BreakoutSignal{
				Date:           current.Date,
				Type:           models.ResistanceBreak,
				Price:          current.Close,
				ReferenceLevel: ref.High,
				Strength:       math.Min((current.Close-ref.High)/ref.High*10, 1.0),
				VolumeSurge:    surge,
				Description:    fmt.Sprintf("broke above resistance %.2f", ref.High),
			})
			break
		}
	}

	for _, ref := range window {
		if current.Close < ref.Low && current.Low < ref.Low {
			signals = append(signals, models.BreakoutSignal{
				Date:           current.Date,
				Type:           models.SupportBreak,
				Price:          current.Close,
				ReferenceLevel: ref.Low,
				Strength:       math.Min((ref.Low-current.Close)/ref.Low*10, 1.0),
				VolumeSurge:    surge,
				Description:    fmt.Sprintf("broke below support %.2f", ref.Low),
			})
			break
		}
	}

	return signals
}

// volumeSurge reports whether the latest volume exceeds surgeRatio times the
// mean of the last 5 volumes.
func (d *BreakoutDetector) volumeSurge(volumes []models.VolumePoint) bool {
	if len(volumes) < 5 {
		return false
	}
	var total float64
	for _, v := range volumes[len(volumes)-5:] {
		total += float64(v.Volume)
	}
	avg := total / 5
	if avg == 0 {
		return false
	}
	return float64(volumes[len(volumes)-1].Volume) > avg*d.surgeRatio
}
