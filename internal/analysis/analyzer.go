// Package analysis orchestrates indicator calculation, pattern detection,
// and signal synthesis for a single symbol's price history.
package analysis

import (
	"math"

	"github.com/rs/zerolog"

	"stock-insight/internal/analysis/indicators"
	"stock-insight/internal/analysis/patterns"
	"stock-insight/internal/analysis/scoring"
	"stock-insight/internal/config"
	apperrors "stock-insight/internal/errors"
	"stock-insight/internal/models"
)

// Analyzer runs the full technical analysis pipeline. It holds no state
// between calls; every Analyze call works only from its arguments and the
// configuration captured at construction.
type Analyzer struct {
	cfg    config.AnalysisConfig
	logger zerolog.Logger

	smaShort  *indicators.SMA
	smaMedium *indicators.SMA
	smaLong   *indicators.SMA
	emaFast   *indicators.EMA
	emaSlow   *indicators.EMA
	rsi       *indicators.RSI
	macd      *indicators.MACD
	bollinger *indicators.BollingerBands

	crossovers  *patterns.CrossoverDetector
	breakouts   *patterns.BreakoutDetector
	extremes    *patterns.ExtremeDetector
	levels      *patterns.LevelLocator
	correlator  *Correlator
	classifier  *scoring.TrendClassifier
	synthesizer *scoring.SignalSynthesizer
}

// NewAnalyzer creates an analyzer from a validated configuration.
func NewAnalyzer(cfg config.AnalysisConfig, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: logger.With().Str("component", "analyzer").Logger(),

		smaShort:  indicators.NewSMA(cfg.SMAShort),
		smaMedium: indicators.NewSMA(cfg.SMAMedium),
		smaLong:   indicators.NewSMA(cfg.SMALong),
		emaFast:   indicators.NewEMA(cfg.EMAFast),
		emaSlow:   indicators.NewEMA(cfg.EMASlow),
		rsi:       indicators.NewRSI(cfg.RSIPeriod),
		macd:      indicators.NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal),
		bollinger: indicators.NewBollingerBands(cfg.BollingerPeriod, cfg.BollingerMult),

		crossovers:  patterns.NewCrossoverDetector(),
		breakouts:   patterns.NewBreakoutDetector(cfg.BreakoutLookback, cfg.VolumeSurgeRatio),
		extremes:    patterns.NewExtremeDetector(cfg.ExtremeWindows),
		levels:      patterns.NewLevelLocator(cfg.LevelLookback, cfg.LevelMinTouches),
		correlator:  NewCorrelator(cfg.CorrelationWindow, cfg.CorrelationMinSamples),
		classifier:  scoring.NewTrendClassifier(),
		synthesizer: scoring.NewSignalSynthesizer(),
	}
}

// Analyze runs the pipeline for one symbol. prices must be strictly
// ascending by date; volumes may be empty but when present must match prices
// bar for bar; refReturns is an optional market reference return series for
// correlation. Sub-indicators with too little history come back empty rather
// than failing the call; only a history shorter than the engine minimum or
// malformed input aborts.
//
// The result's AnalysisDate is the last bar's date, so re-running on the same
// inputs yields an identical result.
func (a *Analyzer) Analyze(symbol string, prices []models.PricePoint, volumes []models.VolumePoint, refReturns []float64) (*models.AnalysisResult, error) {
	if len(prices) < a.cfg.MinHistory {
		return nil, apperrors.NewDataInsufficientError(symbol, len(prices), a.cfg.MinHistory)
	}
	if err := a.validate(symbol, prices, volumes); err != nil {
		return nil, err
	}

	last := prices[len(prices)-1]
	result := &models.AnalysisResult{
		Symbol:       symbol,
		AnalysisDate: last.Date,
		CurrentPrice: last.Close,
	}

	var err error
	if result.SMA5, err = a.smaShort.Calculate(prices); err != nil {
		return nil, err
	}
	if result.SMA25, err = a.smaMedium.Calculate(prices); err != nil {
		return nil, err
	}
	if result.SMA75, err = a.smaLong.Calculate(prices); err != nil {
		return nil, err
	}
	if result.EMA12, err = a.emaFast.Calculate(prices); err != nil {
		return nil, err
	}
	if result.EMA26, err = a.emaSlow.Calculate(prices); err != nil {
		return nil, err
	}
	if result.RSI, err = a.rsi.Calculate(prices); err != nil {
		return nil, err
	}
	if result.MACD, err = a.macd.Calculate(prices); err != nil {
		return nil, err
	}
	if result.Bollinger, err = a.bollinger.Calculate(prices); err != nil {
		return nil, err
	}

	// Crossover detection needs both averages trimmed to their shared
	// trailing window.
	if !result.SMA5.IsEmpty() && !result.SMA25.IsEmpty() {
		n := result.SMA5.Len()
		if result.SMA25.Len() < n {
			n = result.SMA25.Len()
		}
		result.Crossovers = a.crossovers.Detect(
			result.SMA5.TrimToLast(n), result.SMA25.TrimToLast(n), prices)
	}

	result.Breakouts = a.breakouts.Detect(prices, volumes)
	result.IsNewHigh, result.NewHighPeriod = a.extremes.DetectNewHigh(prices)
	result.IsNewLow, result.NewLowPeriod = a.extremes.DetectNewLow(prices)
	result.Levels = a.levels.Locate(prices)
	result.Correlation = a.correlator.Estimate(prices, refReturns)

	result.PriceChangePct = priceChangePct(prices)
	result.VolumeChangePct = volumeChangePct(volumes)
	result.Volatility = annualizedVolatility(prices, a.cfg.VolatilityPeriod)

	result.Trend = a.classifier.Classify(result)
	result.OverallSignal, result.SignalStrength = a.synthesizer.Synthesize(result)

	a.logger.Debug().
		Str("symbol", symbol).
		Int("bars", len(prices)).
		Str("trend", string(result.Trend)).
		Str("signal", string(result.OverallSignal)).
		Float64("strength", result.SignalStrength).
		Msg("analysis complete")

	return result, nil
}

// validate rejects non-ascending or duplicate dates and a non-empty volume
// series that does not pair with prices bar for bar.
func (a *Analyzer) validate(symbol string, prices []models.PricePoint, volumes []models.VolumePoint) error {
	for i := 1; i < len(prices); i++ {
		if !prices[i].Date.After(prices[i-1].Date) {
			return apperrors.NewInvalidInputError(symbol, "price dates must be strictly ascending")
		}
	}
	if len(volumes) > 0 && len(volumes) != len(prices) {
		return apperrors.NewInvalidInputError(symbol, "volume series length does not match price series")
	}
	return nil
}

// priceChangePct is the latest close's percent change against the prior bar.
func priceChangePct(prices []models.PricePoint) float64 {
	if len(prices) < 2 {
		return 0
	}
	prev := prices[len(prices)-2].Close
	if prev == 0 {
		return 0
	}
	return (prices[len(prices)-1].Close - prev) / prev * 100
}

// volumeChangePct is the latest volume's percent change against the prior bar.
func volumeChangePct(volumes []models.VolumePoint) float64 {
	if len(volumes) < 2 {
		return 0
	}
	prev := float64(volumes[len(volumes)-2].Volume)
	if prev == 0 {
		return 0
	}
	return (float64(volumes[len(volumes)-1].Volume) - prev) / prev * 100
}

// annualizedVolatility is the population standard deviation of trailing daily
// returns scaled by sqrt(252), as a percentage.
func annualizedVolatility(prices []models.PricePoint, period int) float64 {
	if len(prices) < 3 || period < 2 {
		return 0
	}

	window := prices
	if len(prices) > period+1 {
		window = prices[len(prices)-period-1:]
	}

	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Close
		if prev == 0 {
			return 0
		}
		returns = append(returns, (window[i].Close-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	m := 0.0
	for _, r := range returns {
		m += r
	}
	m /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - m
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(252) * 100
}
