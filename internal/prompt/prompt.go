// Package prompt renders an analysis result as structured natural language
// for language model consumption and human-readable reports.
package prompt

import (
	"fmt"
	"strings"

	"stock-insight/internal/models"
)

// AnalystSystemPrompt frames the model as a technical analyst and pins the
// response format the advisor parser expects.
const AnalystSystemPrompt = `You are a technical analysis expert for stock markets.
Analyze the provided technical data and provide a trading assessment.
Your response must be in the following exact format:
ASSESSMENT: BUY|SELL|HOLD
CONFIDENCE: <number 0-100>
KEY_RISK: <one sentence>
REASONING: <your analysis in one paragraph>`

// BuildAnalysisContext renders an analysis result as a structured context
// string. Sections whose inputs were not computed are omitted entirely rather
// than rendered with placeholder values.
func BuildAnalysisContext(result *models.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Symbol: %s\n", result.Symbol))
	sb.WriteString(fmt.Sprintf("Analysis Date: %s\n", result.AnalysisDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Current Price: %.2f (%+.2f%% vs prior close)\n\n", result.CurrentPrice, result.PriceChangePct))

	writeMovingAverages(&sb, result)
	writeOscillators(&sb, result)
	writeEvents(&sb, result)
	writeLevels(&sb, result)
	writeContext(&sb, result)

	sb.WriteString("Synthesis:\n")
	sb.WriteString(fmt.Sprintf("  - Trend: %s\n", result.Trend))
	sb.WriteString(fmt.Sprintf("  - Overall Signal: %s (strength %.2f)\n", result.OverallSignal, result.SignalStrength))

	return sb.String()
}

func writeMovingAverages(sb *strings.Builder, result *models.AnalysisResult) {
	lines := make([]string, 0, 5)
	appendMA := func(name string, s models.IndicatorSeries) {
		if v, ok := s.Last(); ok {
			lines = append(lines, fmt.Sprintf("  - %s(%d): %.2f", name, s.Period, v))
		}
	}
	appendMA("SMA", result.SMA5)
	appendMA("SMA", result.SMA25)
	appendMA("SMA", result.SMA75)
	appendMA("EMA", result.EMA12)
	appendMA("EMA", result.EMA26)

	if len(lines) == 0 {
		return
	}
	sb.WriteString("Moving Averages:\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeOscillators(sb *strings.Builder, result *models.AnalysisResult) {
	var lines []string

	if v, ok := result.RSI.Last(); ok {
		state := "neutral"
		if result.RSI.Overbought {
			state = "overbought"
		} else if result.RSI.Oversold {
			state = "oversold"
		}
		lines = append(lines, fmt.Sprintf("  - RSI(%d): %.2f (%s)", result.RSI.Period, v, state))
	}

	if macd, ok := result.MACD.LastMACD(); ok {
		if signal, ok := result.MACD.LastSignal(); ok {
			lines = append(lines, fmt.Sprintf("  - MACD: %.4f, Signal: %.4f", macd, signal))
			if hist, ok := result.MACD.LastHistogram(); ok {
				lines = append(lines, fmt.Sprintf("  - MACD Histogram: %.4f", hist))
			}
		}
	}

	if mid, ok := result.Bollinger.LastMiddle(); ok {
		upper, _ := result.Bollinger.LastUpper()
		lower, _ := result.Bollinger.LastLower()
		lines = append(lines, fmt.Sprintf("  - Bollinger(%d): upper %.2f, middle %.2f, lower %.2f",
			result.Bollinger.Period, upper, mid, lower))
	}

	if len(lines) == 0 {
		return
	}
	sb.WriteString("Oscillators and Bands:\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeEvents(sb *strings.Builder, result *models.AnalysisResult) {
	var lines []string

	for _, c := range result.Crossovers {
		lines = append(lines, fmt.Sprintf("  - %s on %s at %.2f (strength %.2f)",
			c.Type, c.Date.Format("2006-01-02"), c.Price, c.Strength))
	}
	for _, b := range result.Breakouts {
		surge := ""
		if b.VolumeSurge {
			surge = ", volume surge"
		}
		lines = append(lines, fmt.Sprintf("  - %s of %.2f at %.2f (strength %.2f%s)",
			b.Type, b.ReferenceLevel, b.Price, b.Strength, surge))
	}
	if result.IsNewHigh {
		lines = append(lines, fmt.Sprintf("  - new %d-day high", result.NewHighPeriod))
	}
	if result.IsNewLow {
		lines = append(lines, fmt.Sprintf("  - new %d-day low", result.NewLowPeriod))
	}

	if len(lines) == 0 {
		return
	}
	sb.WriteString("Recent Events:\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeLevels(sb *strings.Builder, result *models.AnalysisResult) {
	if len(result.Levels) == 0 {
		return
	}
	sb.WriteString("Support/Resistance Levels:\n")
	for _, lvl := range result.Levels {
		sb.WriteString(fmt.Sprintf("  - %s at %.2f (touches %d, strength %.2f, confidence %.2f)\n",
			lvl.Type, lvl.Level, lvl.TouchCount, lvl.Strength, lvl.Confidence))
	}
	sb.WriteString("\n")
}

func writeContext(sb *strings.Builder, result *models.AnalysisResult) {
	var lines []string

	if result.Correlation != nil {
		lines = append(lines, fmt.Sprintf("  - market correlation: %.2f over %d days (%s)",
			result.Correlation.Coefficient, result.Correlation.PeriodDays, result.Correlation.Description))
	}
	if result.Volatility > 0 {
		lines = append(lines, fmt.Sprintf("  - annualized volatility: %.1f%%", result.Volatility))
	}
	if result.VolumeChangePct != 0 {
		lines = append(lines, fmt.Sprintf("  - volume change vs prior bar: %+.1f%%", result.VolumeChangePct))
	}

	if len(lines) == 0 {
		return
	}
	sb.WriteString("Market Context:\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
