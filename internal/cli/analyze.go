package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stock-insight/internal/advisor"
	"stock-insight/internal/agents"
	"stock-insight/internal/analysis"
	apperrors "stock-insight/internal/errors"
	"stock-insight/internal/logging"
	"stock-insight/internal/models"
	"stock-insight/pkg/utils"
)

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run technical analysis on a symbol",
		Long: `Analyze runs the full indicator and pattern pipeline on a symbol's
daily history and prints the synthesized result.

Bars come from the local store by default; --csv reads them from a CSV
file instead. --ref names a second symbol whose stored returns serve as
the market reference for correlation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, app, strings.ToUpper(args[0]))
		},
	}

	cmd.Flags().String("csv", "", "read bars from a CSV file instead of the store")
	cmd.Flags().String("ref", "", "reference symbol for market correlation")
	cmd.Flags().Int("days", 0, "limit analysis to the trailing N days of history")
	cmd.Flags().Bool("ai", false, "ask the AI analyst for an interpretation")
	cmd.Flags().Bool("save", false, "persist the result to the store")

	return cmd
}

func runAnalyze(cmd *cobra.Command, app *App, symbol string) error {
	ctx := cmd.Context()
	out := NewOutput(cmd)

	prices, volumes, err := loadBars(ctx, cmd, app, symbol)
	if err != nil {
		return err
	}

	if days, _ := cmd.Flags().GetInt("days"); days > 0 && len(prices) > days {
		prices = prices[len(prices)-days:]
		if len(volumes) > days {
			volumes = volumes[len(volumes)-days:]
		}
	}

	refReturns, err := loadRefReturns(ctx, cmd, app)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(app.Config.Analysis, logging.WithSymbol(app.Logger, symbol))
	result, err := analyzer.Analyze(symbol, prices, volumes, refReturns)
	if err != nil {
		if apperrors.IsDataInsufficient(err) {
			out.Warning("Skipping %s: %v", symbol, err)
		}
		return err
	}

	if err := advisor.ValidateResult(result); err != nil {
		return fmt.Errorf("inconsistent analysis result: %w", err)
	}
	logging.LogAnalysis(app.Logger, symbol, string(result.OverallSignal),
		result.SignalStrength, string(result.Trend))

	if err := maybeSave(ctx, cmd, app, out, result); err != nil {
		return err
	}

	if out.IsJSON() {
		return out.JSON(result)
	}

	printResult(out, app, result)

	if ai, _ := cmd.Flags().GetBool("ai"); ai {
		return printAssessment(ctx, app, out, result)
	}
	return nil
}

// loadBars reads the symbol's history from the CSV file when --csv is set,
// otherwise from the store.
func loadBars(ctx context.Context, cmd *cobra.Command, app *App, symbol string) ([]models.PricePoint, []models.VolumePoint, error) {
	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		return loadBarsCSV(csvPath)
	}
	if app.Store == nil {
		return nil, nil, fmt.Errorf("store unavailable; use --csv to analyze a file")
	}
	prices, volumes, err := app.Store.GetBars(ctx, symbol, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, err
	}
	if len(prices) == 0 {
		return nil, nil, fmt.Errorf("no bars stored for %s: %w", symbol, apperrors.ErrDataNotFound)
	}
	return prices, volumes, nil
}

// loadRefReturns builds the market reference return series from the stored
// history of the --ref symbol. No flag means no correlation.
func loadRefReturns(ctx context.Context, cmd *cobra.Command, app *App) ([]float64, error) {
	ref, _ := cmd.Flags().GetString("ref")
	if ref == "" {
		return nil, nil
	}
	if app.Store == nil {
		return nil, fmt.Errorf("store unavailable for reference symbol %s", ref)
	}
	prices, _, err := app.Store.GetBars(ctx, strings.ToUpper(ref), time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(prices) < 2 {
		return nil, fmt.Errorf("no usable history stored for reference symbol %s", ref)
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (prices[i].Close-prev)/prev)
	}
	return returns, nil
}

func maybeSave(ctx context.Context, cmd *cobra.Command, app *App, out *Output, result *models.AnalysisResult) error {
	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}
	if app.Store == nil {
		return fmt.Errorf("store unavailable, cannot save")
	}
	if err := app.Store.SaveAnalysis(ctx, result); err != nil {
		return err
	}
	if !out.IsJSON() {
		out.Success("Saved analysis for %s (%s)", result.Symbol, result.AnalysisDate.Format("2006-01-02"))
	}
	return nil
}

func printResult(out *Output, app *App, result *models.AnalysisResult) {
	out.Heading("%s  %s  %s", result.Symbol,
		utils.FormatPrice(result.CurrentPrice),
		utils.FormatSignedPercent(result.PriceChangePct))
	out.Printf("As of %s\n\n", result.AnalysisDate.Format("2006-01-02"))

	out.Heading("Moving Averages")
	printMA(out, "SMA", result.SMA5, result.CurrentPrice)
	printMA(out, "SMA", result.SMA25, result.CurrentPrice)
	printMA(out, "SMA", result.SMA75, result.CurrentPrice)
	printMA(out, "EMA", result.EMA12, result.CurrentPrice)
	printMA(out, "EMA", result.EMA26, result.CurrentPrice)
	out.Println()

	out.Heading("Oscillators")
	if v, ok := result.RSI.Last(); ok {
		state := ""
		if result.RSI.Overbought {
			state = "  " + out.Bearish("overbought")
		} else if result.RSI.Oversold {
			state = "  " + out.Bullish("oversold")
		}
		out.Printf("  RSI(%d)      %6.2f%s\n", result.RSI.Period, v, state)
	}
	if macd, ok := result.MACD.LastMACD(); ok {
		signal, _ := result.MACD.LastSignal()
		out.Printf("  MACD        %8.4f  signal %8.4f\n", macd, signal)
	}
	if mid, ok := result.Bollinger.LastMiddle(); ok {
		upper, _ := result.Bollinger.LastUpper()
		lower, _ := result.Bollinger.LastLower()
		out.Printf("  Bollinger   %s / %s / %s\n",
			utils.FormatPrice(upper), utils.FormatPrice(mid), utils.FormatPrice(lower))
	}
	out.Println()

	printEvents(out, result)
	printLevels(out, result)

	if result.Correlation != nil {
		out.Heading("Market Correlation")
		out.Printf("  %.2f over %d days (%s)\n\n",
			result.Correlation.Coefficient, result.Correlation.PeriodDays, result.Correlation.Description)
	}

	out.Heading("Synthesis")
	trend := string(result.Trend)
	switch result.Trend {
	case models.TrendBullish:
		trend = out.Bullish(trend)
	case models.TrendBearish:
		trend = out.Bearish(trend)
	}
	out.Printf("  Trend       %s\n", trend)
	out.Printf("  Signal      %s (strength %.2f)\n", formatSignal(out, result.OverallSignal), result.SignalStrength)
	if result.Volatility > 0 {
		out.Printf("  Volatility  %.1f%% annualized\n", result.Volatility)
	}

	rec := advisor.NewAdvisor(app.Config.Advisor).Recommend(result)
	out.Printf("  Position    %.1f%% of capital (risk %s)\n", rec.PositionPercent, rec.RiskLevel)
	for _, note := range rec.Notes {
		out.Printf("  %s\n", out.Dim("note: "+note))
	}
}

func printMA(out *Output, name string, s models.IndicatorSeries, price float64) {
	v, ok := s.Last()
	if !ok {
		return
	}
	marker := out.Bullish("above")
	if price < v {
		marker = out.Bearish("below")
	} else if price == v {
		marker = "at"
	}
	out.Printf("  %s(%-3d)    %s  price %s\n", name, s.Period, utils.FormatPrice(v), marker)
}

func printEvents(out *Output, result *models.AnalysisResult) {
	if len(result.Crossovers) == 0 && len(result.Breakouts) == 0 && !result.IsNewHigh && !result.IsNewLow {
		return
	}
	out.Heading("Events")
	for _, c := range result.Crossovers {
		label := out.Bullish(string(c.Type))
		if c.Type == models.DeadCross {
			label = out.Bearish(string(c.Type))
		}
		out.Printf("  %s on %s at %s (strength %.2f)\n",
			label, c.Date.Format("2006-01-02"), utils.FormatPrice(c.Price), c.Strength)
	}
	for _, b := range result.Breakouts {
		label := out.Bullish(string(b.Type))
		if b.Type == models.SupportBreak {
			label = out.Bearish(string(b.Type))
		}
		surge := ""
		if b.VolumeSurge {
			surge = "  volume surge"
		}
		out.Printf("  %s of %s (strength %.2f)%s\n",
			label, utils.FormatPrice(b.ReferenceLevel), b.Strength, surge)
	}
	if result.IsNewHigh {
		out.Printf("  %s\n", out.Bullish(fmt.Sprintf("new %d-day high", result.NewHighPeriod)))
	}
	if result.IsNewLow {
		out.Printf("  %s\n", out.Bearish(fmt.Sprintf("new %d-day low", result.NewLowPeriod)))
	}
	out.Println()
}

func printLevels(out *Output, result *models.AnalysisResult) {
	if len(result.Levels) == 0 {
		return
	}
	out.Heading("Support / Resistance")
	for _, lvl := range result.Levels {
		label := out.Bullish(string(lvl.Type))
		if lvl.Type == models.LevelResistance {
			label = out.Bearish(string(lvl.Type))
		}
		out.Printf("  %s %s  touches %d  strength %.2f  confidence %.2f\n",
			label, utils.FormatPrice(lvl.Level), lvl.TouchCount, lvl.Strength, lvl.Confidence)
	}
	out.Println()
}

func formatSignal(out *Output, s models.SignalType) string {
	switch s {
	case models.SignalStrongBuy, models.SignalBuy:
		return out.Bullish(string(s))
	case models.SignalStrongSell, models.SignalSell:
		return out.Bearish(string(s))
	default:
		return string(s)
	}
}

func printAssessment(ctx context.Context, app *App, out *Output, result *models.AnalysisResult) error {
	analyst := agents.NewAnalyst(app.LLMClient, app.Config.Agent, app.Logger)
	assessment, err := analyst.Assess(ctx, result)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoLLMClient) {
			out.Warning("AI analyst unavailable: no OpenAI API key configured")
			return nil
		}
		return err
	}

	out.Println()
	out.Heading("AI Assessment")
	out.Printf("  %s (confidence %.0f%%)\n", assessment.Action, assessment.Confidence)
	if assessment.KeyRisk != "" {
		out.Printf("  Key risk: %s\n", assessment.KeyRisk)
	}
	if assessment.Reasoning != "" {
		out.Printf("  %s\n", assessment.Reasoning)
	}
	return nil
}
