package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"stock-insight/internal/models"
	"stock-insight/internal/store"
)

// barRow is the CSV layout for daily bars, matching the common
// Date,Open,High,Low,Close,Adj Close,Volume export format.
type barRow struct {
	Date     string  `csv:"Date"`
	Open     float64 `csv:"Open"`
	High     float64 `csv:"High"`
	Low      float64 `csv:"Low"`
	Close    float64 `csv:"Close"`
	AdjClose float64 `csv:"Adj Close"`
	Volume   int64   `csv:"Volume"`
}

// loadBarsCSV reads daily bars from a CSV file, sorted ascending by date.
func loadBarsCSV(path string) ([]models.PricePoint, []models.VolumePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []barRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no rows in %s", path)
	}

	prices := make([]models.PricePoint, 0, len(rows))
	volumes := make([]models.VolumePoint, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("bad date %q in %s: %w", row.Date, path, err)
		}
		prices = append(prices, models.PricePoint{
			Date:     date,
			Open:     row.Open,
			High:     row.High,
			Low:      row.Low,
			Close:    row.Close,
			AdjClose: row.AdjClose,
		})
		volumes = append(volumes, models.VolumePoint{Date: date, Volume: row.Volume})
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Date.Before(volumes[j].Date) })

	return prices, volumes, nil
}

// newImportCmd creates the import command.
func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import SYMBOL FILE",
		Short: "Import daily bars from a CSV file into the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			prices, volumes, err := loadBarsCSV(args[1])
			if err != nil {
				return err
			}
			if err := app.Store.SaveBars(cmd.Context(), symbol, prices, volumes); err != nil {
				return err
			}

			out.Success("Imported %d bars for %s (%s to %s)", len(prices), symbol,
				prices[0].Date.Format("2006-01-02"),
				prices[len(prices)-1].Date.Format("2006-01-02"))
			return nil
		},
	}
}

// newHistoryCmd creates the history command.
func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [SYMBOL]",
		Short: "List stored analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd)

			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			filter := store.AnalysisFilter{}
			if len(args) == 1 {
				filter.Symbol = strings.ToUpper(args[0])
			}
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			records, err := app.Store.GetAnalyses(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if out.IsJSON() {
				return out.JSON(records)
			}
			if len(records) == 0 {
				out.Info("No stored analyses")
				return nil
			}

			out.Heading("%-10s %-12s %-10s %-12s %s", "SYMBOL", "DATE", "TREND", "SIGNAL", "STRENGTH")
			for _, rec := range records {
				out.Printf("%-10s %-12s %-10s %-12s %.2f\n",
					rec.Symbol, rec.AnalysisDate.Format("2006-01-02"),
					rec.Trend, rec.Signal, rec.Strength)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of records to list")
	return cmd
}
