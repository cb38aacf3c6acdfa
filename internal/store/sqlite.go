package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "stock-insight/internal/errors"
	"stock-insight/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Bars table for daily OHLCV history
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		adj_close REAL,
		volume INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);

	-- Analyses table for completed analysis runs
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		analysis_date DATETIME NOT NULL,
		trend TEXT NOT NULL,
		signal TEXT NOT NULL,
		strength REAL NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, analysis_date)
	);

	CREATE INDEX IF NOT EXISTS idx_bars_symbol_date ON bars(symbol, date);
	CREATE INDEX IF NOT EXISTS idx_analyses_symbol_date ON analyses(symbol, analysis_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBars upserts daily bars for a symbol in a single transaction. volumes
// may be empty; when present it must pair with prices bar for bar.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, prices []models.PricePoint, volumes []models.VolumePoint) error {
	if len(volumes) > 0 && len(volumes) != len(prices) {
		return apperrors.NewInvalidInputError(symbol, "volume series length does not match price series")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (symbol, date, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range prices {
		var volume int64
		if len(volumes) > 0 {
			volume = volumes[i].Volume
		}
		if _, err := stmt.ExecContext(ctx, symbol, p.Date, p.Open, p.High, p.Low, p.Close, p.AdjClose, volume); err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	return tx.Commit()
}

// GetBars returns the stored bars for a symbol in ascending date order. Zero
// from/to values leave that bound open.
func (s *SQLiteStore) GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, []models.VolumePoint, error) {
	query := `
		SELECT date, open, high, low, close, adj_close, volume
		FROM bars
		WHERE symbol = ?
	`
	args := []interface{}{symbol}
	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var prices []models.PricePoint
	var volumes []models.VolumePoint
	for rows.Next() {
		var p models.PricePoint
		var adjClose sql.NullFloat64
		var volume int64
		if err := rows.Scan(&p.Date, &p.Open, &p.High, &p.Low, &p.Close, &adjClose, &volume); err != nil {
			return nil, nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		if adjClose.Valid {
			p.AdjClose = adjClose.Float64
		}
		prices = append(prices, p)
		volumes = append(volumes, models.VolumePoint{Date: p.Date, Volume: volume})
	}

	return prices, volumes, rows.Err()
}

// GetBarsFreshness returns the date of the newest stored bar for a symbol,
// or ErrDataNotFound when none exist.
func (s *SQLiteStore) GetBarsFreshness(ctx context.Context, symbol string) (time.Time, error) {
	var latest sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(date) FROM bars WHERE symbol = ?", symbol).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query freshness: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, apperrors.ErrDataNotFound
	}
	return latest.Time, nil
}

// SaveAnalysis upserts an analysis run keyed by symbol and analysis date,
// storing the full result as JSON alongside the headline fields.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses (symbol, analysis_date, trend, signal, strength, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, result.Symbol, result.AnalysisDate, string(result.Trend), string(result.OverallSignal),
		result.SignalStrength, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalyses returns stored analyses matching the filter, newest first.
func (s *SQLiteStore) GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error) {
	query := `
		SELECT symbol, analysis_date, trend, signal, strength, payload, created_at
		FROM analyses
		WHERE 1=1
	`
	var args []interface{}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND analysis_date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND analysis_date <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY analysis_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var trend, signal, payload string
		if err := rows.Scan(&rec.Symbol, &rec.AnalysisDate, &trend, &signal, &rec.Strength, &payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		rec.Trend = models.TrendDirection(trend)
		rec.Signal = models.SignalType(signal)

		var result models.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis payload: %w", err)
		}
		rec.Result = &result

		records = append(records, rec)
	}

	return records, rows.Err()
}
