// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"stock-insight/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Bars
	SaveBars(ctx context.Context, symbol string, prices []models.PricePoint, volumes []models.VolumePoint) error
	GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, []models.VolumePoint, error)
	GetBarsFreshness(ctx context.Context, symbol string) (time.Time, error)

	// Analyses
	SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error
	GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error)

	// Lifecycle
	Close() error
}

// AnalysisFilter represents filters for querying stored analyses.
type AnalysisFilter struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// AnalysisRecord is one stored analysis run: the headline fields plus the
// full result payload.
type AnalysisRecord struct {
	Symbol       string
	AnalysisDate time.Time
	Trend        models.TrendDirection
	Signal       models.SignalType
	Strength     float64
	Result       *models.AnalysisResult
	CreatedAt    time.Time
}
