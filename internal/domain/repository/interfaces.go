package repository

import (
	"context"
	"time"

	"PortfolioPulse/internal/domain/models"
)

// Feed is the remote trading backend. Each method maps to one HTTP retrieval;
// implementations return raw payloads untouched by normalization.
type Feed interface {
	Performance(ctx context.Context) (*models.RawPerformance, error)
	Signals(ctx context.Context, model string) ([]models.RawRecord, error)
	Trades(ctx context.Context, limit int) ([]models.RawRecord, error)
	Positions(ctx context.Context) ([]models.RawRecord, error)
}

// Recorder persists refresh history to a pluggable backend.
type Recorder interface {
	Init(ctx context.Context) error
	RecordCycle(ctx context.Context, snap *models.Snapshot) error
	Close() error
}

// Metrics records operational telemetry for the sync loop.
type Metrics interface {
	RecordCycle(result string)
	RecordFeedLatency(feed string, seconds float64)
	RecordError(kind string)
	SetSourceLive(live bool)
	SetLastRefresh(ts time.Time)
}
