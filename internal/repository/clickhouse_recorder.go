package repository

import (
	"context"
	"fmt"

	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/pkg/clickhouse"
	"PortfolioPulse/pkg/logger"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS refresh_cycles (
		ts              DateTime64(3, 'UTC'),
		model           LowCardinality(String),
		source          LowCardinality(String),
		portfolio_value Float64,
		daily_pnl       Float64,
		win_rate        Float64,
		sharpe_ratio    Float64,
		open_positions  UInt32,
		trade_count     UInt32,
		signal_count    UInt32
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (model, ts)`,

	`CREATE TABLE IF NOT EXISTS equity_curve (
		ts    DateTime64(3, 'UTC'),
		model LowCardinality(String),
		label String,
		value Float64
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (model, ts)`,
}

// ClickHouseRecorder appends one row per committed cycle plus the full equity
// curve, giving the dashboard a queryable refresh history.
type ClickHouseRecorder struct {
	client *clickhouse.Client
	log    *logger.Logger
}

func NewClickHouseRecorder(client *clickhouse.Client, log *logger.Logger) *ClickHouseRecorder {
	return &ClickHouseRecorder{client: client, log: log}
}

// Init creates the history tables if they do not exist.
func (r *ClickHouseRecorder) Init(ctx context.Context) error {
	return r.client.InitSchema(ctx, schemaStatements)
}

func (r *ClickHouseRecorder) RecordCycle(ctx context.Context, snap *models.Snapshot) error {
	db := r.client.DB()

	_, err := db.ExecContext(ctx,
		`INSERT INTO refresh_cycles
		 (ts, model, source, portfolio_value, daily_pnl, win_rate, sharpe_ratio,
		  open_positions, trade_count, signal_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.UpdatedAt,
		snap.Model,
		string(snap.Source),
		snap.Performance.PortfolioValue,
		snap.Performance.DailyPnl,
		snap.Performance.WinRatePct,
		snap.Performance.SharpeRatio,
		uint32(snap.Performance.OpenPositions),
		uint32(len(snap.Trades)),
		uint32(len(snap.Signals)),
	)
	if err != nil {
		return fmt.Errorf("insert refresh cycle: %w", err)
	}

	if len(snap.EquityCurve) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin curve batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO equity_curve (ts, model, label, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare curve batch: %w", err)
	}
	for _, p := range snap.EquityCurve {
		if _, err := stmt.ExecContext(ctx, snap.UpdatedAt, snap.Model, p.Label, p.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append curve point: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit curve batch: %w", err)
	}

	r.log.Debug("cycle recorded",
		logger.String("model", snap.Model),
		logger.Int("curve_points", len(snap.EquityCurve)))
	return nil
}

func (r *ClickHouseRecorder) Close() error {
	return r.client.Close()
}
