package repository

import (
	"context"

	"PortfolioPulse/internal/domain/models"
)

// NoopRecorder discards refresh history. Used when history.backend is "none".
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) Init(context.Context) error { return nil }

func (*NoopRecorder) RecordCycle(context.Context, *models.Snapshot) error { return nil }

func (*NoopRecorder) Close() error { return nil }
