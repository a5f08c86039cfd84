package usecase

import (
	"context"
	"fmt"
	"time"

	"PortfolioPulse/internal/baseline"
	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/internal/domain/repository"
	"PortfolioPulse/internal/normalize"
	"PortfolioPulse/pkg/logger"
)

// Refresher produces one fully normalized dataset per call.
type Refresher interface {
	Refresh(ctx context.Context, model string, tradesLimit int) (*models.Dataset, error)
}

// Gateway fans one refresh cycle out to the four backend feeds concurrently
// and joins the results. A cycle is all-or-nothing: any feed failure aborts
// the cycle and the partial results are discarded.
type Gateway struct {
	feed    repository.Feed
	metrics repository.Metrics
	log     *logger.Logger
}

func NewGateway(feed repository.Feed, metrics repository.Metrics, log *logger.Logger) *Gateway {
	return &Gateway{feed: feed, metrics: metrics, log: log}
}

// Refresh fetches performance, signals, trades, and positions in parallel,
// normalizes them, and assembles the dataset. The first feed error cancels
// the remaining fetches.
func (g *Gateway) Refresh(ctx context.Context, model string, tradesLimit int) (*models.Dataset, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		perf      *models.RawPerformance
		signals   []models.RawRecord
		trades    []models.RawRecord
		positions []models.RawRecord
	)

	errc := make(chan error, 4)
	fetch := func(name string, fn func(context.Context) error) {
		go func() {
			start := time.Now()
			err := fn(ctx)
			g.metrics.RecordFeedLatency(name, time.Since(start).Seconds())
			if err != nil {
				g.metrics.RecordError("feed_" + name)
				errc <- fmt.Errorf("%s feed: %w", name, err)
				return
			}
			errc <- nil
		}()
	}

	fetch("performance", func(ctx context.Context) error {
		var err error
		perf, err = g.feed.Performance(ctx)
		return err
	})
	fetch("signals", func(ctx context.Context) error {
		var err error
		signals, err = g.feed.Signals(ctx, model)
		return err
	})
	fetch("trades", func(ctx context.Context) error {
		var err error
		trades, err = g.feed.Trades(ctx, tradesLimit)
		return err
	})
	fetch("positions", func(ctx context.Context) error {
		var err error
		positions, err = g.feed.Positions(ctx)
		return err
	})

	var firstErr error
	for i := 0; i < 4; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	if firstErr != nil {
		g.log.Debug("refresh aborted", logger.String("model", model), logger.Error(firstErr))
		return nil, firstErr
	}

	ds := &models.Dataset{
		Performance: normalize.Metrics(perf.Metrics, baseline.Metrics()),
		EquityCurve: normalize.EquityCurve(perf.Curve()),
		Positions:   normalize.Positions(positions),
		Trades:      normalize.Trades(trades),
		Signals:     normalize.Signals(signals),
	}
	return ds, nil
}
