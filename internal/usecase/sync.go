package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PortfolioPulse/internal/baseline"
	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/internal/domain/repository"
	"PortfolioPulse/internal/store"
	"PortfolioPulse/pkg/cache"
	"PortfolioPulse/pkg/logger"
)

// ErrUnknownModel is returned when a model switch names a model outside the
// configured set.
var ErrUnknownModel = errors.New("unknown model")

// SyncOptions configures the refresh loop.
type SyncOptions struct {
	DefaultModel     string
	Models           []string
	LiveInterval     time.Duration
	FallbackInterval time.Duration
	TradesLimit      int
	CacheTTL         time.Duration
}

// Sync drives the refresh loop and owns the live/fallback state machine.
//
// The store starts in FALLBACK with a baseline dataset, flips to LIVE after
// the first full cycle succeeds, and drops back to FALLBACK when a cycle
// fails. Fallback data prefers the last successfully fetched dataset for the
// model (cached) over the static baseline.
type Sync struct {
	refresher Refresher
	store     *store.SnapshotStore
	cache     cache.Service // optional
	recorder  repository.Recorder
	metrics   repository.Metrics
	log       *logger.Logger
	opts      SyncOptions

	mu     sync.Mutex
	model  string
	state  models.SourceState
	gen    uint64
	poller *Poller
	runCtx context.Context
}

func NewSync(
	refresher Refresher,
	snapStore *store.SnapshotStore,
	cacheSvc cache.Service,
	recorder repository.Recorder,
	metrics repository.Metrics,
	log *logger.Logger,
	opts SyncOptions,
) *Sync {
	return &Sync{
		refresher: refresher,
		store:     snapStore,
		cache:     cacheSvc,
		recorder:  recorder,
		metrics:   metrics,
		log:       log,
		opts:      opts,
		model:     opts.DefaultModel,
		state:     models.SourceFallback,
		poller:    NewPoller(),
	}
}

// Start commits an immediate fallback snapshot so readers never see an empty
// store, then launches the poll loop. The first live fetch fires right away.
func (s *Sync) Start(ctx context.Context) {
	s.mu.Lock()
	s.runCtx = ctx
	model, gen := s.model, s.gen
	s.mu.Unlock()

	s.commitFallback(ctx, model, gen)
	s.poller.Start(ctx, s.refreshOnce, s.nextInterval)
}

// Stop halts the poll loop and waits for an in-flight cycle to finish.
func (s *Sync) Stop() {
	s.poller.Stop()
}

// Model returns the currently selected model.
func (s *Sync) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// State returns the current source state.
func (s *Sync) State() models.SourceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Models returns the configured model set.
func (s *Sync) Models() []string {
	return append([]string(nil), s.opts.Models...)
}

// SelectModel switches the active model. The generation bump invalidates any
// in-flight cycle for the old model, a fallback snapshot for the new model is
// committed immediately, and the loop restarts so the live fetch happens now.
func (s *Sync) SelectModel(ctx context.Context, model string) error {
	if !s.knownModel(model) {
		return fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	s.mu.Lock()
	if model == s.model {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	s.model = model
	s.state = models.SourceFallback
	gen := s.gen
	runCtx := s.runCtx
	s.mu.Unlock()

	s.log.Info("model switched", logger.String("model", model))
	s.commitFallback(ctx, model, gen)

	// Restart outside the lock: Stop waits for the in-flight cycle, and that
	// cycle needs the lock to (fail to) commit. The loop runs on the context
	// captured at Start, not the caller's.
	if runCtx != nil {
		s.poller.Stop()
		s.poller.Start(runCtx, s.refreshOnce, s.nextInterval)
	}
	return nil
}

func (s *Sync) knownModel(model string) bool {
	for _, m := range s.opts.Models {
		if m == model {
			return true
		}
	}
	return false
}

// nextInterval implements the per-state poll cadence.
func (s *Sync) nextInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.SourceLive {
		return s.opts.LiveInterval
	}
	return s.opts.FallbackInterval
}

// refreshOnce runs one full cycle: fetch all feeds, commit LIVE on success,
// commit fallback data on failure.
func (s *Sync) refreshOnce(ctx context.Context) {
	s.mu.Lock()
	model, gen := s.model, s.gen
	s.mu.Unlock()

	start := time.Now()
	ds, err := s.refresher.Refresh(ctx, model, s.opts.TradesLimit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("refresh cycle failed, serving fallback data",
			logger.String("model", model),
			logger.Error(err))
		s.metrics.RecordCycle("failure")
		s.commitFallback(ctx, model, gen)
		return
	}

	snap := models.Snapshot{
		Dataset:   *ds,
		Model:     model,
		Source:    models.SourceLive,
		UpdatedAt: time.Now().UTC(),
	}
	if !s.commit(gen, snap) {
		s.log.Debug("discarding stale cycle", logger.String("model", model))
		s.metrics.RecordCycle("stale")
		return
	}

	s.metrics.RecordCycle("success")
	s.metrics.SetLastRefresh(snap.UpdatedAt)
	s.log.Info("refresh cycle committed",
		logger.String("model", model),
		logger.Duration("took", time.Since(start)),
		logger.Int("positions", len(ds.Positions)),
		logger.Int("trades", len(ds.Trades)),
		logger.Int("signals", len(ds.Signals)))

	s.cacheDataset(ctx, model, ds)
	s.record(ctx, &snap)
}

// commitFallback installs the best available fallback dataset for model:
// the cached last-known-good dataset if present, the static baseline
// otherwise.
func (s *Sync) commitFallback(ctx context.Context, model string, gen uint64) {
	snap := models.Snapshot{
		Dataset:   s.fallbackDataset(ctx, model),
		Model:     model,
		Source:    models.SourceFallback,
		UpdatedAt: time.Now().UTC(),
	}
	if s.commit(gen, snap) {
		s.record(ctx, &snap)
	}
}

// commit installs snap unless the cycle that produced it has been superseded
// by a model switch.
func (s *Sync) commit(gen uint64, snap models.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.state = snap.Source
	s.metrics.SetSourceLive(snap.Source == models.SourceLive)
	s.store.Replace(snap)
	return true
}

func (s *Sync) fallbackDataset(ctx context.Context, model string) models.Dataset {
	if s.cache != nil {
		var ds models.Dataset
		err := s.cache.Get(ctx, datasetKey(model), &ds)
		if err == nil {
			s.log.Debug("serving cached dataset", logger.String("model", model))
			return ds
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache read failed", logger.Error(err))
		}
	}
	return baseline.Dataset(model)
}

func (s *Sync) cacheDataset(ctx context.Context, model string, ds *models.Dataset) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, datasetKey(model), ds, s.opts.CacheTTL); err != nil {
		s.log.Warn("cache write failed", logger.Error(err))
	}
}

func (s *Sync) record(ctx context.Context, snap *models.Snapshot) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordCycle(ctx, snap); err != nil {
		s.metrics.RecordError("recorder")
		s.log.Warn("history record failed", logger.Error(err))
	}
}

func datasetKey(model string) string {
	return "dataset:" + model
}
