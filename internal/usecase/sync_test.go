package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"PortfolioPulse/internal/baseline"
	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/internal/store"
	"PortfolioPulse/pkg/cache"
	"PortfolioPulse/pkg/logger"
)

type refreshFunc func(ctx context.Context, model string, limit int) (*models.Dataset, error)

type fakeRefresher struct {
	mu sync.Mutex
	fn refreshFunc
}

func (f *fakeRefresher) Refresh(ctx context.Context, model string, limit int) (*models.Dataset, error) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	return fn(ctx, model, limit)
}

func (f *fakeRefresher) set(fn refreshFunc) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
}

func failing(err error) refreshFunc {
	return func(ctx context.Context, model string, limit int) (*models.Dataset, error) {
		return nil, err
	}
}

func succeeding(value float64) refreshFunc {
	return func(ctx context.Context, model string, limit int) (*models.Dataset, error) {
		ds := baseline.Dataset(model)
		ds.Performance.PortfolioValue = value
		return &ds, nil
	}
}

func testOptions() SyncOptions {
	return SyncOptions{
		DefaultModel:     "tech",
		Models:           []string{"tech", "energy"},
		LiveInterval:     5 * time.Minute,
		FallbackInterval: 15 * time.Minute,
		TradesLimit:      50,
		CacheTTL:         time.Hour,
	}
}

func newTestSync(ref Refresher, cacheSvc cache.Service) (*Sync, *store.SnapshotStore, *stubMetrics) {
	st := store.New()
	m := newStubMetrics()
	s := NewSync(ref, st, cacheSvc, nil, m, logger.Nop(), testOptions())
	return s, st, m
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStartCommitsFallbackImmediately(t *testing.T) {
	ref := &fakeRefresher{fn: failing(errors.New("backend down"))}
	s, st, _ := newTestSync(ref, nil)

	s.Start(context.Background())
	defer s.Stop()

	snap := st.Snapshot()
	if snap.Source != models.SourceFallback {
		t.Fatalf("initial source = %s, want FALLBACK", snap.Source)
	}
	if snap.Model != "tech" {
		t.Errorf("initial model = %q, want tech", snap.Model)
	}
	want := baseline.Dataset("tech")
	if snap.Performance.PortfolioValue != want.Performance.PortfolioValue {
		t.Errorf("initial dataset is not the baseline: value = %v", snap.Performance.PortfolioValue)
	}
	if len(snap.Positions) != len(want.Positions) {
		t.Errorf("initial positions = %d, want %d", len(snap.Positions), len(want.Positions))
	}
}

func TestTransitionToLiveOnSuccess(t *testing.T) {
	ref := &fakeRefresher{fn: succeeding(120000)}
	s, st, _ := newTestSync(ref, nil)

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return st.Snapshot().Source == models.SourceLive },
		"store never transitioned to LIVE")
	snap := st.Snapshot()
	if snap.Performance.PortfolioValue != 120000 {
		t.Errorf("live dataset value = %v, want 120000", snap.Performance.PortfolioValue)
	}
	if s.State() != models.SourceLive {
		t.Errorf("State() = %s, want LIVE", s.State())
	}
}

func TestFallbackOnFailureRecoversBaseline(t *testing.T) {
	ref := &fakeRefresher{fn: succeeding(120000)}
	s, st, m := newTestSync(ref, nil)

	ctx := context.Background()
	s.refreshOnce(ctx)
	if st.Snapshot().Source != models.SourceLive {
		t.Fatal("expected LIVE after successful cycle")
	}

	ref.set(failing(errors.New("backend down")))
	s.refreshOnce(ctx)

	snap := st.Snapshot()
	if snap.Source != models.SourceFallback {
		t.Fatalf("source = %s after failed cycle, want FALLBACK", snap.Source)
	}
	want := baseline.Dataset("tech")
	if snap.Performance.PortfolioValue != want.Performance.PortfolioValue {
		t.Errorf("fallback value = %v, want baseline %v",
			snap.Performance.PortfolioValue, want.Performance.PortfolioValue)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.cycles) != 2 || m.cycles[0] != "success" || m.cycles[1] != "failure" {
		t.Errorf("recorded cycles = %v, want [success failure]", m.cycles)
	}
}

func TestFallbackPrefersCachedDataset(t *testing.T) {
	mem := cache.NewMemoryCache()
	defer mem.Close()

	ref := &fakeRefresher{fn: succeeding(120000)}
	s, st, _ := newTestSync(ref, mem)

	ctx := context.Background()
	s.refreshOnce(ctx)

	ref.set(failing(errors.New("backend down")))
	s.refreshOnce(ctx)

	snap := st.Snapshot()
	if snap.Source != models.SourceFallback {
		t.Fatalf("source = %s, want FALLBACK", snap.Source)
	}
	if snap.Performance.PortfolioValue != 120000 {
		t.Errorf("fallback served value %v, want cached last-known-good 120000",
			snap.Performance.PortfolioValue)
	}
}

func TestIntervalFollowsState(t *testing.T) {
	ref := &fakeRefresher{fn: failing(errors.New("down"))}
	s, _, _ := newTestSync(ref, nil)

	if got := s.nextInterval(); got != 15*time.Minute {
		t.Errorf("fallback interval = %v, want 15m", got)
	}

	ref.set(succeeding(120000))
	s.refreshOnce(context.Background())
	if got := s.nextInterval(); got != 5*time.Minute {
		t.Errorf("live interval = %v, want 5m", got)
	}

	ref.set(failing(errors.New("down")))
	s.refreshOnce(context.Background())
	if got := s.nextInterval(); got != 15*time.Minute {
		t.Errorf("interval after failure = %v, want 15m", got)
	}
}

func TestSelectModelUnknownRejected(t *testing.T) {
	ref := &fakeRefresher{fn: succeeding(120000)}
	s, _, _ := newTestSync(ref, nil)

	err := s.SelectModel(context.Background(), "crypto")
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("error = %v, want ErrUnknownModel", err)
	}
}

func TestSelectModelSwitchesAndRefreshes(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	ref := &fakeRefresher{}
	ref.set(func(ctx context.Context, model string, limit int) (*models.Dataset, error) {
		mu.Lock()
		seen = append(seen, model)
		mu.Unlock()
		ds := baseline.Dataset(model)
		return &ds, nil
	})
	s, st, _ := newTestSync(ref, nil)

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return st.Snapshot().Source == models.SourceLive },
		"never went LIVE for default model")

	if err := s.SelectModel(context.Background(), "energy"); err != nil {
		t.Fatalf("SelectModel() error: %v", err)
	}

	waitFor(t, func() bool {
		snap := st.Snapshot()
		return snap.Model == "energy" && snap.Source == models.SourceLive
	}, "never went LIVE for selected model")

	mu.Lock()
	defer mu.Unlock()
	if seen[len(seen)-1] != "energy" {
		t.Errorf("last refresh fetched %q, want energy", seen[len(seen)-1])
	}
}

func TestStaleCycleDiscardedAfterModelSwitch(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	ref := &fakeRefresher{}
	ref.set(func(ctx context.Context, model string, limit int) (*models.Dataset, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			// First cycle stalls past the model switch, then completes
			// successfully. Its commit must be discarded.
			<-release
			ds := baseline.Dataset(model)
			ds.Performance.PortfolioValue = 999999
			return &ds, nil
		}
		return nil, errors.New("backend down")
	})
	s, st, m := newTestSync(ref, nil)

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, "first cycle never started")

	done := make(chan error, 1)
	go func() { done <- s.SelectModel(context.Background(), "energy") }()

	// Give the switch time to bump the generation, then let the stale
	// cycle finish.
	waitFor(t, func() bool { return st.Snapshot().Model == "energy" },
		"switch never committed the fallback snapshot")
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("SelectModel() error: %v", err)
	}

	waitFor(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, c := range m.cycles {
			if c == "stale" {
				return true
			}
		}
		return false
	}, "stale cycle was not discarded")

	snap := st.Snapshot()
	if snap.Model != "energy" {
		t.Fatalf("model = %q, want energy", snap.Model)
	}
	if snap.Performance.PortfolioValue == 999999 {
		t.Fatal("stale cycle data leaked into the store")
	}
}

func TestSelectModelSameModelNoop(t *testing.T) {
	ref := &fakeRefresher{fn: succeeding(120000)}
	s, _, _ := newTestSync(ref, nil)
	s.Start(context.Background())
	defer s.Stop()

	if err := s.SelectModel(context.Background(), "tech"); err != nil {
		t.Fatalf("SelectModel(same) error: %v", err)
	}
	if s.Model() != "tech" {
		t.Errorf("model = %q, want tech", s.Model())
	}
}
