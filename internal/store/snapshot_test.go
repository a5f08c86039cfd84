package store

import (
	"testing"

	"PortfolioPulse/internal/domain/models"
)

func TestReplaceIsAtomic(t *testing.T) {
	s := New()
	s.Replace(models.Snapshot{
		Dataset: models.Dataset{
			Positions: []models.Position{{Symbol: "AAPL"}},
			Trades:    []models.Trade{{ID: "t-1"}},
		},
		Model:  "tech",
		Source: models.SourceLive,
	})

	got := s.Snapshot()
	if got.Model != "tech" || got.Source != models.SourceLive {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if len(got.Positions) != 1 || len(got.Trades) != 1 {
		t.Fatalf("expected both collections from the same commit")
	}
}

func TestSnapshotCopyIsolation(t *testing.T) {
	s := New()
	s.Replace(models.Snapshot{Dataset: models.Dataset{Positions: []models.Position{{Symbol: "AAPL"}}}})

	got := s.Snapshot()
	got.Positions[0].Symbol = "ZZZ"
	if s.Snapshot().Positions[0].Symbol != "AAPL" {
		t.Fatalf("reader copy mutated the store")
	}
}

func TestSubscribeReceivesCommits(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Replace(models.Snapshot{Model: "energy"})
	got := <-ch
	if got.Model != "energy" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	// further commits must not panic
	s.Replace(models.Snapshot{Model: "tech"})
}
