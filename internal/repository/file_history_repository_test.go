package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"biasbuster-backend/internal/domain"
)

func writeJunk(path string) error {
	return os.WriteFile(path, []byte("{not json"), 0o644)
}

func historyEvent(instrument string, kind domain.EventKind, price float64) domain.HistoryEvent {
	return domain.HistoryEvent{
		Instrument: instrument,
		Event:      kind,
		Price:      price,
		Time:       time.Now().UTC(),
		Category:   domain.CategoryForex,
		Direction:  domain.DirectionBuy,
	}
}

func TestHistoryAppendAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileHistoryRepository(path, 100)

	repo.Append(historyEvent("Gold", domain.EventEntry, 100))
	repo.Append(historyEvent("Gold", domain.EventTP1Hit, 107.5))
	repo.Append(historyEvent("Gold", domain.EventTP3Hit, 125))

	recent := repo.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(recent))
	}
	// Newest first
	if recent[0].Event != domain.EventTP3Hit || recent[1].Event != domain.EventTP1Hit {
		t.Errorf("Unexpected order: %s, %s", recent[0].Event, recent[1].Event)
	}

	// Persistence across reload
	reloaded := NewFileHistoryRepository(path, 100)
	if got := reloaded.Recent(0); len(got) != 3 {
		t.Errorf("Expected 3 events after reload, got %d", len(got))
	}
}

func TestHistoryCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileHistoryRepository(path, 5)

	for i := 0; i < 8; i++ {
		repo.Append(historyEvent("Gold", domain.EventEntry, float64(i)))
	}

	recent := repo.Recent(0)
	if len(recent) != 5 {
		t.Fatalf("Expected cap of 5, got %d", len(recent))
	}
	// The oldest three were dropped; newest first means prices 7..3
	if recent[0].Price != 7 || recent[4].Price != 3 {
		t.Errorf("Unexpected window: first %f last %f", recent[0].Price, recent[4].Price)
	}
}

func TestHistoryCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := NewFileHistoryRepository(path, 10)
	repo.Append(historyEvent("Gold", domain.EventEntry, 1))

	// Overwrite with junk and reload
	if err := writeJunk(path); err != nil {
		t.Fatal(err)
	}
	reloaded := NewFileHistoryRepository(path, 10)
	if len(reloaded.Recent(0)) != 0 {
		t.Error("Corrupt history should start fresh")
	}
}
