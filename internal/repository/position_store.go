package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"biasbuster-backend/internal/domain"
)

// FilePositionStore keeps the active-position set in memory and mirrors every
// mutation to a JSON file with an atomic write-temp-then-rename, so the
// dashboard can read the same file while the engine writes it.
type FilePositionStore struct {
	path         string
	snapshotPath string // published snapshot file, used for recovery
	positions    map[string]*domain.Position
	mu           sync.RWMutex
}

// NewFilePositionStore loads the store from disk. When the dedicated file is
// absent or corrupt it falls back to reconstructing the active set from the
// most recent published snapshot.
func NewFilePositionStore(path, snapshotPath string) *FilePositionStore {
	s := &FilePositionStore{
		path:         path,
		snapshotPath: snapshotPath,
		positions:    make(map[string]*domain.Position),
	}
	s.load()
	return s
}

func (s *FilePositionStore) load() {
	b, err := os.ReadFile(s.path)
	if err == nil {
		var positions map[string]*domain.Position
		if jsonErr := json.Unmarshal(b, &positions); jsonErr == nil {
			s.positions = positions
			log.Printf("Loaded %d active positions from %s", len(positions), s.path)
			return
		}
		log.Printf("Position store %s is corrupt, trying snapshot recovery", s.path)
	} else if !os.IsNotExist(err) {
		log.Printf("Failed to read position store %s: %v", s.path, err)
	}

	if s.recoverFromSnapshot() {
		if err := s.save(); err != nil {
			log.Printf("Failed to persist recovered positions: %v", err)
		}
	}
}

// recoverFromSnapshot rebuilds the active set from the last published cycle
// output, which carries the open position per instrument.
func (s *FilePositionStore) recoverFromSnapshot() bool {
	if s.snapshotPath == "" {
		return false
	}
	b, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return false
	}

	var doc domain.SnapshotDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		log.Printf("Snapshot recovery failed, %s unreadable: %v", s.snapshotPath, err)
		return false
	}

	recovered := 0
	for _, inst := range doc.Data {
		if inst.Position != nil {
			s.positions[inst.Instrument] = inst.Position.Clone()
			recovered++
		}
	}
	if recovered > 0 {
		log.Printf("Recovered %d active positions from %s", recovered, s.snapshotPath)
	}
	return recovered > 0
}

// save writes the full set atomically: temp file in the same directory,
// sync, then rename over the destination.
func (s *FilePositionStore) save() error {
	b, err := json.MarshalIndent(s.positions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp position file: %w", err)
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp position file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync temp position file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp position file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace position file: %w", err)
	}
	return nil
}

// Get returns a copy of the open position for an instrument, or nil.
func (s *FilePositionStore) Get(instrument string) *domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions[instrument].Clone()
}

// Set stores the position for an instrument and persists the full set.
func (s *FilePositionStore) Set(instrument string, pos *domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[instrument] = pos.Clone()
	return s.save()
}

// Delete removes the position for an instrument and persists the full set.
func (s *FilePositionStore) Delete(instrument string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[instrument]; !ok {
		return nil
	}
	delete(s.positions, instrument)
	return s.save()
}

// All returns a copy of the active set keyed by instrument name.
func (s *FilePositionStore) All() map[string]*domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*domain.Position, len(s.positions))
	for name, pos := range s.positions {
		out[name] = pos.Clone()
	}
	return out
}

// Count returns the number of open positions.
func (s *FilePositionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}
