package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"biasbuster-backend/internal/domain"
)

// FileHistoryRepository is the default lifecycle event log: a JSON file
// capped to the most recent maxEvents records, written atomically.
type FileHistoryRepository struct {
	path      string
	maxEvents int
	events    []domain.HistoryEvent
	mu        sync.RWMutex
}

func NewFileHistoryRepository(path string, maxEvents int) *FileHistoryRepository {
	if maxEvents <= 0 {
		maxEvents = 100
	}
	r := &FileHistoryRepository{path: path, maxEvents: maxEvents}

	b, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(b, &r.events); jsonErr != nil {
			log.Printf("History file %s unreadable, starting fresh: %v", path, jsonErr)
			r.events = nil
		}
	}
	return r
}

// Append adds an event and persists the capped log.
func (r *FileHistoryRepository) Append(event domain.HistoryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if len(r.events) > r.maxEvents {
		r.events = r.events[len(r.events)-r.maxEvents:]
	}
	return r.save()
}

// Recent returns the newest events, newest first.
func (r *FileHistoryRepository) Recent(limit int) []domain.HistoryEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]domain.HistoryEvent, 0, limit)
	for i := len(r.events) - 1; i >= len(r.events)-limit; i-- {
		out = append(out, r.events[i])
	}
	return out
}

func (r *FileHistoryRepository) save() error {
	b, err := json.MarshalIndent(r.events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write temp history file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
