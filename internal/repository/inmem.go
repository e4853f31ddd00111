package repository

import (
	"sync"

	"biasbuster-backend/internal/domain"
)

// InMemorySnapshotRepository holds the latest published cycle output. The
// engine replaces the whole document once per cycle; readers (HTTP,
// websocket) get a shallow copy.
type InMemorySnapshotRepository struct {
	doc domain.SnapshotDocument
	mu  sync.RWMutex
}

func NewInMemorySnapshotRepository() *InMemorySnapshotRepository {
	return &InMemorySnapshotRepository{}
}

func (r *InMemorySnapshotRepository) Save(doc domain.SnapshotDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
}

func (r *InMemorySnapshotRepository) Latest() domain.SnapshotDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.doc
	out.Data = make([]domain.InstrumentSnapshot, len(r.doc.Data))
	copy(out.Data, r.doc.Data)
	return out
}
