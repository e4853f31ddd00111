package domain

// PositionStore owns the active-position set. Implementations persist after
// every mutation so a restart never loses an in-flight position.
type PositionStore interface {
	Get(instrument string) *Position
	Set(instrument string, pos *Position) error
	Delete(instrument string) error
	All() map[string]*Position
	Count() int
}

// HistoryRepository is the append-only lifecycle event log, bounded to the
// most recent events.
type HistoryRepository interface {
	Append(event HistoryEvent) error
	Recent(limit int) []HistoryEvent
}

// SnapshotRepository holds the latest published cycle output.
type SnapshotRepository interface {
	Save(doc SnapshotDocument)
	Latest() SnapshotDocument
}
