package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// eventStream names the counter shared by answer events and LLM audit
// events. Numbering both logs from one counter lets stats and the audit
// trail be merged into a single timeline.
const eventStream = "events"

var eventSequenceSetup = []string{
	`CREATE TABLE IF NOT EXISTS event_sequence (
		stream TEXT PRIMARY KEY,
		last   INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO event_sequence (stream, last) VALUES ('` + eventStream + `', 0)`,
}

// eventSequence assigns the Sequence column of appended events.
type eventSequence struct {
	db *sql.DB

	// Serializes in-process callers; other processes wait on busy_timeout.
	mu sync.Mutex
}

func openEventSequence(db *sql.DB) (*eventSequence, error) {
	for _, stmt := range eventSequenceSetup {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("prepare event sequence: %w", err)
		}
	}
	return &eventSequence{db: db}, nil
}

// next bumps the counter and returns the new value, starting at 1.
func (s *eventSequence) next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE event_sequence SET last = last + 1 WHERE stream = ? RETURNING last`,
		eventStream,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next event sequence: %w", err)
	}
	return n, nil
}
