package server

import (
	"sync"
	"time"

	"github.com/kylerisse/uptui/pkg/probe"
)

// Store holds the rows of the latest probe cycle.
// It is safe for concurrent use: the refresh loop publishes, handlers read.
type Store struct {
	mu         sync.RWMutex
	rows       []probe.Result
	lastUpdate time.Time
	cycles     uint64
}

// NewStore creates a Store holding the given placeholder rows.
func NewStore(initial []probe.Result) *Store {
	s := &Store{}
	s.rows = append(s.rows, initial...)
	return s
}

// Publish replaces the stored rows with those of a finished cycle.
func (s *Store) Publish(rows []probe.Result) {
	s.PublishAt(rows, time.Now())
}

// PublishAt is Publish with an explicit cycle time.
func (s *Store) PublishAt(rows []probe.Result, at time.Time) {
	cp := make([]probe.Result, len(rows))
	copy(cp, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cp
	s.lastUpdate = at
	s.cycles++
}

// Snapshot returns a point-in-time copy of the store.
// This is useful for building API responses without holding the lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]probe.Result, len(s.rows))
	copy(rows, s.rows)

	return Snapshot{
		Rows:       rows,
		LastUpdate: s.lastUpdate,
		Cycles:     s.cycles,
	}
}

// Snapshot is a point-in-time copy of Store fields.
type Snapshot struct {
	Rows []probe.Result

	// LastUpdate is when the last cycle was published. Zero before the first.
	LastUpdate time.Time

	// Cycles counts published cycles.
	Cycles uint64
}
