// Package memory implements the ability to read and write period records
// in memory. It exists for tests and ephemeral runs.
package memory

import (
	"sort"
	"sync"

	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// Memory represents the serialization implementation for reading and storing
// period records in memory. This implements the database.Serializer
// interface.
type Memory struct {
	mu      sync.RWMutex
	periods map[period.ID]period.Record
	ckpt    database.Checkpoint
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{
		periods: make(map[period.ID]period.Record),
	}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified record and stores it in memory.
func (m *Memory) Write(rec period.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.periods[rec.ID] = rec.Clone()

	return nil
}

// GetPeriod locates and returns the record for the specified period id.
func (m *Memory) GetPeriod(id period.ID) (period.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.periods[id]
	if !exists {
		return period.Record{}, period.ErrNotFound
	}

	return rec.Clone(), nil
}

// ForEach returns an iterator to walk through all the records in period
// id order.
func (m *Memory) ForEach() database.Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]period.ID, 0, len(m.periods))
	for id := range m.periods {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &memoryIterator{storage: m, ids: ids}
}

// WriteCheckpoint stores the ingest checkpoint in memory.
func (m *Memory) WriteCheckpoint(ckpt database.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ckpt = ckpt

	return nil
}

// ReadCheckpoint returns the stored ingest checkpoint.
func (m *Memory) ReadCheckpoint() (database.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ckpt, nil
}

// Reset will clear out all records and the checkpoint.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.periods = make(map[period.ID]period.Record)
	m.ckpt = database.Checkpoint{}

	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking through
// and reading records in memory. This implements the database Iterator
// interface.
type memoryIterator struct {
	storage *Memory     // Access to the memory storage API.
	ids     []period.ID // Period ids present when iteration started.
	current int         // Index of the next id to read.
	eoc     bool        // Represents the iterator is at the end.
}

// Next retrieves the next record from memory.
func (mi *memoryIterator) Next() (period.Record, error) {
	if mi.current >= len(mi.ids) {
		mi.eoc = true
		return period.Record{}, period.ErrNotFound
	}

	rec, err := mi.storage.GetPeriod(mi.ids[mi.current])
	mi.current++

	return rec, err
}

// Done returns the end of records value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
