// Package database handles the lower level support for maintaining the
// period records on disk and in an in-memory index.
package database

import (
	"math/big"
	"sort"
	"sync"

	"github.com/poolsight/poolsight/foundation/indexer/genesis"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// Serializer interface represents the behavior required to be implemented by
// any package providing support for storing and reading period records.
type Serializer interface {
	Write(rec period.Record) error
	GetPeriod(id period.ID) (period.Record, error)
	ForEach() Iterator
	WriteCheckpoint(ckpt Checkpoint) error
	ReadCheckpoint() (Checkpoint, error)
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored records.
type Iterator interface {
	Next() (period.Record, error)
	Done() bool
}

// Checkpoint marks the last chain position the indexer fully processed.
// Restarts resume from here instead of re-reading the whole chain.
type Checkpoint struct {
	BlockNumber uint64 `json:"block_number"`
	LogIndex    uint   `json:"log_index"`
}

// =============================================================================

// Database manages the set of period records and the ingest checkpoint.
type Database struct {
	mu sync.RWMutex

	genesis    genesis.Genesis
	periods    map[period.ID]period.Record
	active     period.ID
	hasActive  bool
	checkpoint Checkpoint

	serializer Serializer
}

// New constructs a new database and replays any records the serializer has
// persisted. The period with the highest id becomes the active one, matching
// the pool contract which only ever accumulates into its latest draw.
func New(genesis genesis.Genesis, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis:    genesis,
		periods:    make(map[period.ID]period.Record),
		serializer: serializer,
	}

	iter := serializer.ForEach()
	for rec, err := iter.Next(); !iter.Done(); rec, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		db.periods[rec.ID] = rec
		if !db.hasActive || rec.ID > db.active {
			db.active = rec.ID
			db.hasActive = true
		}
		evHandler("database: replayed period %d", rec.ID)
	}

	ckpt, err := serializer.ReadCheckpoint()
	if err != nil {
		return nil, err
	}
	db.checkpoint = ckpt

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() {
	db.serializer.Close()
}

// Reset clears the database on disk and in memory back to an empty index.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.serializer.Reset(); err != nil {
		return err
	}

	db.periods = make(map[period.ID]period.Record)
	db.hasActive = false
	db.active = 0
	db.checkpoint = Checkpoint{}

	return nil
}

// OpenPeriod creates the record for a period that just opened and makes it
// the active period. Opening the same period twice is rejected.
func (db *Database) OpenPeriod(rec period.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.periods[rec.ID]; exists {
		return period.ErrDuplicatePeriod
	}

	if err := db.serializer.Write(rec); err != nil {
		return err
	}

	db.periods[rec.ID] = rec.Clone()
	db.active = rec.ID
	db.hasActive = true

	return nil
}

// ApplyDeposit folds a deposit into the active period and persists the
// updated record.
func (db *Database) ApplyDeposit(amount *big.Int) (period.Record, error) {
	return db.apply(amount, (*period.Record).ApplyDeposit)
}

// ApplyWithdrawal folds a withdrawal into the active period and persists the
// updated record.
func (db *Database) ApplyWithdrawal(amount *big.Int) (period.Record, error) {
	return db.apply(amount, (*period.Record).ApplyWithdrawal)
}

func (db *Database) apply(amount *big.Int, fold func(*period.Record, *big.Int) error) (period.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !db.hasActive {
		return period.Record{}, period.ErrNoActivePeriod
	}

	rec := db.periods[db.active].Clone()
	if err := fold(&rec, amount); err != nil {
		return period.Record{}, err
	}

	if err := db.serializer.Write(rec); err != nil {
		return period.Record{}, err
	}

	db.periods[db.active] = rec

	return rec.Clone(), nil
}

// GetPeriod returns a copy of the record for the specified period.
func (db *Database) GetPeriod(id period.ID) (period.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, exists := db.periods[id]
	if !exists {
		return period.Record{}, period.ErrNotFound
	}

	return rec.Clone(), nil
}

// ActivePeriod returns a copy of the record the accumulators currently
// fold into.
func (db *Database) ActivePeriod() (period.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if !db.hasActive {
		return period.Record{}, period.ErrNoActivePeriod
	}

	return db.periods[db.active].Clone(), nil
}

// CopyPeriods makes a copy of all the records ordered by period id.
func (db *Database) CopyPeriods() []period.Record {
	db.mu.RLock()
	defer db.mu.RUnlock()

	recs := make([]period.Record, 0, len(db.periods))
	for _, rec := range db.periods {
		recs = append(recs, rec.Clone())
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].ID < recs[j].ID
	})

	return recs
}

// UpdateCheckpoint provides safe access to update the ingest checkpoint.
// The checkpoint only lives in memory until FlushCheckpoint is called.
func (db *Database) UpdateCheckpoint(ckpt Checkpoint) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.checkpoint = ckpt
}

// Checkpoint returns the current ingest checkpoint.
func (db *Database) Checkpoint() Checkpoint {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.checkpoint
}

// FlushCheckpoint persists the current checkpoint.
func (db *Database) FlushCheckpoint() error {
	db.mu.RLock()
	ckpt := db.checkpoint
	db.mu.RUnlock()

	return db.serializer.WriteCheckpoint(ckpt)
}
