// Package state is the core API for the indexer and implements all the
// business rules for folding pool contract events into period records.
package state

import (
	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/genesis"
)

// EventHandler defines a function that is called when events occur in the
// processing of indexing the chain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for the ingest and checkpoint workflows.
type Worker interface {
	Shutdown()
	SignalResync()
}

// =============================================================================

// Config represents the configuration required to start the indexer.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Serializer
	EvHandler EventHandler
}

// State manages the indexing of pool contract events into the database.
type State struct {
	genesis   genesis.Genesis
	evHandler EventHandler

	db *database.Database

	Worker Worker
}

// New constructs a new indexer state for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Access the database and replay whatever was persisted before.
	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		db:        db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the indexer.

	return &state, nil
}

// Shutdown cleanly brings the indexer down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer func() {
		s.db.Close()
	}()

	// Stop all chain reading activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	// Persist the last processed position for the next start.
	return s.db.FlushCheckpoint()
}

// Resync asks the worker to re-read the chain from the genesis start block.
// The worker owns the wipe: it tears down the running feed first and then
// calls Truncate, so events buffered from the old feed position can never
// land on the fresh index. Without a worker the wipe happens here.
func (s *State) Resync() error {
	s.evHandler("state: resync: signaled")

	if s.Worker == nil {
		return s.Truncate()
	}

	s.Worker.SignalResync()

	return nil
}

// Truncate wipes the period index and the checkpoint both in memory and in
// the underlying storage.
func (s *State) Truncate() error {
	s.evHandler("state: truncate: started")
	defer s.evHandler("state: truncate: completed")

	return s.db.Reset()
}
