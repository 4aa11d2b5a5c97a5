package state

import (
	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/genesis"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrievePeriod returns the record for the specified period.
func (s *State) RetrievePeriod(id period.ID) (period.Record, error) {
	return s.db.GetPeriod(id)
}

// RetrievePeriods returns all period records ordered by period id.
func (s *State) RetrievePeriods() []period.Record {
	return s.db.CopyPeriods()
}

// RetrieveActivePeriod returns the record deposits and withdrawals
// currently fold into.
func (s *State) RetrieveActivePeriod() (period.Record, error) {
	return s.db.ActivePeriod()
}

// RetrieveCheckpoint returns the last processed chain position.
func (s *State) RetrieveCheckpoint() database.Checkpoint {
	return s.db.Checkpoint()
}

// FlushCheckpoint persists the current checkpoint. The worker calls this on
// a timer so a crash loses at most one flush interval of progress.
func (s *State) FlushCheckpoint() error {
	return s.db.FlushCheckpoint()
}
