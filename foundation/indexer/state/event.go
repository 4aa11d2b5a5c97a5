package state

import (
	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/period"
	"github.com/poolsight/poolsight/foundation/indexer/source"
)

// ProcessEvent folds one chain event into the period index. The worker
// calls this from a single goroutine in the order events are observed on
// the source chain. The checkpoint is not touched here: only the ingest
// worker may advance it, and only for events that came off the feed.
func (s *State) ProcessEvent(evt source.Event) error {
	switch evt.Kind {
	case source.KindOpened:
		return s.OpenPeriod(evt)
	case source.KindDeposited:
		_, err := s.RecordDeposit(evt)
		return err
	case source.KindWithdrawn:
		_, err := s.RecordWithdrawal(evt)
		return err
	default:
		s.evHandler("state: ProcessEvent: unknown event kind %q", evt.Kind)
		return nil
	}
}

// UpdateCheckpoint records the last fully processed chain position. The
// ingest worker calls this after folding a feed event; manually submitted
// events never move the ingest position.
func (s *State) UpdateCheckpoint(ckpt database.Checkpoint) {
	s.db.UpdateCheckpoint(ckpt)
}

// OpenPeriod creates a zero-initialized record for the period that just
// opened and makes it the period deposits and withdrawals fold into.
func (s *State) OpenPeriod(evt source.Event) error {
	s.evHandler("state: OpenPeriod: period %d: block %d", evt.PeriodID, evt.BlockNumber)

	return s.db.OpenPeriod(period.New(evt.PeriodID, evt.BlockNumber, evt.Time))
}

// RecordDeposit folds a deposit event into the active period.
func (s *State) RecordDeposit(evt source.Event) (period.Record, error) {
	s.evHandler("state: RecordDeposit: account %s: amount %v", evt.Account, evt.Amount)

	return s.db.ApplyDeposit(evt.Amount)
}

// RecordWithdrawal folds a withdrawal event into the active period.
func (s *State) RecordWithdrawal(evt source.Event) (period.Record, error) {
	s.evHandler("state: RecordWithdrawal: account %s: amount %v", evt.Account, evt.Amount)

	return s.db.ApplyWithdrawal(evt.Amount)
}
