package state_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/database/storage/memory"
	"github.com/poolsight/poolsight/foundation/indexer/genesis"
	"github.com/poolsight/poolsight/foundation/indexer/period"
	"github.com/poolsight/poolsight/foundation/indexer/source"
	"github.com/poolsight/poolsight/foundation/indexer/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

var account = common.HexToAddress("0x6Fe6CF3c8fF57c58d24BfC869668F48BCbDb3BD9")

func newState(t *testing.T) *state.State {
	strg, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create storage: %v", failed, err)
	}

	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			ChainID:      1,
			PoolContract: "0x178969790713A8621dAc55bc0fB1703Ee7C97949",
			TokenSymbol:  "DAI",
			StartBlock:   100,
		},
		Storage: strg,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create the state: %v", failed, err)
	}

	return st
}

func TestProcessEventSequence(t *testing.T) {
	t.Log("Given the need to process a chain event sequence in order.")
	{
		st := newState(t)

		evts := []source.Event{
			{Kind: source.KindOpened, PeriodID: 5, BlockNumber: 101, LogIndex: 0, Time: time.Now().UTC()},
			{Kind: source.KindDeposited, Account: account, Amount: big.NewInt(100), BlockNumber: 102, LogIndex: 1},
			{Kind: source.KindDeposited, Account: account, Amount: big.NewInt(50), BlockNumber: 103, LogIndex: 0},
			{Kind: source.KindWithdrawn, Account: account, Amount: big.NewInt(30), BlockNumber: 104, LogIndex: 2},
		}

		for _, evt := range evts {
			if err := st.ProcessEvent(evt); err != nil {
				t.Fatalf("\t%s\tShould be able to process %s: %v", failed, evt, err)
			}
		}
		t.Logf("\t%s\tShould be able to process the full sequence.", success)

		rec, err := st.RetrievePeriod(5)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve period 5: %v", failed, err)
		}

		if rec.DepositCount != 2 || rec.DepositAmount.Cmp(big.NewInt(150)) != 0 {
			t.Fatalf("\t%s\tShould have 2 deposits totaling 150, got %d/%v.", failed, rec.DepositCount, rec.DepositAmount)
		}
		t.Logf("\t%s\tShould have 2 deposits totaling 150.", success)

		if rec.WithdrawalCount != 1 || rec.WithdrawalAmount.Cmp(big.NewInt(30)) != 0 {
			t.Fatalf("\t%s\tShould have 1 withdrawal totaling 30, got %d/%v.", failed, rec.WithdrawalCount, rec.WithdrawalAmount)
		}
		t.Logf("\t%s\tShould have 1 withdrawal totaling 30.", success)

		if ckpt := st.RetrieveCheckpoint(); ckpt.BlockNumber != 0 || ckpt.LogIndex != 0 {
			t.Fatalf("\t%s\tShould leave the checkpoint alone when processing events, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould leave the checkpoint alone when processing events.", success)

		st.UpdateCheckpoint(database.Checkpoint{BlockNumber: 104, LogIndex: 2})

		if ckpt := st.RetrieveCheckpoint(); ckpt.BlockNumber != 104 || ckpt.LogIndex != 2 {
			t.Fatalf("\t%s\tShould advance the checkpoint only on an explicit update, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould advance the checkpoint only on an explicit update.", success)
	}
}

// Events pushed in through the private API carry whatever block number the
// caller typed. The ingest position must not follow them or the worker
// would skip real chain history on the next restart.
func TestSubmittedEventsLeaveCheckpoint(t *testing.T) {
	t.Log("Given the need to keep the ingest position clear of submitted events.")
	{
		st := newState(t)

		open := source.Event{Kind: source.KindOpened, PeriodID: 7, BlockNumber: 700, Time: time.Now().UTC()}
		if err := st.ProcessEvent(open); err != nil {
			t.Fatalf("\t%s\tShould be able to process a submitted open: %v", failed, err)
		}

		dep := source.Event{Kind: source.KindDeposited, Account: account, Amount: big.NewInt(25), BlockNumber: 9_000_000, LogIndex: 3}
		if err := st.ProcessEvent(dep); err != nil {
			t.Fatalf("\t%s\tShould be able to process a submitted deposit: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to process submitted events.", success)

		if ckpt := st.RetrieveCheckpoint(); ckpt.BlockNumber != 0 || ckpt.LogIndex != 0 {
			t.Fatalf("\t%s\tShould not move the ingest position, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould not move the ingest position.", success)
	}
}

func TestProcessEventRejections(t *testing.T) {
	t.Log("Given the need to reject events that break the period lifecycle.")
	{
		st := newState(t)

		dep := source.Event{Kind: source.KindDeposited, Account: account, Amount: big.NewInt(10), BlockNumber: 90}
		if err := st.ProcessEvent(dep); !errors.Is(err, period.ErrNoActivePeriod) {
			t.Fatalf("\t%s\tShould reject a deposit before any period opens: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a deposit before any period opens.", success)

		if ckpt := st.RetrieveCheckpoint(); ckpt.BlockNumber != 0 {
			t.Fatalf("\t%s\tShould not advance the checkpoint for a rejected event, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould not advance the checkpoint for a rejected event.", success)

		open := source.Event{Kind: source.KindOpened, PeriodID: 1, BlockNumber: 101, Time: time.Now().UTC()}
		if err := st.ProcessEvent(open); err != nil {
			t.Fatalf("\t%s\tShould be able to open period 1: %v", failed, err)
		}

		open.BlockNumber = 120
		if err := st.ProcessEvent(open); !errors.Is(err, period.ErrDuplicatePeriod) {
			t.Fatalf("\t%s\tShould reject opening period 1 twice: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject opening period 1 twice.", success)
	}
}

func TestResync(t *testing.T) {
	t.Log("Given the need to wipe the index and re-read the chain.")
	{
		st := newState(t)

		open := source.Event{Kind: source.KindOpened, PeriodID: 1, BlockNumber: 101, Time: time.Now().UTC()}
		if err := st.ProcessEvent(open); err != nil {
			t.Fatalf("\t%s\tShould be able to open period 1: %v", failed, err)
		}

		if err := st.Resync(); err != nil {
			t.Fatalf("\t%s\tShould be able to resync: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to resync.", success)

		if _, err := st.RetrievePeriod(1); !errors.Is(err, period.ErrNotFound) {
			t.Fatalf("\t%s\tShould wipe the period index: %v", failed, err)
		}
		t.Logf("\t%s\tShould wipe the period index.", success)

		if ckpt := st.RetrieveCheckpoint(); ckpt.BlockNumber != 0 || ckpt.LogIndex != 0 {
			t.Fatalf("\t%s\tShould reset the checkpoint, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould reset the checkpoint.", success)

		stale := source.Event{Kind: source.KindOpened, PeriodID: 7, BlockNumber: 700, Time: time.Now().UTC()}
		if err := st.ProcessEvent(stale); err != nil {
			t.Fatalf("\t%s\tShould be able to process an event after the wipe: %v", failed, err)
		}

		if ckpt := st.RetrieveCheckpoint(); ckpt.BlockNumber != 0 || ckpt.LogIndex != 0 {
			t.Fatalf("\t%s\tShould keep the checkpoint at zero until the feed advances it, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould keep the checkpoint at zero until the feed advances it.", success)
	}
}
