package database_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/database/storage/memory"
	"github.com/poolsight/poolsight/foundation/indexer/genesis"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

var nop = func(v string, args ...any) {}

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:           time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC),
		ChainID:        1,
		PoolContract:   "0x178969790713A8621dAc55bc0fB1703Ee7C97949",
		TokenSymbol:    "DAI",
		TokenDecimals:  18,
		StartBlock:     100,
		PeriodDuration: 604800,
	}
}

func TestAccumulation(t *testing.T) {
	t.Log("Given the need to fold an event sequence into period records.")
	{
		strg, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create storage: %v", failed, err)
		}

		db, err := database.New(testGenesis(), strg, nop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the database: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to create the database.", success)

		if err := db.OpenPeriod(period.New(5, 101, time.Now().UTC())); err != nil {
			t.Fatalf("\t%s\tShould be able to open period 5: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to open period 5.", success)

		if _, err := db.ApplyDeposit(big.NewInt(100)); err != nil {
			t.Fatalf("\t%s\tShould be able to apply the first deposit: %v", failed, err)
		}
		if _, err := db.ApplyDeposit(big.NewInt(50)); err != nil {
			t.Fatalf("\t%s\tShould be able to apply the second deposit: %v", failed, err)
		}
		if _, err := db.ApplyWithdrawal(big.NewInt(30)); err != nil {
			t.Fatalf("\t%s\tShould be able to apply the withdrawal: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to apply the event sequence.", success)

		rec, err := db.GetPeriod(5)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read period 5 back: %v", failed, err)
		}

		if rec.DepositCount != 2 || rec.DepositAmount.Cmp(big.NewInt(150)) != 0 {
			t.Fatalf("\t%s\tShould have 2 deposits totaling 150, got %d/%v.", failed, rec.DepositCount, rec.DepositAmount)
		}
		t.Logf("\t%s\tShould have 2 deposits totaling 150.", success)

		if rec.WithdrawalCount != 1 || rec.WithdrawalAmount.Cmp(big.NewInt(30)) != 0 {
			t.Fatalf("\t%s\tShould have 1 withdrawal totaling 30, got %d/%v.", failed, rec.WithdrawalCount, rec.WithdrawalAmount)
		}
		t.Logf("\t%s\tShould have 1 withdrawal totaling 30.", success)
	}
}

func TestOpenPeriodRules(t *testing.T) {
	t.Log("Given the need to enforce the period lifecycle rules.")
	{
		strg, _ := memory.New()
		db, err := database.New(testGenesis(), strg, nop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the database: %v", failed, err)
		}

		if _, err := db.ApplyDeposit(big.NewInt(10)); !errors.Is(err, period.ErrNoActivePeriod) {
			t.Fatalf("\t%s\tShould reject a deposit before any period opens: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a deposit before any period opens.", success)

		if err := db.OpenPeriod(period.New(1, 101, time.Now().UTC())); err != nil {
			t.Fatalf("\t%s\tShould be able to open period 1: %v", failed, err)
		}

		if err := db.OpenPeriod(period.New(1, 102, time.Now().UTC())); !errors.Is(err, period.ErrDuplicatePeriod) {
			t.Fatalf("\t%s\tShould reject opening period 1 twice: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject opening period 1 twice.", success)

		if _, err := db.GetPeriod(9); !errors.Is(err, period.ErrNotFound) {
			t.Fatalf("\t%s\tShould report a missing period: %v", failed, err)
		}
		t.Logf("\t%s\tShould report a missing period.", success)
	}
}

func TestActiveFollowsLatestOpen(t *testing.T) {
	t.Log("Given the need to fold events into the latest opened period.")
	{
		strg, _ := memory.New()
		db, err := database.New(testGenesis(), strg, nop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the database: %v", failed, err)
		}

		if err := db.OpenPeriod(period.New(1, 101, time.Now().UTC())); err != nil {
			t.Fatalf("\t%s\tShould be able to open period 1: %v", failed, err)
		}
		if _, err := db.ApplyDeposit(big.NewInt(100)); err != nil {
			t.Fatalf("\t%s\tShould be able to deposit into period 1: %v", failed, err)
		}

		if err := db.OpenPeriod(period.New(2, 201, time.Now().UTC())); err != nil {
			t.Fatalf("\t%s\tShould be able to open period 2: %v", failed, err)
		}
		if _, err := db.ApplyDeposit(big.NewInt(7)); err != nil {
			t.Fatalf("\t%s\tShould be able to deposit into period 2: %v", failed, err)
		}

		rec1, _ := db.GetPeriod(1)
		rec2, _ := db.GetPeriod(2)

		if rec1.DepositAmount.Cmp(big.NewInt(100)) != 0 {
			t.Fatalf("\t%s\tShould leave period 1 at 100, got %v.", failed, rec1.DepositAmount)
		}
		t.Logf("\t%s\tShould leave period 1 at 100.", success)

		if rec2.DepositAmount.Cmp(big.NewInt(7)) != 0 {
			t.Fatalf("\t%s\tShould fold the later deposit into period 2, got %v.", failed, rec2.DepositAmount)
		}
		t.Logf("\t%s\tShould fold the later deposit into period 2.", success)

		active, err := db.ActivePeriod()
		if err != nil || active.ID != 2 {
			t.Fatalf("\t%s\tShould report period 2 as active: %v %v", failed, active.ID, err)
		}
		t.Logf("\t%s\tShould report period 2 as active.", success)
	}
}

func TestReplay(t *testing.T) {
	t.Log("Given the need to rebuild the index from storage on restart.")
	{
		strg, _ := memory.New()
		db, err := database.New(testGenesis(), strg, nop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the database: %v", failed, err)
		}

		for id := period.ID(1); id <= 3; id++ {
			if err := db.OpenPeriod(period.New(id, uint64(id)*100, time.Now().UTC())); err != nil {
				t.Fatalf("\t%s\tShould be able to open period %d: %v", failed, id, err)
			}
			if _, err := db.ApplyDeposit(big.NewInt(int64(id) * 10)); err != nil {
				t.Fatalf("\t%s\tShould be able to deposit into period %d: %v", failed, id, err)
			}
		}

		db.UpdateCheckpoint(database.Checkpoint{BlockNumber: 300, LogIndex: 4})
		if err := db.FlushCheckpoint(); err != nil {
			t.Fatalf("\t%s\tShould be able to flush the checkpoint: %v", failed, err)
		}

		db2, err := database.New(testGenesis(), strg, nop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to rebuild the database: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to rebuild the database.", success)

		recs := db2.CopyPeriods()
		if len(recs) != 3 {
			t.Fatalf("\t%s\tShould replay 3 periods, got %d.", failed, len(recs))
		}
		t.Logf("\t%s\tShould replay 3 periods.", success)

		active, err := db2.ActivePeriod()
		if err != nil || active.ID != 3 {
			t.Fatalf("\t%s\tShould make the highest period active: %v %v", failed, active.ID, err)
		}
		t.Logf("\t%s\tShould make the highest period active.", success)

		ckpt := db2.Checkpoint()
		if ckpt.BlockNumber != 300 || ckpt.LogIndex != 4 {
			t.Fatalf("\t%s\tShould restore the checkpoint, got %+v.", failed, ckpt)
		}
		t.Logf("\t%s\tShould restore the checkpoint.", success)
	}
}
