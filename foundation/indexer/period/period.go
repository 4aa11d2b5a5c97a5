// Package period implements the aggregate record that accumulates deposit
// and withdrawal activity for a single prize period.
package period

import (
	"math/big"
	"time"
)

// ID uniquely identifies a prize period. The value comes from the pool
// contract's draw counter.
type ID uint64

// Record represents the accumulated deposit/withdrawal statistics for one
// period. A record is created once when the period opens and only mutated
// by subsequent deposit/withdrawal events. The accumulators only ever grow.
type Record struct {
	ID               ID        `json:"id"`
	OpenedBlock      uint64    `json:"opened_block"`
	OpenedAt         time.Time `json:"opened_at"`
	DepositCount     uint64    `json:"deposit_count"`
	DepositAmount    *big.Int  `json:"deposit_amount"`
	WithdrawalCount  uint64    `json:"withdrawal_count"`
	WithdrawalAmount *big.Int  `json:"withdrawal_amount"`
}

// New constructs a zero-initialized record for a period that just opened.
func New(id ID, openedBlock uint64, openedAt time.Time) Record {
	return Record{
		ID:               id,
		OpenedBlock:      openedBlock,
		OpenedAt:         openedAt,
		DepositAmount:    big.NewInt(0),
		WithdrawalAmount: big.NewInt(0),
	}
}

// ApplyDeposit folds one deposit event into the record.
func (r *Record) ApplyDeposit(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	r.DepositCount++
	r.DepositAmount = new(big.Int).Add(r.DepositAmount, amount)

	return nil
}

// ApplyWithdrawal folds one withdrawal event into the record.
func (r *Record) ApplyWithdrawal(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	r.WithdrawalCount++
	r.WithdrawalAmount = new(big.Int).Add(r.WithdrawalAmount, amount)

	return nil
}

// Clone returns a deep copy of the record. The amount fields are pointers
// so a shallow copy would alias the accumulators.
func (r Record) Clone() Record {
	c := r
	c.DepositAmount = new(big.Int).Set(r.DepositAmount)
	c.WithdrawalAmount = new(big.Int).Set(r.WithdrawalAmount)
	return c
}
