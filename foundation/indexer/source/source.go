// Package source provides access to the stream of pool contract events the
// indexer folds into period records.
package source

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// Set of event kinds the pool contract emits.
const (
	KindOpened    = "opened"
	KindDeposited = "deposited"
	KindWithdrawn = "withdrawn"
)

// Event represents one pool contract event in the order it was observed on
// the source chain.
type Event struct {
	Kind        string
	PeriodID    period.ID      // Only set for opened events.
	Account     common.Address // Only set for deposited/withdrawn events.
	Amount      *big.Int       // Only set for deposited/withdrawn events.
	BlockNumber uint64
	LogIndex    uint
	TxHash      common.Hash
	Time        time.Time
}

// String implements the fmt.Stringer interface for logging.
func (evt Event) String() string {
	switch evt.Kind {
	case KindOpened:
		return fmt.Sprintf("opened[period %d block %d]", evt.PeriodID, evt.BlockNumber)
	default:
		return fmt.Sprintf("%s[account %s amount %v block %d]", evt.Kind, evt.Account, evt.Amount, evt.BlockNumber)
	}
}
