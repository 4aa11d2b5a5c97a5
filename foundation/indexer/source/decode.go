package source

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// poolABI describes the three pool contract events the indexer cares about.
const poolABI = `[
	{"type":"event","name":"PeriodOpened","inputs":[{"name":"periodId","type":"uint256","indexed":true}]},
	{"type":"event","name":"Deposited","inputs":[{"name":"account","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"Withdrawn","inputs":[{"name":"account","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}
]`

// pool holds the parsed contract ABI. The ABI text is a compile-time
// constant so a parse failure is a programming error.
var pool = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(poolABI))
	if err != nil {
		panic(fmt.Sprintf("parsing pool abi: %s", err))
	}
	return parsed
}()

// Topics returns the event topics the log filter matches on.
func Topics() []common.Hash {
	return []common.Hash{
		pool.Events["PeriodOpened"].ID,
		pool.Events["Deposited"].ID,
		pool.Events["Withdrawn"].ID,
	}
}

// DecodeLog converts a raw contract log into a source event.
func DecodeLog(lg types.Log) (Event, error) {
	if len(lg.Topics) == 0 {
		return Event{}, fmt.Errorf("log without topics: tx %s", lg.TxHash)
	}

	evt := Event{
		BlockNumber: lg.BlockNumber,
		LogIndex:    lg.Index,
		TxHash:      lg.TxHash,
	}

	switch lg.Topics[0] {
	case pool.Events["PeriodOpened"].ID:
		if len(lg.Topics) != 2 {
			return Event{}, fmt.Errorf("malformed PeriodOpened log: tx %s", lg.TxHash)
		}
		evt.Kind = KindOpened
		evt.PeriodID = period.ID(new(big.Int).SetBytes(lg.Topics[1].Bytes()).Uint64())

	case pool.Events["Deposited"].ID:
		amount, err := unpackAmount("Deposited", lg)
		if err != nil {
			return Event{}, err
		}
		evt.Kind = KindDeposited
		evt.Account = common.BytesToAddress(lg.Topics[1].Bytes())
		evt.Amount = amount

	case pool.Events["Withdrawn"].ID:
		amount, err := unpackAmount("Withdrawn", lg)
		if err != nil {
			return Event{}, err
		}
		evt.Kind = KindWithdrawn
		evt.Account = common.BytesToAddress(lg.Topics[1].Bytes())
		evt.Amount = amount

	default:
		return Event{}, fmt.Errorf("unknown event topic %s: tx %s", lg.Topics[0], lg.TxHash)
	}

	return evt, nil
}

// unpackAmount extracts the amount argument from the data section of a
// deposit or withdrawal log.
func unpackAmount(name string, lg types.Log) (*big.Int, error) {
	if len(lg.Topics) != 2 {
		return nil, fmt.Errorf("malformed %s log: tx %s", name, lg.TxHash)
	}

	vals, err := pool.Unpack(name, lg.Data)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s log: %w", name, err)
	}

	amount, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s amount type %T", name, vals[0])
	}

	return amount, nil
}
