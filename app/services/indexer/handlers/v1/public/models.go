package public

import (
	"time"

	"github.com/poolsight/poolsight/foundation/indexer/period"
)

// periodInfo represents one period record in API responses. Amounts are
// decimal strings since token base units overflow a JSON number.
type periodInfo struct {
	Period           uint64    `json:"period"`
	OpenedBlock      uint64    `json:"opened_block"`
	OpenedAt         time.Time `json:"opened_at"`
	DepositCount     uint64    `json:"deposit_count"`
	DepositAmount    string    `json:"deposit_amount"`
	WithdrawalCount  uint64    `json:"withdrawal_count"`
	WithdrawalAmount string    `json:"withdrawal_amount"`
}

func toPeriodInfo(rec period.Record) periodInfo {
	return periodInfo{
		Period:           uint64(rec.ID),
		OpenedBlock:      rec.OpenedBlock,
		OpenedAt:         rec.OpenedAt,
		DepositCount:     rec.DepositCount,
		DepositAmount:    rec.DepositAmount.String(),
		WithdrawalCount:  rec.WithdrawalCount,
		WithdrawalAmount: rec.WithdrawalAmount.String(),
	}
}
