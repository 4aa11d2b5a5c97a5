// Package genesis maintains access to the pool genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the pool genesis file. It pins the indexer to one pool
// contract on one chain and records where indexing starts.
type Genesis struct {
	Date           time.Time `json:"date"`
	ChainID        uint64    `json:"chain_id"`        // The chain the pool contract is deployed on.
	PoolContract   string    `json:"pool_contract"`   // Hex address of the prize pool contract.
	TokenSymbol    string    `json:"token_symbol"`    // Symbol of the token the pool holds.
	TokenDecimals  uint8     `json:"token_decimals"`  // Decimals of the token the pool holds.
	StartBlock     uint64    `json:"start_block"`     // First block the indexer considers.
	PeriodDuration uint64    `json:"period_duration"` // Expected seconds a period stays open.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
