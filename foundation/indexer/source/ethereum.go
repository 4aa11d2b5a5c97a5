package source

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/poolsight/poolsight/foundation/indexer/database"
)

// maxBackoff caps the delay between reconnect attempts against the node
// endpoint.
const maxBackoff = time.Minute

// EventHandler defines a function that is called when events occur in the
// processing of the log stream.
type EventHandler func(v string, args ...any)

// Ethereum provides the pool contract event stream from an Ethereum node.
// Backfill happens over the filter API, live logs over a websocket
// subscription.
type Ethereum struct {
	client     *ethclient.Client
	contract   common.Address
	startBlock uint64
	evHandler  EventHandler
}

// NewEthereum connects to the specified node endpoint. The endpoint must
// support subscriptions, so a ws scheme is required. The startBlock bounds
// the first backfill when no checkpoint exists yet.
func NewEthereum(ctx context.Context, url string, contract common.Address, startBlock uint64, evHandler EventHandler) (*Ethereum, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing node %q: %w", url, err)
	}

	eth := Ethereum{
		client:     client,
		contract:   contract,
		startBlock: startBlock,
		evHandler:  evHandler,
	}

	return &eth, nil
}

// Close releases the connection to the node.
func (e *Ethereum) Close() {
	e.client.Close()
}

// Run streams pool contract events into the specified channel until the
// context is canceled. It backfills from the checkpoint first, then follows
// the live subscription. On any failure the stream is re-established from
// the last delivered position with a capped backoff.
func (e *Ethereum) Run(ctx context.Context, ckpt database.Checkpoint, events chan<- Event) error {
	last := ckpt
	backoff := time.Second

	for {
		err := e.stream(ctx, &last, events)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		e.evHandler("source: stream: ERROR: %s: reconnect in %v", err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// stream performs one backfill plus live-follow cycle. The last value is
// advanced as events are delivered so a reconnect never re-delivers.
func (e *Ethereum) stream(ctx context.Context, last *database.Checkpoint, events chan<- Event) error {

	// Subscribe before backfilling so no log falls between the filter
	// query and the first subscription delivery.
	liveLogs := make(chan types.Log, 128)
	query := ethereum.FilterQuery{
		Addresses: []common.Address{e.contract},
		Topics:    [][]common.Hash{Topics()},
	}

	sub, err := e.client.SubscribeFilterLogs(ctx, query, liveLogs)
	if err != nil {
		return fmt.Errorf("subscribing to pool logs: %w", err)
	}
	defer sub.Unsubscribe()

	// Backfill everything between the checkpoint and the chain head.
	fromBlock := last.BlockNumber
	if fromBlock < e.startBlock {
		fromBlock = e.startBlock
	}
	query.FromBlock = new(big.Int).SetUint64(fromBlock)
	logs, err := e.client.FilterLogs(ctx, query)
	if err != nil {
		return fmt.Errorf("backfilling pool logs: %w", err)
	}

	e.evHandler("source: stream: backfill: %d logs from block %d", len(logs), fromBlock)

	for _, lg := range logs {
		if err := e.deliver(ctx, lg, last, events); err != nil {
			return err
		}
	}

	// Follow the live subscription.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-sub.Err():
			return fmt.Errorf("pool log subscription: %w", err)

		case lg := <-liveLogs:
			if err := e.deliver(ctx, lg, last, events); err != nil {
				return err
			}
		}
	}
}

// deliver decodes one log and sends it down the events channel, skipping
// logs at or before the last delivered position.
func (e *Ethereum) deliver(ctx context.Context, lg types.Log, last *database.Checkpoint, events chan<- Event) error {
	if lg.Removed {
		e.evHandler("source: deliver: dropping removed log: block %d index %d", lg.BlockNumber, lg.Index)
		return nil
	}

	// A zero value checkpoint means nothing was processed yet. Block 0
	// carries no contract logs, so the zero value is never a real position.
	processed := *last != database.Checkpoint{}
	if processed && (lg.BlockNumber < last.BlockNumber || (lg.BlockNumber == last.BlockNumber && lg.Index <= last.LogIndex)) {
		return nil
	}

	evt, err := DecodeLog(lg)
	if err != nil {
		e.evHandler("source: deliver: dropping undecodable log: %s", err)
		return nil
	}

	// The period record captures when the period opened, so resolve the
	// block timestamp for opened events only.
	if evt.Kind == KindOpened {
		header, err := e.client.HeaderByNumber(ctx, new(big.Int).SetUint64(lg.BlockNumber))
		if err != nil {
			return fmt.Errorf("resolving header for block %d: %w", lg.BlockNumber, err)
		}
		evt.Time = time.Unix(int64(header.Time), 0).UTC()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case events <- evt:
	}

	last.BlockNumber = lg.BlockNumber
	last.LogIndex = lg.Index

	return nil
}
