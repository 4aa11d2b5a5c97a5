// Package private maintains the group of handlers for node level access.
package private

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/poolsight/poolsight/business/sys/validate"
	v1 "github.com/poolsight/poolsight/business/web/v1"
	"github.com/poolsight/poolsight/foundation/indexer/period"
	"github.com/poolsight/poolsight/foundation/indexer/source"
	"github.com/poolsight/poolsight/foundation/indexer/state"
	"github.com/poolsight/poolsight/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current indexing status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ckpt := h.State.RetrieveCheckpoint()
	recs := h.State.RetrievePeriods()

	resp := struct {
		BlockNumber  uint64  `json:"block_number"`
		LogIndex     uint    `json:"log_index"`
		Periods      int     `json:"periods"`
		ActivePeriod *uint64 `json:"active_period,omitempty"`
	}{
		BlockNumber: ckpt.BlockNumber,
		LogIndex:    ckpt.LogIndex,
		Periods:     len(recs),
	}

	if active, err := h.State.RetrieveActivePeriod(); err == nil {
		id := uint64(active.ID)
		resp.ActivePeriod = &id
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitEvent folds a manually constructed event into the index. It exists
// for operational repair and local testing against pools with no traffic.
func (h Handlers) SubmitEvent(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var se submitEvent
	if err := web.Decode(r, &se); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if err := validate.Check(se); err != nil {
		return err
	}

	evt, err := se.toSourceEvent()
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit event", "traceid", v.TraceID, "event", evt.String())

	if err := h.State.ProcessEvent(evt); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "event accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resync wipes the period index and re-reads the chain from the genesis
// start block.
func (h Handlers) Resync(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.Resync(); err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "resync started",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// =============================================================================

// submitEvent is the payload for manual event injection.
type submitEvent struct {
	Kind        string `json:"kind" validate:"required,oneof=opened deposited withdrawn"`
	PeriodID    uint64 `json:"period_id" validate:"required_if=Kind opened"`
	Account     string `json:"account" validate:"omitempty,eth_addr"`
	Amount      string `json:"amount" validate:"required_unless=Kind opened"`
	BlockNumber uint64 `json:"block_number" validate:"required"`
	LogIndex    uint   `json:"log_index"`
}

// toSourceEvent converts the payload into the event form the state accepts.
func (se submitEvent) toSourceEvent() (source.Event, error) {
	evt := source.Event{
		Kind:        se.Kind,
		BlockNumber: se.BlockNumber,
		LogIndex:    se.LogIndex,
	}

	switch se.Kind {
	case source.KindOpened:
		evt.PeriodID = period.ID(se.PeriodID)
		evt.Time = time.Now().UTC()

	default:
		amount, ok := new(big.Int).SetString(se.Amount, 10)
		if !ok {
			return source.Event{}, errors.New("amount must be a base 10 number")
		}
		evt.Account = common.HexToAddress(se.Account)
		evt.Amount = amount
	}

	return evt, nil
}
