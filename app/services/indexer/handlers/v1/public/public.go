// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/poolsight/poolsight/business/sys/metrics"
	v1 "github.com/poolsight/poolsight/business/web/v1"
	"github.com/poolsight/poolsight/foundation/events"
	"github.com/poolsight/poolsight/foundation/indexer/period"
	"github.com/poolsight/poolsight/foundation/indexer/state"
	"github.com/poolsight/poolsight/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide the activity feed to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Subscribe(v.TraceID)
	defer h.Evts.Unsubscribe(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the pool genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Periods returns the set of period records, or a single record when an id
// is provided on the route.
func (h Handlers) Periods(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if idStr := web.Param(r, "id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return v1.NewRequestError(errors.New("period id must be an unsigned number"), http.StatusBadRequest)
		}

		rec, err := h.State.RetrievePeriod(period.ID(id))
		if err != nil {
			return v1.NewRequestError(err, http.StatusNotFound)
		}

		return web.Respond(ctx, w, toPeriodInfo(rec), http.StatusOK)
	}

	recs := h.State.RetrievePeriods()
	metrics.SetPeriods(int64(len(recs)))

	infos := make([]periodInfo, len(recs))
	for i, rec := range recs {
		infos[i] = toPeriodInfo(rec)
	}

	return web.Respond(ctx, w, infos, http.StatusOK)
}

// ActivePeriod returns the record deposits and withdrawals currently
// fold into.
func (h Handlers) ActivePeriod(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	rec, err := h.State.RetrieveActivePeriod()
	if err != nil {
		return v1.NewRequestError(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, toPeriodInfo(rec), http.StatusOK)
}
