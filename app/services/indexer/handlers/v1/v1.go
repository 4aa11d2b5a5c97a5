// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/poolsight/poolsight/app/services/indexer/handlers/v1/private"
	"github.com/poolsight/poolsight/app/services/indexer/handlers/v1/public"
	"github.com/poolsight/poolsight/foundation/events"
	"github.com/poolsight/poolsight/foundation/indexer/state"
	"github.com/poolsight/poolsight/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/periods/list", pbl.Periods)
	app.Handle(http.MethodGet, version, "/periods/list/:id", pbl.Periods)
	app.Handle(http.MethodGet, version, "/periods/active", pbl.ActivePeriod)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodPost, version, "/node/events/submit", prv.SubmitEvent)
	app.Handle(http.MethodPost, version, "/node/resync", prv.Resync)
}
