package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/poolsight/poolsight/app/services/indexer/handlers"
	"github.com/poolsight/poolsight/foundation/events"
	"github.com/poolsight/poolsight/foundation/indexer/database/storage/memory"
	"github.com/poolsight/poolsight/foundation/indexer/genesis"
	"github.com/poolsight/poolsight/foundation/indexer/state"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func testMuxConfig(t *testing.T) handlers.MuxConfig {
	strg, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create storage: %v", failed, err)
	}

	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{ChainID: 1, StartBlock: 100},
		Storage: strg,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create the state: %v", failed, err)
	}

	return handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     events.New(),
	}
}

func TestCorsPreflight(t *testing.T) {
	t.Log("Given the need to answer CORS preflight requests on every mux.")
	{
		cfg := testMuxConfig(t)

		muxes := []struct {
			name string
			mux  http.Handler
		}{
			{"public", handlers.PublicMux(cfg)},
			{"private", handlers.PrivateMux(cfg)},
		}

		for _, m := range muxes {
			r := httptest.NewRequest(http.MethodOptions, "/v1/periods/list", nil)
			w := httptest.NewRecorder()
			m.mux.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tShould answer OPTIONS on the %s mux, got %d.", failed, m.name, w.Code)
			}
			t.Logf("\t%s\tShould answer OPTIONS on the %s mux.", success, m.name)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("\t%s\tShould set the allow origin header on the %s mux, got %q.", failed, m.name, got)
			}
			t.Logf("\t%s\tShould set the allow origin header on the %s mux.", success, m.name)
		}
	}
}
