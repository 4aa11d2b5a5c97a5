// Package worker implements the ingest and checkpoint workflows for
// the indexer.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/source"
	"github.com/poolsight/poolsight/foundation/indexer/state"
)

// checkpointInterval represents the interval for persisting the last
// processed chain position. A crash loses at most this much progress.
const checkpointInterval = 10 * time.Second

// Feed interface represents the behavior required to be implemented by any
// package providing the ordered stream of pool contract events.
type Feed interface {
	Run(ctx context.Context, ckpt database.Checkpoint, events chan<- source.Event) error
}

// =============================================================================

// Worker manages the ingest and checkpoint workflows for the indexer.
type Worker struct {
	state     *state.State
	feed      Feed
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	resync    chan bool
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, feed Feed, evHandler state.EventHandler) {
	w := Worker{
		state:     st,
		feed:      feed,
		ticker:    time.NewTicker(checkpointInterval),
		shut:      make(chan struct{}),
		resync:    make(chan bool, 1),
		evHandler: evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.ingestOperations,
		w.checkpointOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalResync signals the ingest G to drop the current feed and re-read
// the chain from the start. If a signal is already pending, just return.
func (w *Worker) SignalResync() {
	select {
	case w.resync <- true:
		w.evHandler("worker: SignalResync: resync signaled")
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
