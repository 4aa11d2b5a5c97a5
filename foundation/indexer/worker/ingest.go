package worker

import (
	"context"
	"time"

	"github.com/poolsight/poolsight/foundation/indexer/database"
	"github.com/poolsight/poolsight/foundation/indexer/source"
)

// ingestOperations keeps one feed ingest running until shutdown, restarting
// it whenever the feed stops or a resync is signaled. On resync the wipe
// happens here, after the old feed lifetime has been torn down, so events
// buffered from the old feed position die with that lifetime's channel.
func (w *Worker) ingestOperations() {
	w.evHandler("worker: ingestOperations: G started")
	defer w.evHandler("worker: ingestOperations: G completed")

	for !w.isShutdown() {
		if w.runIngest() {
			w.evHandler("worker: ingestOperations: resync: truncating index")
			if err := w.state.Truncate(); err != nil {
				w.evHandler("worker: ingestOperations: truncate: ERROR: %s", err)
			}
			continue
		}

		// Brief pause so a feed that stops immediately cannot spin.
		select {
		case <-w.shut:
			return
		case <-time.After(time.Second):
		}
	}
}

// runIngest runs one feed lifetime, applying events strictly in the order
// they arrive. Events the state rejects are logged and dropped since the
// chain is authoritative and a single bad log must not stall the stream.
// The checkpoint only moves here, and only past fully applied events.
// Reports whether the lifetime ended because a resync was signaled.
func (w *Worker) runIngest() bool {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan source.Event, 128)
	feedErr := make(chan error, 1)

	go func() {
		feedErr <- w.feed.Run(ctx, w.state.RetrieveCheckpoint(), events)
	}()

	for {
		select {
		case <-w.shut:
			return false

		case <-w.resync:
			w.evHandler("worker: runIngest: resync: stopping feed")
			return true

		case err := <-feedErr:
			if err != nil {
				w.evHandler("worker: runIngest: feed stopped: ERROR: %s", err)
			}
			return false

		case evt := <-events:
			if err := w.state.ProcessEvent(evt); err != nil {
				w.evHandler("worker: runIngest: dropping %s: ERROR: %s", evt, err)
				continue
			}

			w.state.UpdateCheckpoint(database.Checkpoint{
				BlockNumber: evt.BlockNumber,
				LogIndex:    evt.LogIndex,
			})
		}
	}
}
