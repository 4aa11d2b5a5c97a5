package worker

// checkpointOperations flushes the in-memory checkpoint to storage on
// every tick.
func (w *Worker) checkpointOperations() {
	w.evHandler("worker: checkpointOperations: G started")
	defer w.evHandler("worker: checkpointOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if err := w.state.FlushCheckpoint(); err != nil {
				w.evHandler("worker: checkpointOperations: ERROR: %s", err)
			}
		case <-w.shut:
			return
		}
	}
}
