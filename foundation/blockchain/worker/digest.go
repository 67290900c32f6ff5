package worker

// digestOperations reports the mempool content fingerprint on an interval.
// The digest gives two operators a cheap way to agree their pools hold the
// same entries in the same order.
func (w *Worker) digestOperations() {
	w.evHandler("worker: digestOperations: G started")
	defer w.evHandler("worker: digestOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runDigestOperation()
			}
		case <-w.shut:
			w.evHandler("worker: digestOperations: received shut signal")
			return
		}
	}
}

// runDigestOperation computes and logs the current pool fingerprint.
func (w *Worker) runDigestOperation() {
	digest, err := w.state.QueryMempoolDigest()
	if err != nil {
		w.evHandler("worker: runDigestOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runDigestOperation: pool[%d] digest[%s]", w.state.QueryMempoolLength(), digest)
}
