// Package executor provides the bounded fetch coordinator used to download
// groundwater series.
//
// A batch runs a fixed set of independent jobs through a caller-supplied fetch
// function with a hard cap on how many fetches run at once. Callers observe the
// batch by polling, or by blocking on Wait.
//
// # Basic Usage
//
//	batch, err := executor.StartBatch(jobs, 8, fetch,
//	    executor.WithLogger(logger),
//	    executor.WithJobTimeout(time.Minute))
//	if err != nil {
//	    return err // executor.ErrInvalidRequest
//	}
//
//	for {
//	    snap := batch.Poll()
//	    handle(snap.NewlyCompleted)
//	    if snap.Done {
//	        break
//	    }
//	    time.Sleep(200 * time.Millisecond)
//	}
//
// # Guarantees
//
//   - At most maxConcurrency fetch functions run at any instant
//   - Every started job produces exactly one Outcome
//   - Every Outcome is returned by exactly one Poll (or by Wait)
//   - After Cancel no further job starts; running jobs finish and are still reported
//   - A panicking fetch function yields a failed Outcome and never stops the batch
//
// # Error Handling
//
// Job failures are data, not errors:
//
//	for _, o := range snap.NewlyCompleted {
//	    if !o.Success {
//	        log.Printf("well %s failed: %s", o.Key, o.Error)
//	    }
//	}
//
// Only StartBatch returns an error, and only for invalid requests.
//
// # Timeouts
//
// The coordinator itself never interrupts a fetch. WithJobTimeout hands each
// fetch a context with a deadline; the fetch function is expected to honour it.
package executor
