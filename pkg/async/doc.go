// Package async provides the small set of future primitives the validation
// engine builds on.
//
// A Future represents the eventual result of an operation. Futures are created
// either by Async, which runs a function in its own goroutine, or by
// NewPromise, which hands back a Resolver so that a callback-driven producer
// (an HTTP round trip, a Redis lookup) can settle it later. Futures settle
// exactly once; later settlements are ignored.
//
// Join is an async-join over a dynamic set of in-flight operations: callers
// Add work while it is discovered, Seal the join once discovery is over, and
// the join's future settles after every operation has reported Done. All
// failures are accumulated with errors.Join instead of stopping at the first.
//
// # Usage
//
//	f := async.Async(ctx, "alice@example.com", func(ctx context.Context, email string) (bool, error) {
//	    return lookup(ctx, email)
//	})
//	taken, err := f.Await()
//
//	j := async.NewJoin()
//	for _, f := range futures {
//	    j.Add(1)
//	    f.OnComplete(func(_ bool, err error) { j.Done(err) })
//	}
//	j.Seal()
//	if err := j.Wait(); err != nil {
//	    // every failure is reachable through errors.Is / errors.As
//	}
//
// # Error Handling
//
// Rejection is a string error type for user-facing refusals; RejectionMessage
// extracts it from an error chain. Join.Add on a settled join returns
// ErrJoinSettled.
package async
