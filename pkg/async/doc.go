// Package async provides generic helpers for running computations concurrently and
// joining their results.
//
// Async starts a function in its own goroutine and returns a *Future. Await blocks
// until the result is available; Done exposes the completion channel for select loops.
//
// The join helpers follow a "don't wait, don't use" policy for failures: WaitAll and
// Both return the first error as soon as it is observed. Futures that are still
// running are not canceled; they finish on their own and their results are dropped.
//
//	account := async.Async(ctx, profile, resolveAccount)
//	level := async.Async(ctx, profile, evaluateLevel)
//
//	acct, lvl, err := async.Both(account, level)
//	if err != nil {
//		return nil, err
//	}
//
// A pre-canceled context completes the future with ctx.Err() without calling the
// function. A panic in the function completes the future with an error.
package async
