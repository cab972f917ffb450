package async

import (
	"context"
	"fmt"
	"sync"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// Done returns a channel that is closed once the future has a result.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[U]) complete(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
	})
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
// A panic inside fn completes the future with an error instead of crashing the process.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		var zero U
		defer func() {
			if r := recover(); r != nil {
				f.complete(zero, fmt.Errorf("async: panic: %v", r))
			}
		}()

		// Early exit prevents goroutine leak when context is pre-canceled
		select {
		case <-ctx.Done():
			f.complete(zero, ctx.Err())
			return
		default:
		}

		res, err := fn(ctx, param)
		f.complete(res, err)
	}()

	return f
}

// Resolved returns an already completed future.
func Resolved[U any](v U, err error) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}
	f.complete(v, err)
	return f
}

// WaitAll waits for all futures and returns their results in order.
// It returns as soon as any future fails; remaining futures keep running
// but their results are dropped.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	if len(futures) == 0 {
		return results, nil
	}

	type outcome struct {
		index  int
		result U
		err    error
	}

	// Buffered so late finishers never block after an early return.
	outcomes := make(chan outcome, len(futures))
	for i, future := range futures {
		if future == nil {
			return nil, ErrNilFuture
		}
		go func(index int, f *Future[U]) {
			res, err := f.Await()
			outcomes <- outcome{index: index, result: res, err: err}
		}(i, future)
	}

	for range futures {
		o := <-outcomes
		if o.err != nil {
			return nil, o.err
		}
		results[o.index] = o.result
	}

	return results, nil
}

// WaitAny waits for any of the futures to complete and returns the index of the completed future,
// its result, and any error it might have returned.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}

	done := make(chan outcome, len(futures))
	for i, future := range futures {
		go func(index int, f *Future[U]) {
			result, err := f.Await()
			done <- outcome{index, result, err}
		}(i, future)
	}

	res := <-done
	return res.index, res.result, res.err
}

// Both waits for two futures of different types. The first error from either
// future is returned immediately without waiting for the other one, and the
// other future's result is discarded.
func Both[A any, B any](fa *Future[A], fb *Future[B]) (A, B, error) {
	var (
		a, zeroA A
		b, zeroB B
	)
	if fa == nil || fb == nil {
		return zeroA, zeroB, ErrNilFuture
	}

	aDone, bDone := fa.Done(), fb.Done()
	for aDone != nil || bDone != nil {
		select {
		case <-aDone:
			aDone = nil
			res, err := fa.Await()
			if err != nil {
				return zeroA, zeroB, err
			}
			a = res
		case <-bDone:
			bDone = nil
			res, err := fb.Await()
			if err != nil {
				return zeroA, zeroB, err
			}
			b = res
		}
	}

	return a, b, nil
}
