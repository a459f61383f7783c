package dispatch

import (
	"context"
	"sync"
)

// Future represents a pending computation whose result becomes available
// later. A function is eligible for asynchronous dispatch only if it returns
// a Future.
type Future interface {
	// Done is closed once the computation has completed or failed.
	Done() <-chan struct{}

	// Await blocks until the computation completes or ctx is cancelled.
	// Cancellation aborts the wait; it does not stop the computation.
	Await(ctx context.Context) (any, error)
}

// Promise is the producer side of a Future. Complete and Fail are write-once;
// later calls are ignored.
type Promise struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

// NewPromise returns an unresolved Promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Complete resolves the promise with a value. A nil value marks a computation
// that carries no result.
func (p *Promise) Complete(v any) {
	p.once.Do(func() {
		p.value = v
		close(p.done)
	})
}

// Fail resolves the promise with an error.
func (p *Promise) Fail(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *Promise) Done() <-chan struct{} {
	return p.done
}

func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CompletedFuture returns a Future already resolved with v.
func CompletedFuture(v any) Future {
	p := NewPromise()
	p.Complete(v)
	return p
}

// GoFuture runs fn on its own goroutine and returns a Future resolving with
// its result. fn should observe ctx if it wants to honor cancellation.
func GoFuture(ctx context.Context, fn func(ctx context.Context) (any, error)) Future {
	p := NewPromise()
	go func() {
		v, err := fn(ctx)
		if err != nil {
			p.Fail(err)
			return
		}
		p.Complete(v)
	}()
	return p
}
