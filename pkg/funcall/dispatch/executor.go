package dispatch

import "context"

// Executor is a serial execution context bound to a single goroutine,
// typically the host application's primary thread. Dispatched functions may
// touch thread-affine host state, so asynchronous dispatch hops onto the
// executor before resolving arguments and invoking.
//
// The owning goroutine calls Run; any goroutine may post work with Do.
type Executor struct {
	jobs chan func()
}

// NewExecutor returns an Executor ready to accept work.
func NewExecutor() *Executor {
	return &Executor{jobs: make(chan func(), 64)}
}

// Run drains posted jobs on the calling goroutine until ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-e.jobs:
			job()
		}
	}
}

// Do posts f to the executor and blocks until f has run or ctx is cancelled.
// Cancellation while waiting abandons the wait; if f was already picked up it
// still runs to completion on the executor goroutine.
func (e *Executor) Do(ctx context.Context, f func()) error {
	done := make(chan struct{})
	job := func() {
		defer close(done)
		f()
	}
	select {
	case e.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
