package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

const taskTimeout = 30 * time.Second

// Runner executes fire-and-forget side effects (push, email, admin fan-out)
// off the request path. Each task runs with its own timeout and panic
// isolation: a failing task is logged and never affects its submitter or
// other tasks. Concurrency is bounded so a burst of producers cannot spawn
// unbounded goroutines.
type Runner struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewRunner creates a runner allowing at most maxConcurrent tasks in flight.
func NewRunner(maxConcurrent int) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{sem: make(chan struct{}, maxConcurrent)}
}

// Go submits a named task for background execution.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.sem <- struct{}{}
		defer func() { <-r.sem }()

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("background task %q panicked: %v", name, rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until all submitted tasks finish. Used on shutdown and in tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
