// Package concurrency bounds how many expensive ML-backed requests this
// service runs at once. The classifier and embedding workers are the
// resident-memory-dominating resources in the process; unbounded
// concurrent predictions would let the process spawn far more inference
// calls than the workers can serve.
package concurrency

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrQueueTimeout is returned when a caller waits longer than the queue
// timeout for a slot to free up.
var ErrQueueTimeout = errors.New("prediction pool queue wait exceeded timeout")

// PredictionPool bounds concurrent prediction pipeline runs to a fixed
// weight, queueing surplus callers with a short wait.
type PredictionPool struct {
	sem          *semaphore.Weighted
	queueTimeout time.Duration
}

func NewPredictionPool(size int, queueTimeout time.Duration) *PredictionPool {
	if size <= 0 {
		size = 1
	}
	return &PredictionPool{sem: semaphore.NewWeighted(int64(size)), queueTimeout: queueTimeout}
}

// Acquire blocks until a slot is free or the queue timeout elapses,
// whichever comes first, and returns a release function to call when the
// caller's pipeline run completes.
func (p *PredictionPool) Acquire(ctx context.Context) (release func(), err error) {
	waitCtx, cancel := context.WithTimeout(ctx, p.queueTimeout)
	defer cancel()

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		return nil, ErrQueueTimeout
	}
	return func() { p.sem.Release(1) }, nil
}
