// Package worker runs the extraction job consumers.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"docvault/internal/queue"
	"docvault/internal/service/extract"
)

// dequeueBackoff is how long a worker waits after a queue error before
// trying again, so a Redis outage does not spin the loop.
const dequeueBackoff = time.Second

// Pool consumes extraction jobs with a fixed number of goroutines. Requests
// never wait on it: the server enqueues and returns, and the pool drains
// the queue at its own pace.
type Pool struct {
	jobs     queue.Queue
	pipeline *extract.Pipeline
	workers  int
	logger   *slog.Logger
}

// NewPool creates a worker pool.
func NewPool(jobs queue.Queue, pipeline *extract.Pipeline, workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		jobs:     jobs,
		pipeline: pipeline,
		workers:  workers,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled, dispatching dequeued jobs to
// the pipeline. In-flight jobs finish before Run returns.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info("extraction workers starting", "workers", p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	wg.Wait()

	p.logger.Info("extraction workers stopped")
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	logger := p.logger.With("worker", id)

	for {
		job, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			logger.Warn("dequeue failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueBackoff):
			}
			continue
		}

		p.pipeline.Process(ctx, job)
	}
}
