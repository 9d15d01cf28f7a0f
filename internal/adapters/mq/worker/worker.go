// Package worker defines worker contracts for concurrent match fetching.
//
// Workers drain match jobs off the queue, call the data source, and hand
// the decoded events to a collector. Only the fetch is parallel; flattening
// and loading happen downstream in a single pass.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/nanavatisneha/analytics-handbook/internal/adapters/mq/queue"
	"github.com/nanavatisneha/analytics-handbook/internal/domain/model"
	"github.com/nanavatisneha/analytics-handbook/pkg/logger"
	"github.com/nanavatisneha/analytics-handbook/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount = 4
	poolWaitTimeout    = 10 * time.Minute
)

// Job aliases the queue job type workers consume.
type Job = queue.Job

// Fetcher retrieves the raw events of one match.
type Fetcher interface {
	Events(ctx context.Context, matchID int) ([]model.RawEvent, error)
}

// Collector receives fetched events for downstream flattening and loading.
type Collector interface {
	Collect(ctx context.Context, matchID int, events []model.RawEvent) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes fetch jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)
}

// FetchWorker implements Worker for match-event fetching.
type FetchWorker struct {
	queue     Queue
	fetcher   Fetcher
	collector Collector
	name      string
	logger    logger.Logger
}

// NewFetchWorker creates a new worker with configuration options.
func NewFetchWorker(q Queue, f Fetcher, c Collector, opts ...Option) *FetchWorker {
	w := &FetchWorker{
		queue:     q,
		fetcher:   f,
		collector: c,
		name:      "fetch-worker",
		logger:    logger.Get().Named("fetch-worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop. It returns when the queue closes or the
// context is canceled.
func (w *FetchWorker) Run(ctx context.Context) {
	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "fetch job failed",
					logger.Int("matchID", job.MatchID),
					logger.Error(err),
				)
			}
		}
	}
}

// process fetches and hands off one match.
func (w *FetchWorker) process(ctx context.Context, job Job) error {
	start := time.Now()
	events, err := w.fetcher.Events(ctx, job.MatchID)
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "fetch_error")
		return fmt.Errorf("fetch events for match %d: %w", job.MatchID, err)
	}

	metrics.RecordMatchFetched()
	metrics.RecordEventsFetched(len(events))

	if err := w.collector.Collect(ctx, job.MatchID, events); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "collect_error")
		return fmt.Errorf("collect events for match %d: %w", job.MatchID, err)
	}

	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Pool manages a fixed set of fetch workers over one queue.
type Pool struct {
	workers []*FetchWorker
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, f Fetcher, c Collector) *Pool {
	if workerCount < 1 {
		workerCount = minInt(defaultWorkerCount, runtime.NumCPU())
	}

	p := &Pool{
		workers: make([]*FetchWorker, workerCount),
		logger:  logger.Get().Named("fetch-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewFetchWorker(q, f, c,
			WithName("fetch-worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *FetchWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has drained the queue and exited, or the
// context is canceled.
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for fetch pool: %w", ctx.Err())
	case <-time.After(poolWaitTimeout):
		return fmt.Errorf("waiting for fetch pool: timed out after %s", poolWaitTimeout)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
