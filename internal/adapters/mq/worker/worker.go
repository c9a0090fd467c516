// Package worker drains the submission queue and persists validated
// judge scores.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	"github.com/romeirofernandes/vhack-sub001/pkg/logger"
	"github.com/romeirofernandes/vhack-sub001/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Submission is what workers read off the queue.
type Submission = model.Submission

// Appender persists one judge's score onto a project.
type Appender interface {
	AppendScore(ctx context.Context, hackathonID, projectID string, score model.JudgeScore) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

var validate = validator.New()

// Worker processes submissions: validate, then append to the store.
type Worker struct {
	queue    Queue
	appender Appender
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, appender Appender, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		appender: appender,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes,
// or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sub, ok := <-submissions:
			if !ok {
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "error processing submission",
					logger.String("submissionID", sub.SubmissionID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight submission.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, sub Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := validate.Struct(sub); err != nil {
		metrics.RecordSubmissionRejected()
		return fmt.Errorf("invalid submission %s: %w", sub.SubmissionID, err)
	}

	score := model.JudgeScore{
		JudgeID:     sub.JudgeID,
		Criteria:    sub.Criteria,
		TotalScore:  sub.TotalScore,
		SubmittedAt: sub.SubmittedAt,
		Feedback:    sub.Feedback,
	}
	if err := w.appender.AppendScore(ctx, sub.HackathonID, sub.ProjectID, score); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("append score for project %s: %w", sub.ProjectID, err)
	}

	metrics.RecordSubmissionPersisted()
	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive workerCount defaults
// to twice the CPU count.
func NewPool(workerCount int, queue Queue, appender Appender) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range pool.workers {
		pool.workers[i] = NewWorker(queue, appender, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts down all workers, bounded by a per-worker timeout.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.String("worker", w.name))
		}
	}
}
