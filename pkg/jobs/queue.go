package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue when the buffer has no room.
var ErrQueueFull = errors.New("queue full")

// Job is one unit of background work.
type Job struct {
	ID       string
	Kind     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job. A returned error schedules a retry.
type Handler func(context.Context, Job) error

// QueueConfig configures the worker pool.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	// DrainTimeout bounds how long Stop waits for buffered jobs.
	DrainTimeout time.Duration
	Logger       *zap.Logger
}

// Stats counts processed jobs.
type Stats struct {
	Pending   int    `json:"pending"`
	Succeeded uint64 `json:"succeeded"`
	Retried   uint64 `json:"retried"`
	Dropped   uint64 `json:"dropped"`
}

// Queue dispatches jobs to a fixed pool of goroutines. Failed jobs are
// retried with a linear backoff; buffered jobs are drained on Stop.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	logger  *zap.Logger

	jobs     chan Job
	stopping chan struct{}
	wg       sync.WaitGroup
	retries  sync.WaitGroup
	mu       sync.Mutex
	started  bool
	stopped  bool

	succeeded atomic.Uint64
	retried   atomic.Uint64
	dropped   atomic.Uint64
}

// NewQueue builds a queue with the provided handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:     name,
		handler:  handler,
		cfg:      cfg,
		logger:   cfg.Logger.With(zap.String("queue", name)),
		jobs:     make(chan Job, cfg.BufferSize),
		stopping: make(chan struct{}),
	}
}

// Start launches the workers. Calling it again is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	q.started = true
	q.logger.Info("queue started", zap.Int("workers", q.cfg.Workers))
}

// Stop rejects new jobs, waits for buffered jobs up to DrainTimeout and then
// stops the workers.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.stopping)
	q.mu.Unlock()

	q.retries.Wait()
	close(q.jobs)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.logger.Info("queue stopped")
	case <-time.After(q.cfg.DrainTimeout):
		q.logger.Warn("queue stop timed out", zap.Int("pending", len(q.jobs)))
	}
}

// Enqueue adds a job without blocking. It fails when the queue is not
// running or its buffer is full.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.started || q.stopped {
		return fmt.Errorf("queue %s is not running", q.name)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		q.dropped.Add(1)
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueFull)
	}
}

// Stats returns a snapshot of queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Pending:   len(q.jobs),
		Succeeded: q.succeeded.Load(),
		Retried:   q.retried.Load(),
		Dropped:   q.dropped.Load(),
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for job := range q.jobs {
		if err := q.handler(ctx, job); err != nil {
			q.retry(job, err)
			continue
		}
		q.succeeded.Add(1)
	}
}

func (q *Queue) retry(job Job, err error) {
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		q.dropped.Add(1)
		q.logger.Error("job exceeded retries", zap.String("job_id", job.ID), zap.String("kind", job.Kind), zap.Int("attempts", job.Attempt), zap.Error(err))
		return
	}

	// Stop waits on retries once stopped is set; no Add may follow it.
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		q.dropped.Add(1)
		q.logger.Warn("retry abandoned on shutdown", zap.String("job_id", job.ID), zap.String("kind", job.Kind), zap.Error(err))
		return
	}
	q.retries.Add(1)
	q.mu.Unlock()

	q.retried.Add(1)
	q.logger.Warn("job failed, retrying", zap.String("job_id", job.ID), zap.String("kind", job.Kind), zap.Int("attempt", job.Attempt), zap.Error(err))
	go func() {
		defer q.retries.Done()
		timer := time.NewTimer(q.cfg.RetryDelay * time.Duration(job.Attempt))
		defer timer.Stop()
		select {
		case <-q.stopping:
			q.dropped.Add(1)
			q.logger.Warn("retry abandoned on shutdown", zap.String("job_id", job.ID))
		case <-timer.C:
			if err := q.Enqueue(job); err != nil {
				q.logger.Error("failed to requeue job", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}()
}
