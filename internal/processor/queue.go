package processor

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has started.
var ErrQueueClosed = errors.New("job queue is shutting down")

// Task is one uploaded file waiting for a worker.
type Task struct {
	JobID    string
	Path     string
	Filename string
}

// Runner is what a worker calls for each task.
type Runner interface {
	Process(ctx context.Context, path, jobID, filename string) error
}

type Queue struct {
	runner  Runner
	log     *logrus.Entry
	workers int

	ch   chan Task
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Task, n)
		}
	}
}

func NewQueue(r Runner, log *logrus.Entry, opts ...Option) *Queue {
	q := &Queue{
		runner:  r,
		log:     log.WithField("component", "queue"),
		workers: 4,
		ch:      make(chan Task, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				log := q.log.WithField("worker_id", workerID)
				log.Debug("worker started")

				for task := range q.ch {
					q.run(log, task)
				}

				log.Debug("worker stopped")
			}(i + 1)
		}
	})
}

// run executes one task. The job's terminal status is already in the status
// store when Process returns, so errors are only logged here.
func (q *Queue) run(log *logrus.Entry, task Task) {
	log = log.WithField("job_id", task.JobID)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("worker recovered from panic")
		}
	}()

	// Jobs are not cancelled; provider calls carry their own HTTP timeouts.
	if err := q.runner.Process(context.Background(), task.Path, task.JobID, task.Filename); err != nil {
		log.WithError(err).Warn("processing failed")
		return
	}
	log.Info("processed file successfully")
}

// Enqueue blocks when the buffer is full until a worker frees a slot or ctx
// is done.
func (q *Queue) Enqueue(ctx context.Context, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.log.WithField("job_id", task.JobID).Warn("cannot enqueue: queue is shutting down")
		return ErrQueueClosed
	}
	select {
	case q.ch <- task:
		q.log.WithField("job_id", task.JobID).Info("queued file for processing")
		return nil
	default:
	}
	q.log.WithField("job_id", task.JobID).Warn("queue full, applying backpressure")
	select {
	case q.ch <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for in-flight tasks to drain.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.log.Warn("shutdown interrupted by context")
		return ctx.Err()
	case <-done:
		q.log.Info("queue drained, shutdown complete")
		return nil
	}
}
