package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is reported when a write is dropped because the queue is saturated
	ErrQueueFull = errors.New("write queue full")
	// ErrWriterClosed is reported for writes enqueued after Close
	ErrWriterClosed = errors.New("writer closed")
)

// WriteFunc performs one persistence operation
type WriteFunc func(ctx context.Context) error

// FailureFunc receives the operation name and error of a failed write
type FailureFunc func(op string, err error)

type writeJob struct {
	op string
	fn WriteFunc
}

// Writer applies writes in the background, one at a time and in enqueue order.
// Callers update their in-memory state first and never wait for acknowledgement.
type Writer struct {
	mu      sync.RWMutex
	closed  bool
	jobs    chan writeJob
	pending sync.WaitGroup
	done    chan struct{}
	timeout time.Duration
	onError FailureFunc
	logger  *zap.Logger
}

// DefaultWriteTimeout bounds a single write when no positive timeout is given
const DefaultWriteTimeout = 5 * time.Second

// NewWriter starts a background writer. onError may be nil.
func NewWriter(queueSize int, timeout time.Duration, onError FailureFunc) *Writer {
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	w := &Writer{
		jobs:    make(chan writeJob, queueSize),
		done:    make(chan struct{}),
		timeout: timeout,
		onError: onError,
		logger:  util.Named("store.writer"),
	}
	go w.run()
	return w
}

// Enqueue schedules fn without blocking
func (w *Writer) Enqueue(op string, fn WriteFunc) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.fail(op, ErrWriterClosed)
		return
	}

	w.pending.Add(1)
	select {
	case w.jobs <- writeJob{op: op, fn: fn}:
	default:
		w.pending.Done()
		w.fail(op, ErrQueueFull)
	}
}

// Flush blocks until every write enqueued so far has been applied
func (w *Writer) Flush() {
	w.pending.Wait()
}

// Close drains queued writes and stops the writer
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	for job := range w.jobs {
		w.apply(job)
	}
}

func (w *Writer) apply(job writeJob) {
	defer w.pending.Done()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	err := job.fn(ctx)
	util.StorageWriteLatency.WithLabelValues(job.op).Observe(time.Since(start).Seconds())

	if err != nil {
		w.fail(job.op, err)
	}
}

func (w *Writer) fail(op string, err error) {
	util.StorageWriteFailuresTotal.WithLabelValues(op).Inc()
	w.logger.Error("Storage write failed", zap.String("op", op), zap.Error(err))
	if w.onError != nil {
		w.onError(op, err)
	}
}
