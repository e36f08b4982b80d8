package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failures struct {
	mu  sync.Mutex
	ops []string
	err []error
}

func (f *failures) record(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	f.err = append(f.err, err)
}

func (f *failures) snapshot() ([]string, []error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...), append([]error(nil), f.err...)
}

func TestWriterPreservesOrder(t *testing.T) {
	w := NewWriter(16, time.Second, nil)
	defer w.Close()

	var mu sync.Mutex
	var applied []int
	for i := 0; i < 10; i++ {
		i := i
		w.Enqueue("save", func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			applied = append(applied, i)
			return nil
		})
	}
	w.Flush()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, applied)
}

func TestWriterReportsFailures(t *testing.T) {
	var f failures
	w := NewWriter(4, time.Second, f.record)
	defer w.Close()

	boom := errors.New("boom")
	w.Enqueue("save_order", func(ctx context.Context) error { return boom })
	w.Flush()

	ops, errs := f.snapshot()
	require.Equal(t, []string{"save_order"}, ops)
	assert.ErrorIs(t, errs[0], boom)
}

func TestWriterQueueFull(t *testing.T) {
	var f failures
	w := NewWriter(1, time.Second, f.record)
	defer w.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	w.Enqueue("block", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	w.Enqueue("queued", func(ctx context.Context) error { return nil })
	w.Enqueue("dropped", func(ctx context.Context) error { return nil })

	close(release)
	w.Flush()

	ops, errs := f.snapshot()
	require.Equal(t, []string{"dropped"}, ops)
	assert.ErrorIs(t, errs[0], ErrQueueFull)
}

func TestWriterCloseDrainsAndRejects(t *testing.T) {
	var f failures
	w := NewWriter(8, time.Second, f.record)

	done := false
	w.Enqueue("last", func(ctx context.Context) error {
		done = true
		return nil
	})
	w.Close()
	w.Close()

	assert.True(t, done)

	w.Enqueue("late", func(ctx context.Context) error { return nil })
	ops, errs := f.snapshot()
	require.Equal(t, []string{"late"}, ops)
	assert.ErrorIs(t, errs[0], ErrWriterClosed)
}

func TestWriterAppliesTimeout(t *testing.T) {
	var f failures
	w := NewWriter(1, 10*time.Millisecond, f.record)
	defer w.Close()

	w.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	w.Flush()

	_, errs := f.snapshot()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.DeadlineExceeded)
}

func TestWriterZeroTimeoutUsesDefault(t *testing.T) {
	var f failures
	w := NewWriter(1, 0, f.record)
	defer w.Close()

	var deadline time.Duration
	var hasDeadline bool
	w.Enqueue("save", func(ctx context.Context) error {
		d, ok := ctx.Deadline()
		hasDeadline = ok
		deadline = time.Until(d)
		return ctx.Err()
	})
	w.Flush()

	ops, _ := f.snapshot()
	assert.Empty(t, ops)
	require.True(t, hasDeadline)
	assert.Greater(t, deadline, DefaultWriteTimeout/2)
}
