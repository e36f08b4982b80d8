// Package schedule provides cancellable repeating tasks behind a seam, so callers
// can run on the wall clock in production and on a virtual clock in tests.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle controls one scheduled task. Stop is immediate and idempotent.
type Handle interface {
	Stop()
}

// MinInterval is the shortest repeat interval. Every raises shorter or non-positive intervals to it.
const MinInterval = time.Millisecond

// Scheduler runs fn every interval until the returned handle is stopped
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
	Now() time.Time
}

// Real schedules on the wall clock
type Real struct{}

// NewReal creates a wall-clock scheduler
func NewReal() *Real {
	return &Real{}
}

func (Real) Now() time.Time { return time.Now() }

func (Real) Every(interval time.Duration, fn func()) Handle {
	h := &realHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(clampInterval(interval))

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				// a stop racing the tick wins
				select {
				case <-h.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return h
}

type realHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *realHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// Manual is a virtual clock. Ticks fire only from Advance, synchronously and in time order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m        *Manual
	seq      int
	interval time.Duration
	next     time.Time
	fn       func()
	stopped  bool
}

// NewManual creates a virtual clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	interval = clampInterval(interval)
	m.seq++
	t := &manualTask{
		m:        m,
		seq:      m.seq,
		interval: interval,
		next:     m.now.Add(interval),
		fn:       fn,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing every tick that falls due on the way
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)

	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.next
		t.next = t.next.Add(t.interval)

		// fn may stop itself or schedule new tasks
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}

	m.now = target
	m.mu.Unlock()
}

// Pending returns the number of tasks that have not been stopped
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// nextDue returns the earliest live task due at or before target. Callers hold m.mu.
func (m *Manual) nextDue(target time.Time) *manualTask {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.tasks = live

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].next.Equal(m.tasks[j].next) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].next.Before(m.tasks[j].next)
	})

	if len(m.tasks) == 0 || m.tasks[0].next.After(target) {
		return nil
	}
	return m.tasks[0]
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}

func (t *manualTask) Stop() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.stopped = true
}
