// Package timer provides a manually clocked one-shot timer facility for hosts
// without their own and for offline simulation.
package timer

import (
	"container/heap"
	"sync"
	"time"
)

type task struct {
	due time.Duration
	seq uint64
	fn  func()
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Manager schedules callbacks against a virtual clock advanced by the host.
type Manager struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks taskHeap
}

// New returns a manager at time zero.
func New() *Manager {
	return &Manager{}
}

// After schedules fn to run once delay has elapsed. Negative delays fire on
// the next Advance.
func (m *Manager) After(delay time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	heap.Push(&m.tasks, &task{due: m.now + delay, seq: m.seq, fn: fn})
}

// Advance moves the clock forward by d and runs every task that became due,
// in due order. Callbacks run without the lock held and may schedule more
// work; anything they schedule inside the window also fires. Returns the
// number of callbacks run.
func (m *Manager) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 || m.tasks[0].due > target {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		t := heap.Pop(&m.tasks).(*task)
		if t.due > m.now {
			m.now = t.due
		}
		m.mu.Unlock()

		t.fn()
		fired++
	}
}

// MapChange drops every pending task, as the host does with timers flagged to
// stop on map change. Returns the number dropped.
func (m *Manager) MapChange() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.tasks)
	m.tasks = nil
	return n
}

// Pending returns the number of tasks waiting to fire.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Now returns the virtual clock.
func (m *Manager) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
