package game

import (
	"container/heap"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks at a point on the session clock.
type Scheduler interface {
	Schedule(at time.Duration, fn func()) Timer
}

// TimerQueue is the host's Scheduler. Callbacks only run inside Advance, on the
// caller's goroutine. It is not safe for concurrent use.
type TimerQueue struct {
	items timerHeap
	seq   uint64
}

// NewTimerQueue creates an empty queue.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

type queuedTimer struct {
	at    time.Duration
	seq   uint64
	fn    func()
	index int // heap index, -1 once fired or stopped
	queue *TimerQueue
}

func (t *queuedTimer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.queue.items, t.index)
	t.index = -1
	return true
}

// Schedule queues fn to run on the first Advance whose now is >= at.
func (q *TimerQueue) Schedule(at time.Duration, fn func()) Timer {
	t := &queuedTimer{at: at, seq: q.seq, fn: fn, queue: q}
	q.seq++
	heap.Push(&q.items, t)
	return t
}

// Advance fires every due timer in deadline order, ties in scheduling order.
// Timers scheduled by a callback fire in the same call when they are already due.
func (q *TimerQueue) Advance(now time.Duration) int {
	fired := 0
	for len(q.items) > 0 && q.items[0].at <= now {
		t := heap.Pop(&q.items).(*queuedTimer)
		t.index = -1
		t.fn()
		fired++
	}
	return fired
}

// Len is the number of pending timers.
func (q *TimerQueue) Len() int {
	return len(q.items)
}

// Clear drops every pending timer.
func (q *TimerQueue) Clear() {
	for _, t := range q.items {
		t.index = -1
	}
	q.items = q.items[:0]
}

type timerHeap []*queuedTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*queuedTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
