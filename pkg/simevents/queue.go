package simevents

import "container/heap"

// Queue is a min-priority queue of Events ordered by (Time, Priority, Seq).
// The zero value is not usable; construct with NewQueue.
type Queue struct {
	h   eventHeap
	seq uint64
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Push inserts an event, assigning it the next monotonic sequence number.
func (q *Queue) Push(e Event) {
	e.Seq = q.seq
	q.seq++
	heap.Push(&q.h, e)
}

// Pop removes and returns the earliest-ordered event. It panics if the queue
// is empty; callers must check IsEmpty first.
func (q *Queue) Pop() Event {
	return heap.Pop(&q.h).(Event)
}

// IsEmpty reports whether the queue holds no events.
func (q *Queue) IsEmpty() bool {
	return q.h.Len() == 0
}

// Len returns the number of events currently queued.
func (q *Queue) Len() int {
	return q.h.Len()
}

// Any reports whether some queued event satisfies predicate. Used to avoid
// enqueuing a duplicate SchedulerRun at the current time.
func (q *Queue) Any(predicate func(Event) bool) bool {
	for _, e := range q.h {
		if predicate(e) {
			return true
		}
	}
	return false
}

// eventHeap implements container/heap.Interface over a slice of Events,
// ordered on (Time, Priority, Seq) only — the payload never participates.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Seq < h[j].Seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
