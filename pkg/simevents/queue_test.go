package simevents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueOrdersByTimeThenPriorityThenSeq(t *testing.T) {
	q := NewQueue()

	// Inserted out of order on purpose.
	q.Push(NewSchedulerRun(1)) // time=1, prio=2, seq=0
	q.Push(NewSubmit(1, 0, 1)) // time=1, prio=1, seq=1 -> should pop before the above
	q.Push(NewSubmit(0, 0, 1)) // time=0, prio=1, seq=2 -> should pop first
	q.Push(NewTaskFinish(1, 9, 0, 0)) // time=1, prio=1, seq=3 -> ties with seq=1 on (time,prio), seq breaks tie

	first := q.Pop()
	assert.Equal(t, 0.0, first.Time)
	assert.Equal(t, KindSubmit, first.Kind)

	second := q.Pop()
	assert.Equal(t, 1.0, second.Time)
	assert.Equal(t, 1, second.Priority)
	assert.Equal(t, KindSubmit, second.Kind)

	third := q.Pop()
	assert.Equal(t, 1.0, third.Time)
	assert.Equal(t, 1, third.Priority)
	assert.Equal(t, KindTaskFinish, third.Kind)

	fourth := q.Pop()
	assert.Equal(t, KindSchedulerRun, fourth.Kind)

	assert.True(t, q.IsEmpty())
}

func TestQueueAny(t *testing.T) {
	q := NewQueue()
	q.Push(NewSubmit(5, 1, 1))

	assert.True(t, q.Any(func(e Event) bool { return e.Kind == KindSubmit }))
	assert.False(t, q.Any(func(e Event) bool { return e.Kind == KindSchedulerRun }))
}

func TestQueueLenAndEmpty(t *testing.T) {
	q := NewQueue()
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())

	q.Push(NewSchedulerRun(0))
	assert.False(t, q.IsEmpty())
	assert.Equal(t, 1, q.Len())
}

func TestQueueStableUnderManyInsertions(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 100; i++ {
		q.Push(NewSchedulerRun(0))
	}
	var lastSeq uint64
	for !q.IsEmpty() {
		e := q.Pop()
		assert.GreaterOrEqual(t, e.Seq, lastSeq)
		lastSeq = e.Seq
	}
}
