package simtypes

import (
	"testing"

	"github.com/cuemby/drfsim/pkg/resource"
	"github.com/stretchr/testify/assert"
)

func TestTaskElapsedAt(t *testing.T) {
	task := NewTask(1, 0, resource.Vector{1, 1}, 5)
	assert.Equal(t, 0.0, task.ElapsedAt(10))

	task.MarkRunning(2, 3)
	assert.Equal(t, 2.0, task.ElapsedAt(5))

	task.MarkPending()
	assert.Equal(t, 0.0, task.ElapsedAt(5))
	assert.Equal(t, -1.0, task.StartTime)
	assert.Equal(t, int64(-1), task.NodeID)
}

func TestTaskMarkFinished(t *testing.T) {
	task := NewTask(1, 0, resource.Vector{1}, 1)
	task.MarkRunning(0, 0)
	task.MarkFinished()
	assert.Equal(t, StatusFinished, task.Status)
}

func TestApplicationPendingFIFOAndPrepend(t *testing.T) {
	app := NewApplication(0, Prototype{Requirements: resource.Vector{1}, Duration: 1}, 1)
	t1 := NewTask(1, 0, resource.Vector{1}, 1)
	t2 := NewTask(2, 0, resource.Vector{1}, 1)
	app.EnqueuePending(t1)
	app.EnqueuePending(t2)

	head, ok := app.HeadPending()
	assert.True(t, ok)
	assert.Equal(t, t1, head)

	popped := app.PopHeadPending()
	assert.Equal(t, t1, popped)

	t3 := NewTask(3, 0, resource.Vector{1}, 1)
	app.PrependPending(t3)
	head, ok = app.HeadPending()
	assert.True(t, ok)
	assert.Equal(t, t3, head)
}

// TestApplicationPrependPendingMultiUsesLastArgAsHead mirrors calling
// PrependPending once with a whole cost-ordered victim slice: per the
// preemption evaluator's contract, the slice is ascending cost (cheapest
// first), and the *last* element (costliest) must land at the new head,
// exactly as repeatedly inserting each at position 0 in ascending order
// would.
func TestApplicationPrependPendingMultiUsesLastArgAsHead(t *testing.T) {
	app := NewApplication(0, Prototype{Requirements: resource.Vector{1}, Duration: 1}, 1)
	cheap := NewTask(1, 0, resource.Vector{1}, 1)
	mid := NewTask(2, 0, resource.Vector{1}, 1)
	costly := NewTask(3, 0, resource.Vector{1}, 1)
	existing := NewTask(4, 0, resource.Vector{1}, 1)
	app.EnqueuePending(existing)

	app.PrependPending(cheap, mid, costly)

	assert.Equal(t, []*Task{costly, mid, cheap, existing}, app.Pending)
}

func TestApplicationRefreshDominantShare(t *testing.T) {
	app := NewApplication(0, Prototype{Requirements: resource.Vector{1, 4}, Duration: 1}, 2)
	app.Usage = resource.Vector{2, 4}
	app.RefreshDominantShare(resource.Vector{4, 8})
	assert.InDelta(t, 0.5, app.DominantShare, 1e-9)
}

func TestApplicationHasPendingHasRunning(t *testing.T) {
	app := NewApplication(0, Prototype{Requirements: resource.Vector{1}, Duration: 1}, 1)
	assert.False(t, app.HasPending())
	assert.False(t, app.HasRunning())

	task := NewTask(1, 0, resource.Vector{1}, 1)
	app.EnqueuePending(task)
	assert.True(t, app.HasPending())

	app.PopHeadPending()
	app.Running[task.ID] = task
	assert.True(t, app.HasRunning())
}

func TestNodeFits(t *testing.T) {
	node := NewNode(0, resource.Vector{8, 16})
	assert.True(t, node.Fits(resource.Vector{8, 16}))
	assert.False(t, node.Fits(resource.Vector{9, 0}))

	node.Used = resource.Vector{4, 4}
	assert.True(t, node.Fits(resource.Vector{4, 12}))
	assert.False(t, node.Fits(resource.Vector{4, 13}))
}

func TestNodeRunningByApp(t *testing.T) {
	node := NewNode(0, resource.Vector{8, 16})
	t1 := NewTask(1, 10, resource.Vector{1, 1}, 1)
	t2 := NewTask(2, 20, resource.Vector{1, 1}, 1)
	t3 := NewTask(3, 10, resource.Vector{1, 1}, 1)
	node.Running[1] = t1
	node.Running[2] = t2
	node.Running[3] = t3

	got := node.RunningByApp(10)
	assert.Len(t, got, 2)
	for _, task := range got {
		assert.Equal(t, int64(10), task.AppID)
	}
}
