package simtypes

import "github.com/cuemby/drfsim/pkg/resource"

// Prototype describes the fixed shape of every task an application submits.
type Prototype struct {
	Requirements resource.Vector
	Duration     float64
}

// Application is a DRF participant: a FIFO of pending tasks waiting for a
// node, a map of currently running tasks, and the two quantities the DRF
// placement algorithm sorts and compares on: Usage (U_i) and DominantShare
// (s_i).
type Application struct {
	ID        int64
	Prototype Prototype

	Pending []*Task
	Running map[int64]*Task

	Usage         resource.Vector
	DominantShare float64
}

// NewApplication creates an Application with empty queues and zeroed usage,
// dimensioned to match the cluster's resource vectors.
func NewApplication(id int64, prototype Prototype, dimension int) *Application {
	return &Application{
		ID:        id,
		Prototype: prototype,
		Pending:   nil,
		Running:   make(map[int64]*Task),
		Usage:     resource.New(dimension),
	}
}

// RefreshDominantShare recomputes DominantShare from the current Usage
// against the cluster total. Callers must invoke this after any mutation of
// Usage so the two fields never drift apart, per simtypes' doc.go invariant.
func (a *Application) RefreshDominantShare(clusterTotal resource.Vector) {
	a.DominantShare = resource.Dominant(a.Usage, clusterTotal)
}

// HeadPending returns the application's next candidate task for placement
// (the head of its pending FIFO) and whether one exists.
func (a *Application) HeadPending() (*Task, bool) {
	if len(a.Pending) == 0 {
		return nil, false
	}
	return a.Pending[0], true
}

// PopHeadPending removes and returns the head of the pending FIFO. Callers
// must only call this after HeadPending confirmed a task exists.
func (a *Application) PopHeadPending() *Task {
	t := a.Pending[0]
	a.Pending = a.Pending[1:]
	return t
}

// PrependPending pushes tasks back onto the head of the pending FIFO, used
// when preempted tasks are returned to their application. It mirrors
// inserting each task at position 0 in turn, in the order given: the first
// element of tasks ends up deepest among the inserted block and the last
// element of tasks ends up as the new head.
func (a *Application) PrependPending(tasks ...*Task) {
	reversed := make([]*Task, len(tasks))
	for i, t := range tasks {
		reversed[len(tasks)-1-i] = t
	}
	a.Pending = append(reversed, a.Pending...)
}

// EnqueuePending appends a newly submitted task to the tail of the pending
// FIFO.
func (a *Application) EnqueuePending(t *Task) {
	a.Pending = append(a.Pending, t)
}

// HasPending reports whether the application has at least one pending task.
func (a *Application) HasPending() bool {
	return len(a.Pending) > 0
}

// HasRunning reports whether the application has at least one running task
// anywhere in the cluster; used by the preemption evaluator to restrict
// victim-app selection to applications that actually hold resources.
func (a *Application) HasRunning() bool {
	return len(a.Running) > 0
}
