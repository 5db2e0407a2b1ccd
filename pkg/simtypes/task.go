package simtypes

import "github.com/cuemby/drfsim/pkg/resource"

// Status is the lifecycle state of a Task.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Task is a single instance of an application's prototype: one unit of work
// that occupies Requirements worth of resources on exactly one node for
// Duration simulated seconds once it starts running.
type Task struct {
	ID           int64
	AppID        int64
	Requirements resource.Vector
	Duration     float64

	Status    Status
	StartTime float64 // -1 when not running
	NodeID    int64   // -1 when not placed

	// Elapsed is reset to 0 by MarkRunning on every placement and is not
	// otherwise updated. Wasted-work cost is computed from ElapsedAt, which
	// measures from the current spell's StartTime, so no elapsed time
	// carries over from a spell that ended in preemption.
	Elapsed float64
}

// NewTask creates a PENDING task with the given id, owner and prototype.
func NewTask(id, appID int64, requirements resource.Vector, duration float64) *Task {
	return &Task{
		ID:           id,
		AppID:        appID,
		Requirements: requirements.Clone(),
		Duration:     duration,
		Status:       StatusPending,
		StartTime:    -1,
		NodeID:       -1,
	}
}

// ElapsedAt returns how long the task has been running as of currentTime: 0
// unless the task is RUNNING and has a valid start time.
func (t *Task) ElapsedAt(currentTime float64) float64 {
	if t.Status != StatusRunning || t.StartTime < 0 {
		return 0
	}
	return currentTime - t.StartTime
}

// MarkRunning transitions the task to RUNNING on the given node at the given
// time, resetting its elapsed accumulator per the no-carryover policy.
func (t *Task) MarkRunning(nodeID int64, currentTime float64) {
	t.Status = StatusRunning
	t.StartTime = currentTime
	t.NodeID = nodeID
	t.Elapsed = 0
}

// MarkPending returns a preempted or newly created task to PENDING, clearing
// its placement.
func (t *Task) MarkPending() {
	t.Status = StatusPending
	t.StartTime = -1
	t.NodeID = -1
}

// MarkFinished transitions the task to its terminal FINISHED state.
func (t *Task) MarkFinished() {
	t.Status = StatusFinished
}
