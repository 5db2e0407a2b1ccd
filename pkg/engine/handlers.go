package engine

import (
	"github.com/cuemby/drfsim/pkg/simevents"
	"github.com/cuemby/drfsim/pkg/simtypes"
)

// Run drives the event loop to completion: pop the earliest event, advance
// current_time, dispatch, and repeat until the queue is empty. It returns
// the first InvariantError encountered, or nil on a clean run to exhaustion.
func (e *Engine) Run() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.queue.Any(isSchedulerRunAt(0)) {
		e.queue.Push(simevents.NewSchedulerRun(0))
	}

	dispatched := 0
	for !e.queue.IsEmpty() {
		if dispatched >= e.maxEvents {
			return ErrTooManyEvents
		}
		dispatched++

		ev := e.queue.Pop()
		e.currentTime = ev.Time
		e.statsEventsDispatched[ev.Kind]++

		switch ev.Kind {
		case simevents.KindSubmit:
			e.handleSubmit(ev)
			e.requeueSchedulerRunIfNeeded()
		case simevents.KindTaskFinish:
			if err := e.handleTaskFinish(ev); err != nil {
				return err
			}
			e.requeueSchedulerRunIfNeeded()
		case simevents.KindSchedulerRun:
			if err := e.runSchedulingCycle(); err != nil {
				return err
			}
		}

		e.logger.Debug().
			Float64("time", e.currentTime).
			Int("kind", int(ev.Kind)).
			Msg("dispatched event")
	}

	return nil
}

func isSchedulerRunAt(t float64) func(simevents.Event) bool {
	return func(ev simevents.Event) bool {
		return ev.Kind == simevents.KindSchedulerRun && ev.Time == t
	}
}

// requeueSchedulerRunIfNeeded ensures one SchedulerRun is pending at
// current_time after any state-changing event, unless one is already
// queued.
func (e *Engine) requeueSchedulerRunIfNeeded() {
	if e.queue.Any(isSchedulerRunAt(e.currentTime)) {
		return
	}
	e.queue.Push(simevents.NewSchedulerRun(e.currentTime))
}

// handleSubmit instantiates NumTasks new tasks for the addressed application
// from its prototype and appends them to its pending FIFO.
func (e *Engine) handleSubmit(ev simevents.Event) {
	app, ok := e.apps[ev.AppID]
	if !ok {
		// Construction already rejects unknown app ids in the schedule; this
		// can only happen if a caller hand-builds events, which the public
		// API does not expose.
		return
	}
	for i := 0; i < ev.NumTasks; i++ {
		t := simtypes.NewTask(e.nextTaskID(), app.ID, app.Prototype.Requirements, app.Prototype.Duration)
		e.tasks[t.ID] = t
		app.EnqueuePending(t)
	}
}

// handleTaskFinish releases a finished task's resources. A finish event is
// scheduled against one specific placement (a running spell on one node);
// if the task was preempted since, it is reused: it re-enters PENDING and,
// later, a fresh RUNNING spell with its own finish event, but keeps its id
// and its entry in the global task map. So a stale finish event is not
// detected by id absence but by the placement it names no longer matching
// the task's current state (status, node, and a finish time equal to the
// current spell's StartTime+Duration), which lets preempted tasks stay in
// the global map without needing eviction on preemption. A
// finish event whose task is entirely absent (should not occur through the
// public API, but kept as a defensive no-op) is ignored the same way.
func (e *Engine) handleTaskFinish(ev simevents.Event) error {
	t, ok := e.tasks[ev.TaskID]
	if !ok || t.Status != simtypes.StatusRunning || t.NodeID != ev.NodeID || ev.Time != t.StartTime+t.Duration {
		e.logger.Debug().Int64("task_id", ev.TaskID).Msg("stale finish event for preempted or superseded task ignored")
		return nil
	}

	node, ok := e.nodes[t.NodeID]
	if !ok {
		return invariantf(nil, "finishing task %d references unknown node %d", t.ID, t.NodeID)
	}
	app, ok := e.apps[t.AppID]
	if !ok {
		return invariantf(nil, "finishing task %d references unknown application %d", t.ID, t.AppID)
	}

	used, err := node.Used.Sub(t.Requirements)
	if err != nil {
		return invariantf(err, "node %d usage would go negative releasing task %d", node.ID, t.ID)
	}
	usage, err := app.Usage.Sub(t.Requirements)
	if err != nil {
		return invariantf(err, "application %d usage would go negative releasing task %d", app.ID, t.ID)
	}

	node.Used = used
	delete(node.Running, t.ID)

	app.Usage = usage
	delete(app.Running, t.ID)
	app.RefreshDominantShare(e.clusterTotal)

	t.MarkFinished()
	delete(e.tasks, t.ID)

	return nil
}
