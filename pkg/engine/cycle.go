package engine

import (
	"sort"
	"time"

	"github.com/cuemby/drfsim/pkg/log"
	"github.com/cuemby/drfsim/pkg/resource"
	"github.com/cuemby/drfsim/pkg/simevents"
	"github.com/cuemby/drfsim/pkg/simtypes"
)

// runSchedulingCycle executes rounds to a fixed point: a round sorts
// applications with pending work ascending by dominant share, then tries
// direct placement and, failing that, preemption, for the head task of each
// app in turn, stopping at the first allocation to re-sort for the next
// round. It terminates when a round makes no allocation at all.
func (e *Engine) runSchedulingCycle() error {
	start := time.Now()
	defer func() {
		e.cycleDurations = append(e.cycleDurations, time.Since(start))
	}()

	for {
		candidates := e.appsWithPending()
		if len(candidates) == 0 {
			return nil
		}

		allocated, err := e.runOneRound(candidates)
		if err != nil {
			return err
		}
		if !allocated {
			return nil
		}
	}
}

// appsWithPending returns applications with at least one pending task,
// sorted ascending by dominant share, ties broken by ascending app id.
func (e *Engine) appsWithPending() []*simtypes.Application {
	var out []*simtypes.Application
	for _, id := range e.appOrder {
		a := e.apps[id]
		if a.HasPending() {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DominantShare != out[j].DominantShare {
			return out[i].DominantShare < out[j].DominantShare
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// runOneRound attempts, in order, to place the head pending task of each
// candidate application. It stops and returns true at the first successful
// allocation (direct or via preemption); returns false if none succeeded.
func (e *Engine) runOneRound(candidates []*simtypes.Application) (bool, error) {
	for _, app := range candidates {
		head, ok := app.HeadPending()
		if !ok {
			continue
		}

		if node := e.firstFitNode(head.Requirements); node != nil {
			if err := e.placeDirect(app, node); err != nil {
				return false, err
			}
			e.statsPlacements++
			return true, nil
		}

		candidate := e.findPreemptionCandidate(app, head)
		if candidate == nil {
			continue
		}
		if err := e.applyPreemption(app, head, candidate); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// firstFitNode returns the first node, in ascending node-id order, whose
// remaining capacity fits requirements, or nil if none does.
func (e *Engine) firstFitNode(requirements resource.Vector) *simtypes.Node {
	for _, id := range e.nodeOrder {
		n := e.nodes[id]
		if n.Fits(requirements) {
			return n
		}
	}
	return nil
}

// placeDirect moves app's head pending task onto node: pop from pending,
// mark running, update both usage counters, recompute the app's dominant
// share, and schedule its finish event.
func (e *Engine) placeDirect(app *simtypes.Application, node *simtypes.Node) error {
	t := app.PopHeadPending()

	used, err := node.Used.Add(t.Requirements)
	if err != nil {
		return invariantf(err, "node %d usage overflow placing task %d", node.ID, t.ID)
	}
	if !used.LessEqual(node.Capacity) {
		return invariantf(nil, "node %d capacity exceeded placing task %d", node.ID, t.ID)
	}
	usage, err := app.Usage.Add(t.Requirements)
	if err != nil {
		return invariantf(err, "application %d usage overflow placing task %d", app.ID, t.ID)
	}

	node.Used = used
	node.Running[t.ID] = t

	app.Usage = usage
	app.Running[t.ID] = t
	app.RefreshDominantShare(e.clusterTotal)

	t.MarkRunning(node.ID, e.currentTime)

	e.queue.Push(simevents.NewTaskFinish(e.currentTime+t.Duration, t.ID, t.AppID, t.NodeID))

	taskLogger := log.WithTaskID(log.WithAppID(log.WithNodeID(e.logger, node.ID), app.ID), t.ID)
	taskLogger.Debug().Float64("time", e.currentTime).Msg("task placed")

	return nil
}
