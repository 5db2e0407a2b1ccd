package engine

import (
	"sort"

	"github.com/cuemby/drfsim/pkg/log"
	"github.com/cuemby/drfsim/pkg/resource"
	"github.com/cuemby/drfsim/pkg/simtypes"
)

// preemptionCandidate is a qualifying (node, victim set) pair discovered by
// findPreemptionCandidate, along with its wasted-work cost.
type preemptionCandidate struct {
	victimApp *simtypes.Application
	node      *simtypes.Node
	victims   []*simtypes.Task // ascending cost order; last entry is costliest
	totalCost float64
}

// findPreemptionCandidate runs the cost-aware preemption evaluator. winner
// is the application whose head pending task winnerTask is blocked; it
// returns the cheapest qualifying candidate across all nodes, or nil if
// none qualifies.
func (e *Engine) findPreemptionCandidate(winner *simtypes.Application, winnerTask *simtypes.Task) *preemptionCandidate {
	victimApp := e.maxShareRunningApp()
	if victimApp == nil {
		return nil
	}
	if victimApp.DominantShare <= winner.DominantShare {
		return nil
	}

	var best *preemptionCandidate
	for _, nodeID := range e.nodeOrder {
		node := e.nodes[nodeID]
		candidate := e.evaluateNode(node, winner, winnerTask, victimApp)
		if candidate == nil {
			continue
		}
		if best == nil || candidate.totalCost < best.totalCost {
			best = candidate
		}
	}
	return best
}

// maxShareRunningApp returns the application with the greatest dominant
// share among those with at least one running task, ties broken by
// ascending app id. Returns nil if no application has a running task.
func (e *Engine) maxShareRunningApp() *simtypes.Application {
	var best *simtypes.Application
	for _, id := range e.appOrder {
		a := e.apps[id]
		if !a.HasRunning() {
			continue
		}
		if best == nil || a.DominantShare > best.DominantShare {
			best = a
		}
	}
	return best
}

// taskCost is the wasted-work cost of preempting t as of the engine's
// current time: elapsed time invested times the task's own dominant
// resource share.
func (e *Engine) taskCost(t *simtypes.Task) float64 {
	return t.ElapsedAt(e.currentTime) * resource.Dominant(t.Requirements, e.clusterTotal)
}

// evaluateNode runs the per-node search: gather victimApp's tasks on node,
// accumulate the cheapest prefix that frees enough room for winnerTask, and
// check the three feasibility/benefit predicates (hierarchy preservation,
// fairness gain, economic test). Returns nil if node does not qualify.
func (e *Engine) evaluateNode(node *simtypes.Node, winner *simtypes.Application, winnerTask *simtypes.Task, victimApp *simtypes.Application) *preemptionCandidate {
	pool := node.RunningByApp(victimApp.ID)
	if len(pool) == 0 {
		return nil
	}

	sort.SliceStable(pool, func(i, j int) bool {
		ci, cj := e.taskCost(pool[i]), e.taskCost(pool[j])
		if ci != cj {
			return ci < cj
		}
		return pool[i].ID < pool[j].ID
	})

	freed := resource.New(e.dimension)
	var victims []*simtypes.Task
	var totalCost float64

	satisfied := false
	for _, t := range pool {
		victims = append(victims, t)
		totalCost += e.taskCost(t)

		var err error
		freed, err = freed.Add(t.Requirements)
		if err != nil {
			return nil
		}

		remaining, err := node.Used.Sub(freed)
		if err != nil {
			continue
		}
		afterAdd, err := remaining.Add(winnerTask.Requirements)
		if err != nil {
			continue
		}
		if afterAdd.LessEqual(node.Capacity) {
			satisfied = true
			break
		}
	}
	if !satisfied {
		return nil
	}

	winnerUsageAfter, err := winner.Usage.Add(winnerTask.Requirements)
	if err != nil {
		return nil
	}
	victimUsageAfter, err := victimApp.Usage.Sub(freed)
	if err != nil {
		return nil
	}

	sWAfter := resource.Dominant(winnerUsageAfter, e.clusterTotal)
	sPAfter := resource.Dominant(victimUsageAfter, e.clusterTotal)

	if !(sPAfter > sWAfter) {
		return nil
	}

	gain := victimApp.DominantShare - sPAfter
	if !(gain > e.tuning.Epsilon) {
		return nil
	}

	if !(gain*e.tuning.Alpha > totalCost*e.tuning.Beta) {
		return nil
	}

	return &preemptionCandidate{
		victimApp: victimApp,
		node:      node,
		victims:   victims,
		totalCost: totalCost,
	}
}

// applyPreemption evicts candidate's victim set from its node and
// application, returns them to PENDING at the head of the victim
// application's pending FIFO (costliest victim nearest the head, matching
// the documented reinsertion policy), and then places winnerTask on the
// freed node exactly as a direct placement.
func (e *Engine) applyPreemption(winner *simtypes.Application, winnerTask *simtypes.Task, candidate *preemptionCandidate) error {
	node := candidate.node
	victimApp := candidate.victimApp
	nodeLogger := log.WithNodeID(e.logger, node.ID)

	freed := resource.New(e.dimension)
	for _, t := range candidate.victims {
		delete(node.Running, t.ID)
		delete(victimApp.Running, t.ID)

		var err error
		freed, err = freed.Add(t.Requirements)
		if err != nil {
			return invariantf(err, "accumulating freed resources for task %d", t.ID)
		}

		log.WithTaskID(log.WithAppID(nodeLogger, victimApp.ID), t.ID).
			Debug().Float64("time", e.currentTime).Msg("task preempted")
	}

	used, err := node.Used.Sub(freed)
	if err != nil {
		return invariantf(err, "node %d usage would go negative evicting for task %d", node.ID, winnerTask.ID)
	}
	node.Used = used

	usage, err := victimApp.Usage.Sub(freed)
	if err != nil {
		return invariantf(err, "application %d usage would go negative evicting for task %d", victimApp.ID, winnerTask.ID)
	}
	victimApp.Usage = usage
	victimApp.RefreshDominantShare(e.clusterTotal)

	for _, t := range candidate.victims {
		t.MarkPending()
	}
	victimApp.PrependPending(candidate.victims...)

	e.statsPreemptions++
	e.statsPreemptedTasks += int64(len(candidate.victims))
	e.statsWastedWorkCost += candidate.totalCost

	return e.placeDirect(winner, node)
}
