package simtypes

import "github.com/cuemby/drfsim/pkg/resource"

// Node is a scheduling target: an immutable capacity R_k, a live usage
// counter C_k, and the set of tasks currently running on it.
type Node struct {
	ID       int64
	Capacity resource.Vector

	Used    resource.Vector
	Running map[int64]*Task
}

// NewNode creates a Node with zeroed usage.
func NewNode(id int64, capacity resource.Vector) *Node {
	return &Node{
		ID:       id,
		Capacity: capacity.Clone(),
		Used:     resource.New(len(capacity)),
		Running:  make(map[int64]*Task),
	}
}

// Fits reports whether requirements would fit alongside the node's current
// usage without exceeding capacity: (Used + requirements) <= Capacity.
func (n *Node) Fits(requirements resource.Vector) bool {
	sum, err := n.Used.Add(requirements)
	if err != nil {
		return false
	}
	return sum.LessEqual(n.Capacity)
}

// RunningByApp returns the subset of n's running tasks owned by appID, in
// map iteration order (the caller is expected to sort by cost afterward, as
// the preemption evaluator does).
func (n *Node) RunningByApp(appID int64) []*Task {
	var out []*Task
	for _, t := range n.Running {
		if t.AppID == appID {
			out = append(out, t)
		}
	}
	return out
}
