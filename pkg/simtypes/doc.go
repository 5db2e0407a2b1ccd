/*
Package simtypes holds the entity model of a drfsim run: Task, Application
and Node, plus the invariants that must hold for them at every quiescent
point of the engine's event loop.

# Ownership

The engine's global task map is the sole owner of every Task, keyed by its
id. Node.Running and Application.Running never hold a second, divergent copy
of a Task; they hold the same *Task pointer that lives in the global map, so
there is exactly one place a Task's mutable fields (Status, StartTime,
NodeID) are ever written. This mirrors how cuemby-warren treats its manager's
store as the sole owner of *types.Container, with callers only ever handling
borrowed pointers.

# Invariants

	Node:        0 <= Used <= Capacity (componentwise)
	             Used == sum of Requirements over Running
	Application: Usage == sum of Requirements over Running
	             DominantShare == resource.Dominant(Usage, clusterTotal)
	Task:        exactly one of {its app's Pending, its app's Running, terminated}
	             PENDING  => StartTime == -1, NodeID == -1
	             RUNNING  => StartTime >= 0, NodeID >= 0

pkg/engine is responsible for maintaining these at the boundary of every
event dispatch; this package only defines the shapes and the handful of pure
helpers (ElapsedAt, index-free membership checks) that make auditing them
straightforward.
*/
package simtypes
