/*
Package engine implements the deterministic, single-threaded discrete-event
core of drfsim: the event loop, the DRF placement algorithm, and the
cost-aware preemption evaluator.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                        Engine.Run                           │
	└────────────────┬───────────────────────────────────────────┘
	                 │ pop earliest (time, priority, seq)
	                 ▼
	┌────────────────────────────────────────────────────────────┐
	│  Submit         → instantiate tasks, append to pending      │
	│  TaskFinish     → release resources, drop from global map   │
	│  SchedulerRun   → run one DRF placement cycle (below)       │
	└────────────────┬───────────────────────────────────────────┘
	                 │ after any non-SchedulerRun event, if none queued
	                 ▼
	          enqueue SchedulerRun at current_time

A scheduling cycle is a fixed point: it runs rounds until one makes no
allocation.

	┌─────────────────────── one round ───────────────────────────┐
	│ sort apps with pending work by ascending s_i                 │
	│ for each app, in that order:                                 │
	│   head := app's first pending task                           │
	│   if some node first-fits head:        PLACE, next round     │
	│   else: ask the preemption evaluator for a victim set        │
	│     if one qualifies:                  EVICT + PLACE, next   │
	│     else:                              try the next app      │
	│ if no app in the round could place anything: cycle ends      │
	└────────────────────────────────────────────────────────────┘

# Preemption

The evaluator (preempt.go) restricts itself to the single application with
the greatest current dominant share, and within it to one node at a time: it
cost-sorts that application's tasks running on a node, greedily accumulates
the cheapest prefix that frees enough room for the blocked task, and accepts
the node only if hierarchy preservation, a minimum fairness gain, and an
economic gain/cost test all hold. Across nodes it keeps the cheapest
qualifying candidate.

# Determinism

Engine owns its own task-id and event-sequence counters as struct fields
rather than package-level state, so two Engines in the same process never
share ids or event ordering. Given identical constructor inputs, two
Engine.Run calls produce byte-for-byte identical event sequences,
allocations and final state.
*/
package engine
