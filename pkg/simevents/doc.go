/*
Package simevents implements the totally ordered event queue that drives a
drfsim run.

# Ordering

Every Event carries a (Time, Priority, Seq) triple and nothing else
participates in ordering:

	┌────────────────────────────────────────────────────────┐
	│                      Queue.Pop()                        │
	│                                                          │
	│   min-heap keyed on (Time, Priority, Seq)               │
	│                                                          │
	│   Time      simulated time the event fires               │
	│   Priority  1 = Submit / TaskFinish  (state changes)     │
	│             2 = SchedulerRun         (decisions)         │
	│   Seq       monotonic insertion ordinal, final tiebreak  │
	└────────────────────────────────────────────────────────┘

Fixing Submit and TaskFinish ahead of SchedulerRun at equal Time guarantees
state-changing events are fully applied before the engine makes a placement
decision at that instant. Seq makes the order total even between two events
of identical Time and Priority, which is what makes a run byte-for-byte
reproducible.

# Tagged variant, not a subclass hierarchy

Event is a single struct with a Kind discriminant and a payload field per
kind, modeling a base-event/subclass hierarchy as a sum type rather than
dynamic dispatch. Less never inspects the payload — only the three ordering
fields — so comparison stays branch-free in the hot path.

# Implementation

Queue wraps an unexported eventHeap that implements container/heap.Interface
directly, the same pattern used by joeycumines-go-utilpkg/eventloop's
timerHeap: a plain slice type with Len/Less/Swap/Push/Pop, driven through the
standard library's heap package rather than a hand-rolled heap.
*/
package simevents
