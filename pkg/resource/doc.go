/*
Package resource implements the fixed-width resource-vector algebra shared by
every other package in drfsim.

A Vector is a tuple of non-negative float64s of fixed dimension D: one
component per resource kind (CPU, memory, GPU, ...). Every Vector in a single
simulation run shares the same D, fixed at construction of the cluster total.

# Dominant share

The fairness objective of Dominant Resource Fairness is expressed entirely in
terms of one operation: the dominant share of a usage vector U against a
cluster total R,

	s = max_r( U[r] / R[r] )

with the convention that 0/0 and x/0 both yield 0 rather than NaN or +Inf, so
a resource kind a cluster has none of never contributes a share. Dominant
computes this for both real updates (Application.s_i) and the hypothetical
what-if evaluations the preemption evaluator needs.

# Invariant enforcement

Sub returns an error rather than a negative vector when the subtrahend
exceeds the minuend in any component — resource accounting in this simulator
must never go negative, and every caller is expected to check the result
rather than let it happen silently.
*/
package resource
