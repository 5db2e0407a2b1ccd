package engine

import (
	"testing"

	"github.com/cuemby/drfsim/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTuning() Tuning {
	return Tuning{Alpha: 1, Beta: 1, Epsilon: 1e-3}
}

// S1: no contention. Single node, single app, capacity is never a limit.
func TestEngineNoContention(t *testing.T) {
	nodes := []NodeSpec{{ID: 1, Capacity: resource.Vector{8, 16}}}
	apps := []AppSpec{{ID: 1, Requirements: resource.Vector{2, 4}, Duration: 5}}
	schedule := []Submission{{Time: 0, AppID: 1, NumTasks: 3}}

	eng, err := New(nodes, apps, schedule, defaultTuning())
	require.NoError(t, err)
	require.NoError(t, eng.Run())

	assert.Equal(t, 5.0, eng.Now())

	nodeStats := eng.NodeStats()
	require.Len(t, nodeStats, 1)
	assert.Equal(t, resource.Vector{0, 0}, nodeStats[0].Used)

	appStats := eng.AppStats()
	require.Len(t, appStats, 1)
	assert.Equal(t, 0.0, appStats[0].DominantShare)
	assert.Equal(t, 0, appStats[0].Pending)
	assert.Equal(t, 0, appStats[0].Running)
}

// S2: pure DRF, no preemption possible because the hierarchy condition
// fails from the start.
func TestEngineDRFInterleaveNoPreemption(t *testing.T) {
	nodes := []NodeSpec{
		{ID: 1, Capacity: resource.Vector{4, 8}},
		{ID: 2, Capacity: resource.Vector{4, 8}},
	}
	apps := []AppSpec{
		{ID: 1, Requirements: resource.Vector{1, 4}, Duration: 5},
		{ID: 2, Requirements: resource.Vector{2, 2}, Duration: 10},
	}
	schedule := []Submission{
		{Time: 0, AppID: 1, NumTasks: 3},
		{Time: 0, AppID: 2, NumTasks: 2},
	}

	eng, err := New(nodes, apps, schedule, defaultTuning())
	require.NoError(t, err)
	require.NoError(t, eng.Run())

	// Everything eventually drains; no task is ever left stuck pending
	// forever in an 8-wide, two-node cluster this lightly loaded.
	for _, stat := range eng.AppStats() {
		assert.Equal(t, 0, stat.Pending, "app %d should have no pending tasks left", stat.ID)
		assert.Equal(t, 0, stat.Running, "app %d should have no running tasks left", stat.ID)
	}
}

// S3: preemption fires once a higher-dominance app blocks a lower one and
// the economic test favors preempting a cheap, freshly-started task.
func TestEnginePreemptionFires(t *testing.T) {
	nodes := []NodeSpec{{ID: 1, Capacity: resource.Vector{8, 16}}}
	apps := []AppSpec{
		{ID: 1, Requirements: resource.Vector{1, 8}, Duration: 16},
		{ID: 2, Requirements: resource.Vector{1, 1}, Duration: 20},
	}
	schedule := []Submission{
		{Time: 0, AppID: 1, NumTasks: 2},
		{Time: 0.1, AppID: 2, NumTasks: 1},
	}

	eng, err := New(nodes, apps, schedule, Tuning{Alpha: 50, Beta: 10, Epsilon: 1e-3})
	require.NoError(t, err)
	require.NoError(t, eng.Run())

	// app1's prototype uses [1,8] and two of them exactly saturate the
	// memory dimension, leaving no room for app2's [1,1] at t=0.1 without an
	// eviction. Evicting one app1 task leaves app1 at s=0.5 above app2's
	// s=0.125, gains 0.5, and costs 0.1*0.5=0.05, so 0.5*50 > 0.05*10 holds.
	assert.Equal(t, int64(1), eng.Stats().PreemptedTasksTotal)

	var app2 AppStat
	for _, s := range eng.AppStats() {
		if s.ID == 2 {
			app2 = s
		}
	}
	assert.Equal(t, 0, app2.Pending)
}

// S4: same contention as S3, but a steep cost weight rejects the
// preemption; app2 waits for app1 to finish naturally at t=16.
func TestEnginePreemptionRejectedByEconomicTest(t *testing.T) {
	nodes := []NodeSpec{{ID: 1, Capacity: resource.Vector{8, 16}}}
	apps := []AppSpec{
		{ID: 1, Requirements: resource.Vector{1, 8}, Duration: 16},
		{ID: 2, Requirements: resource.Vector{1, 1}, Duration: 20},
	}
	schedule := []Submission{
		{Time: 0, AppID: 1, NumTasks: 2},
		{Time: 0.1, AppID: 2, NumTasks: 1},
	}

	eng, err := New(nodes, apps, schedule, Tuning{Alpha: 1, Beta: 1000, Epsilon: 1e-3})
	require.NoError(t, err)
	require.NoError(t, eng.Run())

	// Hierarchy and gain hold as in S3, but 0.5*1 > 0.05*1000 does not.
	// app2's task only ever gets to run once an app1 task naturally
	// finishes and frees room; the run must reach at least t=16 for that
	// to have happened, and everything must have drained by the end.
	assert.Equal(t, int64(0), eng.Stats().PreemptedTasksTotal)
	assert.GreaterOrEqual(t, eng.Now(), 16.0)
	for _, s := range eng.AppStats() {
		assert.Equal(t, 0, s.Pending)
		assert.Equal(t, 0, s.Running)
	}
}

// S5: a finish event for a task preempted earlier must be silently
// ignored rather than corrupting state.
func TestEngineFinishAfterPreemptionIgnored(t *testing.T) {
	nodes := []NodeSpec{{ID: 1, Capacity: resource.Vector{8, 16}}}
	apps := []AppSpec{
		{ID: 1, Requirements: resource.Vector{1, 8}, Duration: 16},
		{ID: 2, Requirements: resource.Vector{1, 1}, Duration: 20},
	}
	schedule := []Submission{
		{Time: 0, AppID: 1, NumTasks: 2},
		{Time: 0.1, AppID: 2, NumTasks: 1},
	}

	eng, err := New(nodes, apps, schedule, Tuning{Alpha: 50, Beta: 10, Epsilon: 1e-3})
	require.NoError(t, err)
	// The original finish event scheduled for the preempted victim at t=16
	// still sits in the queue; by the time it pops, that task has been
	// re-placed (or is still pending) under a different NodeID/Status, so
	// Run must reach queue exhaustion without an InvariantError and without
	// double-releasing resources that were already released or reassigned.
	require.NoError(t, eng.Run())

	stats := eng.Stats()
	require.Greater(t, stats.PreemptedTasksTotal, int64(0), "scenario must actually exercise a preemption")

	for _, app := range eng.AppStats() {
		assert.Zerof(t, app.Pending, "app %d left tasks pending", app.ID)
		assert.Zerof(t, app.Running, "app %d left tasks running", app.ID)
	}
	for _, node := range eng.NodeStats() {
		for i, used := range node.Used {
			assert.Zerof(t, used, "node %d dimension %d not released back to zero", node.ID, i)
		}
	}
}

// S6: determinism. Two engines built from identical inputs must reach
// identical observable final state.
func TestEngineDeterminism(t *testing.T) {
	build := func() *Engine {
		nodes := []NodeSpec{{ID: 1, Capacity: resource.Vector{8, 16}}}
		apps := []AppSpec{
			{ID: 1, Requirements: resource.Vector{1, 8}, Duration: 16},
			{ID: 2, Requirements: resource.Vector{4, 2}, Duration: 20},
		}
		schedule := []Submission{
			{Time: 0, AppID: 1, NumTasks: 2},
			{Time: 0.1, AppID: 2, NumTasks: 1},
		}
		eng, err := New(nodes, apps, schedule, Tuning{Alpha: 50, Beta: 10, Epsilon: 1e-3})
		require.NoError(t, err)
		return eng
	}

	e1 := build()
	e2 := build()
	require.NoError(t, e1.Run())
	require.NoError(t, e2.Run())

	assert.Equal(t, e1.Now(), e2.Now())
	assert.Equal(t, e1.AppStats(), e2.AppStats())
	assert.Equal(t, e1.NodeStats(), e2.NodeStats())
}

func TestNewRejectsDimensionMismatch(t *testing.T) {
	nodes := []NodeSpec{{ID: 1, Capacity: resource.Vector{1, 2}}}
	apps := []AppSpec{{ID: 1, Requirements: resource.Vector{1}, Duration: 1}}

	_, err := New(nodes, apps, nil, defaultTuning())
	assert.ErrorIs(t, err, resource.ErrDimensionMismatch)
}

func TestNewRejectsDuplicateNodeID(t *testing.T) {
	nodes := []NodeSpec{
		{ID: 1, Capacity: resource.Vector{1}},
		{ID: 1, Capacity: resource.Vector{1}},
	}
	_, err := New(nodes, nil, nil, defaultTuning())
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewRejectsNegativeTuning(t *testing.T) {
	_, err := New(nil, nil, nil, Tuning{Alpha: -1})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNewRejectsUnknownAppInSchedule(t *testing.T) {
	apps := []AppSpec{{ID: 1, Requirements: resource.Vector{1}, Duration: 1}}
	schedule := []Submission{{Time: 0, AppID: 99, NumTasks: 1}}
	_, err := New(nil, apps, schedule, defaultTuning())
	assert.ErrorIs(t, err, ErrUnknownApplication)
}

func TestNewRejectsNegativeSubmissionTime(t *testing.T) {
	apps := []AppSpec{{ID: 1, Requirements: resource.Vector{1}, Duration: 1}}
	schedule := []Submission{{Time: -1, AppID: 1, NumTasks: 1}}
	_, err := New(nil, apps, schedule, defaultTuning())
	assert.ErrorIs(t, err, ErrOutOfRange)
}
