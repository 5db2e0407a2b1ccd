package metrics

import (
	"fmt"
	"time"

	"github.com/cuemby/drfsim/pkg/engine"
)

// Collector periodically snapshots a running or finished Engine and exports
// its state as Prometheus gauges and counters. It only ever reads Engine
// state through its read-only AppStats/NodeStats/Stats accessors, which wait
// for the engine's lock; since Engine.Run holds that lock until the run
// ends, a snapshot is never taken concurrently with Engine.Run.
type Collector struct {
	eng    *engine.Engine
	stopCh chan struct{}

	// last holds the previous cumulative Stats snapshot, so repeated
	// Collect calls add only the delta to the monotonic Prometheus
	// counters rather than double-counting.
	last engine.Stats
}

// NewCollector creates a metrics collector for eng.
func NewCollector(eng *engine.Engine) *Collector {
	return &Collector{
		eng:    eng,
		stopCh: make(chan struct{}),
	}
}

// Start begins periodic collection on its own goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(time.Second)
	go func() {
		c.Collect()
		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops periodic collection.
func (c *Collector) Stop() {
	close(c.stopCh)
}

// Collect takes one snapshot of the engine and updates all gauges. Exported
// so a CLI that runs the engine to completion synchronously can call it once
// after Run returns, without needing the ticker loop at all.
func (c *Collector) Collect() {
	for _, app := range c.eng.AppStats() {
		label := fmt.Sprintf("%d", app.ID)
		AppDominantShare.WithLabelValues(label).Set(app.DominantShare)
		AppTasksTotal.WithLabelValues(label, "pending").Set(float64(app.Pending))
		AppTasksTotal.WithLabelValues(label, "running").Set(float64(app.Running))
	}

	for _, node := range c.eng.NodeStats() {
		label := fmt.Sprintf("%d", node.ID)
		for i := range node.Capacity {
			resourceLabel := fmt.Sprintf("%d", i)
			ratio := 0.0
			if node.Capacity[i] > 0 {
				ratio = node.Used[i] / node.Capacity[i]
			}
			NodeUtilization.WithLabelValues(label, resourceLabel).Set(ratio)
		}
	}

	stats := c.eng.Stats()
	PlacementsTotal.Add(float64(stats.PlacementsTotal - c.last.PlacementsTotal))
	PreemptionsTotal.Add(float64(stats.PreemptionsTotal - c.last.PreemptionsTotal))
	PreemptedTasksTotal.Add(float64(stats.PreemptedTasksTotal - c.last.PreemptedTasksTotal))
	WastedWorkCostTotal.Add(stats.WastedWorkCostTotal - c.last.WastedWorkCostTotal)
	EventsDispatchedTotal.WithLabelValues("submit").Add(float64(stats.SubmitDispatched - c.last.SubmitDispatched))
	EventsDispatchedTotal.WithLabelValues("task_finish").Add(float64(stats.TaskFinishDispatched - c.last.TaskFinishDispatched))
	EventsDispatchedTotal.WithLabelValues("scheduler_run").Add(float64(stats.SchedulerRunDispatched - c.last.SchedulerRunDispatched))
	c.last = stats

	for _, d := range c.eng.DrainCycleDurations() {
		SchedulingCycleLatency.Observe(d.Seconds())
	}
}
