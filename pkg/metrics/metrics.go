package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AppDominantShare is the current s_i of each application, by app id.
	AppDominantShare = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drfsim_app_dominant_share",
			Help: "Current dominant share (s_i) of an application",
		},
		[]string{"app_id"},
	)

	// AppTasksTotal is the current task count of an application, by app id
	// and status (pending/running); finished tasks are not counted.
	AppTasksTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drfsim_app_tasks_total",
			Help: "Task count of an application by status",
		},
		[]string{"app_id", "status"},
	)

	// NodeUtilization is a node's used/capacity ratio, by node id and
	// resource kind index.
	NodeUtilization = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drfsim_node_utilization_ratio",
			Help: "Used/capacity ratio of a node, per resource kind",
		},
		[]string{"node_id", "resource"},
	)

	// SchedulingCycleLatency times one full fixed-point scheduling cycle
	// (all rounds until no allocation is made).
	SchedulingCycleLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drfsim_scheduling_cycle_duration_seconds",
			Help:    "Wall-clock time to run one scheduling cycle to its fixed point",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PlacementsTotal counts direct (non-preemptive) placements.
	PlacementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drfsim_placements_total",
			Help: "Total number of direct task placements",
		},
	)

	// PreemptionsTotal counts preemption events; the victim tasks they evict
	// are counted separately by PreemptedTasksTotal.
	PreemptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drfsim_preemptions_total",
			Help: "Total number of preemption events",
		},
	)

	// PreemptedTasksTotal counts individual victim tasks evicted across all
	// preemption events.
	PreemptedTasksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drfsim_preempted_tasks_total",
			Help: "Total number of tasks evicted by preemption",
		},
	)

	// WastedWorkCostTotal accumulates the wasted-work cost of every
	// preempted task.
	WastedWorkCostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drfsim_wasted_work_cost_total",
			Help: "Sum of elapsed*dominant-share cost across all preempted tasks",
		},
	)

	// EventsDispatchedTotal counts events popped off the simulation queue,
	// by kind.
	EventsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drfsim_events_dispatched_total",
			Help: "Total number of simulation events dispatched, by kind",
		},
		[]string{"kind"},
	)

	// RunDuration times a full Engine.Run call, start to queue exhaustion,
	// wall-clock. Recorded with Timer around the single call site in
	// cmd/drfsim, separately from the per-cycle SchedulingCycleLatency.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drfsim_run_duration_seconds",
			Help:    "Wall-clock time for a full simulation run to reach queue exhaustion",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		AppDominantShare,
		AppTasksTotal,
		NodeUtilization,
		SchedulingCycleLatency,
		PlacementsTotal,
		PreemptionsTotal,
		PreemptedTasksTotal,
		WastedWorkCostTotal,
		EventsDispatchedTotal,
		RunDuration,
	)
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations and recording their duration to a
// histogram.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed wall-clock time to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed wall-clock time to a labeled
// histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed wall-clock time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
