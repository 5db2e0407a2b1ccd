package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cuemby/drfsim/pkg/resource"
	"github.com/cuemby/drfsim/pkg/simevents"
	"github.com/cuemby/drfsim/pkg/simtypes"
	"github.com/rs/zerolog"
)

// NodeSpec describes one cluster node at construction time.
type NodeSpec struct {
	ID       int64
	Capacity resource.Vector
}

// AppSpec describes one application and its task prototype at construction
// time.
type AppSpec struct {
	ID           int64
	Requirements resource.Vector
	Duration     float64
}

// Submission describes one entry of the timed submission schedule.
type Submission struct {
	Time     float64
	AppID    int64
	NumTasks int
}

// Tuning holds the preemption evaluator's weights.
type Tuning struct {
	Alpha   float64 // gain weight
	Beta    float64 // cost weight
	Epsilon float64 // minimum fairness gain
}

// Engine is the deterministic, single-threaded DRF-with-preemption
// simulation core. The zero value is not usable; construct with New.
type Engine struct {
	mu     sync.Mutex
	logger zerolog.Logger

	dimension int
	tuning    Tuning

	clusterTotal resource.Vector

	nodes     map[int64]*simtypes.Node
	nodeOrder []int64 // ascending node id, fixed at construction

	apps     map[int64]*simtypes.Application
	appOrder []int64 // ascending app id, fixed at construction

	tasks map[int64]*simtypes.Task // global owner of every *Task

	queue       *simevents.Queue
	currentTime float64

	taskSeq int64

	maxEvents int

	statsPlacements       int64
	statsPreemptions      int64
	statsPreemptedTasks   int64
	statsWastedWorkCost   float64
	statsEventsDispatched [3]int64 // indexed by simevents.Kind
	cycleDurations        []time.Duration
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger attaches a zerolog.Logger the engine uses for debug-level
// tracing of dispatched events. The default is a disabled logger, so an
// Engine is silent unless a caller opts in.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxEvents overrides the defensive event-budget loop guard (default
// 1,000,000). It exists only to turn an otherwise-impossible infinite loop
// into a reported error rather than a hang.
func WithMaxEvents(n int) Option {
	return func(e *Engine) { e.maxEvents = n }
}

// New constructs an Engine from a cluster of nodes, a set of applications
// each producing tasks from a fixed prototype, a timed submission schedule,
// and preemption tuning. It validates dimensions, id uniqueness, and
// non-negativity, returning a construction-time error without mutating any
// shared state on failure.
func New(nodes []NodeSpec, apps []AppSpec, schedule []Submission, tuning Tuning, opts ...Option) (*Engine, error) {
	if err := validateTuning(tuning); err != nil {
		return nil, err
	}

	dimension, err := inferDimension(nodes, apps)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		logger:    zerolog.Nop(),
		dimension: dimension,
		tuning:    tuning,
		nodes:     make(map[int64]*simtypes.Node, len(nodes)),
		apps:      make(map[int64]*simtypes.Application, len(apps)),
		tasks:     make(map[int64]*simtypes.Task),
		queue:     simevents.NewQueue(),
		maxEvents: 1_000_000,
	}

	for _, opt := range opts {
		opt(e)
	}

	var capacities []resource.Vector
	for _, n := range nodes {
		if len(n.Capacity) != dimension {
			return nil, invalidDimension("node", n.ID, len(n.Capacity), dimension)
		}
		if _, dup := e.nodes[n.ID]; dup {
			return nil, fmtDuplicate("node", n.ID)
		}
		e.nodes[n.ID] = simtypes.NewNode(n.ID, n.Capacity)
		e.nodeOrder = append(e.nodeOrder, n.ID)
		capacities = append(capacities, n.Capacity)
	}
	sort.Slice(e.nodeOrder, func(i, j int) bool { return e.nodeOrder[i] < e.nodeOrder[j] })

	total, err := resource.Sum(dimension, capacities)
	if err != nil {
		return nil, err
	}
	e.clusterTotal = total

	for _, a := range apps {
		if len(a.Requirements) != dimension {
			return nil, invalidDimension("application", a.ID, len(a.Requirements), dimension)
		}
		if _, dup := e.apps[a.ID]; dup {
			return nil, fmtDuplicate("application", a.ID)
		}
		if a.Duration <= 0 {
			return nil, fmtOutOfRange("application %d duration must be positive, got %g", a.ID, a.Duration)
		}
		e.apps[a.ID] = simtypes.NewApplication(a.ID, simtypes.Prototype{
			Requirements: a.Requirements,
			Duration:     a.Duration,
		}, dimension)
		e.appOrder = append(e.appOrder, a.ID)
	}
	sort.Slice(e.appOrder, func(i, j int) bool { return e.appOrder[i] < e.appOrder[j] })

	for _, s := range schedule {
		if s.Time < 0 {
			return nil, fmtOutOfRange("submission time must be >= 0, got %g", s.Time)
		}
		if s.NumTasks < 0 {
			return nil, fmtOutOfRange("submission num_tasks must be >= 0, got %d", s.NumTasks)
		}
		if _, ok := e.apps[s.AppID]; !ok {
			return nil, invalidAppRef(s.AppID)
		}
		e.queue.Push(simevents.NewSubmit(s.Time, s.AppID, s.NumTasks))
	}

	return e, nil
}

func validateTuning(t Tuning) error {
	if t.Alpha < 0 {
		return fmtOutOfRange("alpha must be >= 0, got %g", t.Alpha)
	}
	if t.Beta < 0 {
		return fmtOutOfRange("beta must be >= 0, got %g", t.Beta)
	}
	if t.Epsilon < 0 {
		return fmtOutOfRange("epsilon must be >= 0, got %g", t.Epsilon)
	}
	return nil
}

// inferDimension determines D from the first node or application vector
// seen and checks every remaining vector against it.
func inferDimension(nodes []NodeSpec, apps []AppSpec) (int, error) {
	dimension := -1
	for _, n := range nodes {
		if dimension == -1 {
			dimension = len(n.Capacity)
			continue
		}
		if len(n.Capacity) != dimension {
			return 0, invalidDimension("node", n.ID, len(n.Capacity), dimension)
		}
	}
	for _, a := range apps {
		if dimension == -1 {
			dimension = len(a.Requirements)
			continue
		}
		if len(a.Requirements) != dimension {
			return 0, invalidDimension("application", a.ID, len(a.Requirements), dimension)
		}
	}
	if dimension == -1 {
		dimension = 0
	}
	return dimension, nil
}

// nextTaskID returns the next globally unique task id for this Engine
// instance. Scoped to the struct, never package-level, so multiple Engines
// in one process never collide.
func (e *Engine) nextTaskID() int64 {
	id := e.taskSeq
	e.taskSeq++
	return id
}

// Now returns the simulated time the engine has advanced to.
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTime
}

// Dimension returns D, the fixed resource-vector width for this run.
func (e *Engine) Dimension() int {
	return e.dimension
}

// ClusterTotal returns a copy of R_total, the sum of all node capacities.
func (e *Engine) ClusterTotal() resource.Vector {
	return e.clusterTotal.Clone()
}

// AppStat is a read-only snapshot of one application's state.
type AppStat struct {
	ID            int64
	DominantShare float64
	Pending       int
	Running       int
}

// NodeStat is a read-only snapshot of one node's state.
type NodeStat struct {
	ID       int64
	Used     resource.Vector
	Capacity resource.Vector
}

// AppStats returns a snapshot of every application, ordered by ascending id.
func (e *Engine) AppStats() []AppStat {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]AppStat, 0, len(e.appOrder))
	for _, id := range e.appOrder {
		a := e.apps[id]
		out = append(out, AppStat{
			ID:            a.ID,
			DominantShare: a.DominantShare,
			Pending:       len(a.Pending),
			Running:       len(a.Running),
		})
	}
	return out
}

// NodeStats returns a snapshot of every node, ordered by ascending id.
func (e *Engine) NodeStats() []NodeStat {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]NodeStat, 0, len(e.nodeOrder))
	for _, id := range e.nodeOrder {
		n := e.nodes[id]
		out = append(out, NodeStat{
			ID:       n.ID,
			Used:     n.Used.Clone(),
			Capacity: n.Capacity.Clone(),
		})
	}
	return out
}

// Stats is a cumulative counter snapshot, exported for pkg/metrics to derive
// Prometheus counter deltas without the engine importing prometheus itself.
type Stats struct {
	PlacementsTotal     int64
	PreemptionsTotal    int64
	PreemptedTasksTotal int64
	WastedWorkCostTotal float64
	SubmitDispatched    int64
	TaskFinishDispatched int64
	SchedulerRunDispatched int64
}

// Stats returns a snapshot of the engine's cumulative counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		PlacementsTotal:        e.statsPlacements,
		PreemptionsTotal:       e.statsPreemptions,
		PreemptedTasksTotal:    e.statsPreemptedTasks,
		WastedWorkCostTotal:    e.statsWastedWorkCost,
		SubmitDispatched:       e.statsEventsDispatched[simevents.KindSubmit],
		TaskFinishDispatched:   e.statsEventsDispatched[simevents.KindTaskFinish],
		SchedulerRunDispatched: e.statsEventsDispatched[simevents.KindSchedulerRun],
	}
}

// DrainCycleDurations returns every scheduling-cycle duration recorded since
// the last call and clears the buffer, so a metrics collector can observe
// each one into a histogram exactly once.
func (e *Engine) DrainCycleDurations() []time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.cycleDurations
	e.cycleDurations = nil
	return out
}

func invalidDimension(kind string, id int64, got, want int) error {
	return fmt.Errorf("%s id %d has dimension %d, want %d: %w", kind, id, got, want, resource.ErrDimensionMismatch)
}

func fmtDuplicate(kind string, id int64) error {
	return wrapErr(ErrDuplicateID, "%s id %d already exists", kind, id)
}

func invalidAppRef(id int64) error {
	return wrapErr(ErrUnknownApplication, "submission references application %d", id)
}
