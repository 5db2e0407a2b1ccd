package simevents

// Kind discriminates the tagged variants of Event.
type Kind int

const (
	// KindSubmit instantiates num_tasks new tasks for an application.
	KindSubmit Kind = iota
	// KindTaskFinish releases a running task's resources back to its node
	// and application.
	KindTaskFinish
	// KindSchedulerRun triggers one DRF placement cycle.
	KindSchedulerRun
)

// Priority fixed per event kind: state-changing events always precede
// scheduling decisions at the same simulated time.
const (
	PrioritySubmit       = 1
	PriorityTaskFinish   = 1
	PrioritySchedulerRun = 2
)

// Event is the tagged variant of everything that can occur during a run.
// Only Time, Priority and Seq participate in ordering; the remaining fields
// are the payload for the Kind in question and are never compared.
type Event struct {
	Kind     Kind
	Time     float64
	Priority int
	Seq      uint64

	// Submit payload.
	AppID    int64
	NumTasks int

	// TaskFinish payload.
	TaskID int64
	NodeID int64
}

// NewSubmit builds a KindSubmit event. Seq is assigned by Queue.Push.
func NewSubmit(time float64, appID int64, numTasks int) Event {
	return Event{Kind: KindSubmit, Time: time, Priority: PrioritySubmit, AppID: appID, NumTasks: numTasks}
}

// NewTaskFinish builds a KindTaskFinish event. Seq is assigned by Queue.Push.
func NewTaskFinish(time float64, taskID, appID, nodeID int64) Event {
	return Event{Kind: KindTaskFinish, Time: time, Priority: PriorityTaskFinish, TaskID: taskID, AppID: appID, NodeID: nodeID}
}

// NewSchedulerRun builds a KindSchedulerRun event. Seq is assigned by
// Queue.Push.
func NewSchedulerRun(time float64) Event {
	return Event{Kind: KindSchedulerRun, Time: time, Priority: PrioritySchedulerRun}
}
