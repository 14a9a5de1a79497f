package devconsole

import "time"

// WorkflowStatus represents the status of a correlated workflow.
type WorkflowStatus string

// WorkflowStatuses for the workflow.
const (
	WorkflowStatusRunning   WorkflowStatus = "RUNNING"
	WorkflowStatusCompleted WorkflowStatus = "COMPLETED"
	WorkflowStatusFailed    WorkflowStatus = "FAILED"
)

// ToString converts the WorkflowStatus to its string representation.
func (s WorkflowStatus) ToString() string {
	return string(s)
}

// IsValid reports whether the status is one of the known statuses.
func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowStatusRunning, WorkflowStatusCompleted, WorkflowStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends a workflow.
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusCompleted || s == WorkflowStatusFailed
}

// Workflow is the aggregate of every event sharing one correlation identifier.
type Workflow struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Summary   string         `json:"summary"`
	Status    WorkflowStatus `json:"status"`
	StartTime time.Time      `json:"startTime"`
	EndTime   *time.Time     `json:"endTime,omitempty"`
	Events    []LogEvent     `json:"events"`
	Stats     Payload        `json:"stats,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	UserName  string         `json:"userName,omitempty"`
}

// Duration returns the time between start and end, or false while the workflow is still open.
func (w *Workflow) Duration() (time.Duration, bool) {
	if w.EndTime == nil {
		return 0, false
	}
	return w.EndTime.Sub(w.StartTime), true
}

// Clone returns a copy that shares no mutable state with the receiver.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	out := *w
	if w.EndTime != nil {
		end := *w.EndTime
		out.EndTime = &end
	}
	out.Events = make([]LogEvent, len(w.Events))
	copy(out.Events, w.Events)
	out.Stats = w.Stats.Clone()

	return &out
}
