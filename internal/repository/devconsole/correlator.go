package devconsole

import (
	"slices"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
)

// Outcome describes what the correlator did with an event.
type Outcome string

// Outcomes of Correlator.Ingest.
const (
	// OutcomeUncorrelated means the event carries no correlation identifier.
	OutcomeUncorrelated Outcome = "UNCORRELATED"
	// OutcomeCreated means the event materialized a new workflow.
	OutcomeCreated Outcome = "CREATED"
	// OutcomeUpdated means the event was folded into an existing workflow.
	OutcomeUpdated Outcome = "UPDATED"
	// OutcomeOrphan means the event names a workflow that does not exist and cannot create it.
	OutcomeOrphan Outcome = "ORPHAN"
	// OutcomeEvicted means the event created a workflow that started before
	// every retained one and was dropped at once by the retention bound.
	OutcomeEvicted Outcome = "EVICTED"
)

// ToString converts the Outcome to its string representation.
func (o Outcome) ToString() string {
	return string(o)
}

// Correlator folds correlated events into workflow aggregates.
// It is not safe for concurrent use; the Store serializes access.
type Correlator struct {
	maxWorkflows int
	byID         map[string]*devconsolemodel.Workflow
	order        []string // creation order
	evicted      uint64
}

// NewCorrelator creates a correlator retaining at most maxWorkflows workflows.
// A maxWorkflows of zero or less disables the bound.
func NewCorrelator(maxWorkflows int) *Correlator {
	return &Correlator{
		maxWorkflows: maxWorkflows,
		byID:         make(map[string]*devconsolemodel.Workflow),
	}
}

// Ingest applies one event to the workflow state.
func (c *Correlator) Ingest(event devconsolemodel.LogEvent) Outcome {
	if !event.HasCorrelation() {
		return OutcomeUncorrelated
	}

	if w, ok := c.byID[event.CorrelationID]; ok {
		c.update(w, event)
		return OutcomeUpdated
	}

	if !event.InitiatesWorkflow() {
		return OutcomeOrphan
	}

	if c.create(event) {
		return OutcomeEvicted
	}
	return OutcomeCreated
}

func (c *Correlator) update(w *devconsolemodel.Workflow, event devconsolemodel.LogEvent) {
	w.Events = append(w.Events, event)

	// Terminal states are sticky: once EndTime is set a later RUNNING is
	// ignored, and a later terminal status replaces Status but not EndTime.
	if status := event.WorkflowStatus; status != "" {
		switch {
		case w.EndTime == nil:
			w.Status = status
			if status.IsTerminal() {
				end := event.Timestamp
				w.EndTime = &end
			}
		case status.IsTerminal():
			w.Status = status
		}
	}

	if event.WorkflowStats != nil {
		w.Stats = event.WorkflowStats.Clone()
	}
}

// create adds a workflow for event and reports whether the retention bound
// evicted that same workflow.
func (c *Correlator) create(event devconsolemodel.LogEvent) bool {
	status := event.WorkflowStatus
	if status == "" {
		status = devconsolemodel.WorkflowStatusRunning
	}

	w := &devconsolemodel.Workflow{
		ID:        event.CorrelationID,
		Kind:      event.WorkflowKind,
		Summary:   event.WorkflowSummary,
		Status:    status,
		StartTime: event.Timestamp,
		Events:    []devconsolemodel.LogEvent{event},
		Stats:     event.WorkflowStats.Clone(),
		UserID:    event.UserID,
		UserName:  event.UserName,
	}
	if status.IsTerminal() {
		end := event.Timestamp
		w.EndTime = &end
	}

	c.byID[w.ID] = w
	c.order = append(c.order, w.ID)

	if c.maxWorkflows > 0 && len(c.order) > c.maxWorkflows {
		return c.evictOldest() == w.ID
	}
	return false
}

// evictOldest drops the workflow with the earliest start time and returns its id.
// Ties go to the workflow created first.
func (c *Correlator) evictOldest() string {
	victim := 0
	for i := 1; i < len(c.order); i++ {
		if c.byID[c.order[i]].StartTime.Before(c.byID[c.order[victim]].StartTime) {
			victim = i
		}
	}

	id := c.order[victim]
	delete(c.byID, id)
	c.order = slices.Delete(c.order, victim, victim+1)
	c.evicted++
	return id
}

// Get returns a snapshot of the workflow with the given id.
func (c *Correlator) Get(id string) (*devconsolemodel.Workflow, bool) {
	w, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return w.Clone(), true
}

// Range calls fn with each live workflow in creation order until fn returns false.
// fn must not retain or mutate the workflow.
func (c *Correlator) Range(fn func(w *devconsolemodel.Workflow) bool) {
	for _, id := range c.order {
		if !fn(c.byID[id]) {
			return
		}
	}
}

// Len returns the number of live workflows.
func (c *Correlator) Len() int {
	return len(c.order)
}

// Evicted returns how many workflows were dropped by the retention bound.
func (c *Correlator) Evicted() uint64 {
	return c.evicted
}

// Clear drops every workflow.
func (c *Correlator) Clear() {
	clear(c.byID)
	c.order = nil
}
