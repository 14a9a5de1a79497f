package devconsole

import (
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	"github.com/hitesh22rana/devconsole/internal/pkg/datastructures/ringbuffer"
)

const (
	// DefaultMaxEvents is the default capacity of the event buffer.
	DefaultMaxEvents = 1000

	// DefaultMaxWorkflows is the default retention bound for workflows.
	DefaultMaxWorkflows = 500
)

// Config represents the repository constants configuration.
type Config struct {
	MaxEvents    int
	MaxWorkflows int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used by time range filters.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// IngestResult describes the effect of one Ingest call.
type IngestResult struct {
	// Accepted is false when the event was dropped as a duplicate.
	Accepted bool
	// Evicted is true when the append pushed the oldest event out of the buffer.
	Evicted bool
	// Outcome is the correlator's verdict for the event.
	Outcome Outcome
}

// Connection is the connection state published by the transport.
type Connection struct {
	Connected bool   `json:"connected"`
	LastError string `json:"lastError,omitempty"`
}

// Stats summarizes the store's occupancy.
type Stats struct {
	BufferedEvents   int    `json:"bufferedEvents"`
	Capacity         int    `json:"capacity"`
	Workflows        int    `json:"workflows"`
	EvictedEvents    uint64 `json:"evictedEvents"`
	EvictedWorkflows uint64 `json:"evictedWorkflows"`
	DuplicateEvents  uint64 `json:"duplicateEvents"`
}

// Store owns the console state: the event buffer, the workflow correlator,
// the active filters, the selection and the connection flags.
//
// There is a single writer (the transport's message loop); the mutex
// serializes it with readers such as HTTP handlers. Every read returns a
// snapshot, never a reference into the store.
type Store struct {
	mu    sync.RWMutex
	clock func() time.Time

	events     *ringbuffer.RingBuffer[devconsolemodel.LogEvent]
	bufferedID map[string]struct{}
	correlator *Correlator

	filters devconsolemodel.Filters

	selectedEvent      *devconsolemodel.LogEvent
	selectedWorkflowID string

	connection Connection

	evictedEvents   uint64
	duplicateEvents uint64
}

// New creates a new Store.
func New(cfg *Config, opts ...Option) *Store {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}

	s := &Store{
		clock:      time.Now,
		events:     ringbuffer.New[devconsolemodel.LogEvent](maxEvents),
		bufferedID: make(map[string]struct{}, maxEvents),
		correlator: NewCorrelator(cfg.MaxWorkflows),
		filters:    devconsolemodel.DefaultFilters(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ingest appends the event to the buffer and folds it into the workflows.
// An event whose id is still buffered is treated as a redelivery and dropped.
func (s *Store) Ingest(event devconsolemodel.LogEvent) IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.bufferedID[event.ID]; dup {
		s.duplicateEvents++
		return IngestResult{Accepted: false}
	}

	event.WorkflowStats = event.WorkflowStats.Clone()
	event.Context = event.Context.Clone()

	var result IngestResult
	result.Accepted = true

	s.bufferedID[event.ID] = struct{}{}
	if evicted, ok := s.events.Append(event); ok {
		delete(s.bufferedID, evicted.ID)
		s.evictedEvents++
		result.Evicted = true
	}

	result.Outcome = s.correlator.Ingest(event)

	return result
}

// ClearAll empties the buffer, the workflows and the selection.
// Filters and connection state are kept.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events.Clear()
	clear(s.bufferedID)
	s.correlator.Clear()
	s.selectedEvent = nil
	s.selectedWorkflowID = ""
}

// Workflow returns the workflow with the given id.
func (s *Store) Workflow(id string) (*devconsolemodel.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.correlator.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "workflow not found: %s", id)
	}
	return w, nil
}

// SetFilter updates one criterion.
// Unknown fields and values of the wrong type or outside the allowed set are rejected.
//
//nolint:gocyclo // one case per filter field
func (s *Store) SetFilter(field devconsolemodel.FilterField, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case devconsolemodel.FilterFieldLevel:
		v, err := enumValue(field, value)
		if err != nil {
			return err
		}
		level := devconsolemodel.Level(v)
		if v != devconsolemodel.FilterAll && !level.IsValid() {
			return status.Errorf(codes.InvalidArgument, "invalid value for %s: %q", field, v)
		}
		s.filters.Level = level
	case devconsolemodel.FilterFieldSource:
		v, err := enumValue(field, value)
		if err != nil {
			return err
		}
		s.filters.Source = devconsolemodel.Source(v)
	case devconsolemodel.FilterFieldTopic:
		v, err := enumValue(field, value)
		if err != nil {
			return err
		}
		s.filters.Topic = v
	case devconsolemodel.FilterFieldDiscipline:
		v, err := enumValue(field, value)
		if err != nil {
			return err
		}
		s.filters.Discipline = v
	case devconsolemodel.FilterFieldTimeRange:
		v, err := enumValue(field, value)
		if err != nil {
			return err
		}
		tr := devconsolemodel.TimeRange(v)
		switch tr {
		case devconsolemodel.TimeRangeAll,
			devconsolemodel.TimeRangeLast5Min,
			devconsolemodel.TimeRangeLastHour,
			devconsolemodel.TimeRangeToday:
		default:
			return status.Errorf(codes.InvalidArgument, "invalid value for %s: %q", field, v)
		}
		s.filters.TimeRange = tr
	case devconsolemodel.FilterFieldSearchText:
		v, ok := value.(string)
		if !ok {
			return status.Errorf(codes.InvalidArgument, "invalid type for %s: %T", field, value)
		}
		s.filters.SearchText = v
	case devconsolemodel.FilterFieldWorkflowsOnly:
		v, ok := value.(bool)
		if !ok {
			return status.Errorf(codes.InvalidArgument, "invalid type for %s: %T", field, value)
		}
		s.filters.WorkflowsOnly = v
	default:
		return status.Errorf(codes.InvalidArgument, "unknown filter field: %q", field)
	}

	return nil
}

// enumValue extracts a non-empty string criterion from value.
func enumValue(field devconsolemodel.FilterField, value any) (string, error) {
	var v string
	switch t := value.(type) {
	case string:
		v = t
	case devconsolemodel.Level:
		v = string(t)
	case devconsolemodel.Source:
		v = string(t)
	case devconsolemodel.TimeRange:
		v = string(t)
	default:
		return "", status.Errorf(codes.InvalidArgument, "invalid type for %s: %T", field, value)
	}

	v = strings.TrimSpace(v)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "empty value for %s", field)
	}
	return v, nil
}

// ResetFilters restores the default, unrestricted filters.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = devconsolemodel.DefaultFilters()
}

// Filters returns the active filters.
func (s *Store) Filters() devconsolemodel.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filters
}

// FilteredEvents returns the buffered events matching the active filters, oldest first.
func (s *Store) FilteredEvents() []devconsolemodel.LogEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	out := make([]devconsolemodel.LogEvent, 0, s.events.Len())
	s.events.Range(func(e devconsolemodel.LogEvent) bool {
		if matchesEvent(&s.filters, &e, now) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FilteredWorkflows returns the workflows matching the active filters, in creation order.
func (s *Store) FilteredWorkflows() []*devconsolemodel.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock()
	out := make([]*devconsolemodel.Workflow, 0, s.correlator.Len())
	s.correlator.Range(func(w *devconsolemodel.Workflow) bool {
		if matchesWorkflow(&s.filters, w, now) {
			out = append(out, w.Clone())
		}
		return true
	})
	return out
}

// SelectEvent focuses an event for detail inspection and clears any workflow selection.
// A nil event clears the event selection.
func (s *Store) SelectEvent(event *devconsolemodel.LogEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectEvent(event)
}

func (s *Store) selectEvent(event *devconsolemodel.LogEvent) {
	if event == nil {
		s.selectedEvent = nil
		return
	}

	e := *event
	s.selectedEvent = &e
	s.selectedWorkflowID = ""
}

// SelectWorkflow focuses a workflow for detail inspection and clears any event selection.
// A nil workflow clears the workflow selection.
func (s *Store) SelectWorkflow(workflow *devconsolemodel.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if workflow == nil {
		s.selectedWorkflowID = ""
		return
	}

	s.selectedWorkflowID = workflow.ID
	s.selectedEvent = nil
}

// SelectEventByID selects the buffered event with the given id.
func (s *Store) SelectEventByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *devconsolemodel.LogEvent
	s.events.Range(func(e devconsolemodel.LogEvent) bool {
		if e.ID == id {
			found = &e
			return false
		}
		return true
	})
	if found == nil {
		return status.Errorf(codes.NotFound, "event not found: %s", id)
	}

	s.selectEvent(found)
	return nil
}

// SelectWorkflowByID selects the workflow with the given id.
func (s *Store) SelectWorkflowByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.correlator.byID[id]; !ok {
		return status.Errorf(codes.NotFound, "workflow not found: %s", id)
	}

	s.selectedWorkflowID = id
	s.selectedEvent = nil
	return nil
}

// ClearSelection clears both selections.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedEvent = nil
	s.selectedWorkflowID = ""
}

// SelectedEvent returns the selected event, or nil.
func (s *Store) SelectedEvent() *devconsolemodel.LogEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedEvent == nil {
		return nil
	}
	e := *s.selectedEvent
	return &e
}

// SelectedWorkflow returns a snapshot of the selected workflow, or nil.
// The workflow is resolved at read time, so it reflects events ingested
// after the selection was made.
func (s *Store) SelectedWorkflow() *devconsolemodel.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedWorkflowID == "" {
		return nil
	}
	w, ok := s.correlator.Get(s.selectedWorkflowID)
	if !ok {
		return nil
	}
	return w
}

// SetConnected records whether the transport is connected.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connection.Connected = connected
}

// SetConnectionError records the last transport error; an empty string clears it.
func (s *Store) SetConnectionError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connection.LastError = msg
}

// Connection returns the connection state.
func (s *Store) Connection() Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.connection
}

// Stats returns the store's occupancy counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferedEvents:   s.events.Len(),
		Capacity:         s.events.Cap(),
		Workflows:        s.correlator.Len(),
		EvictedEvents:    s.evictedEvents,
		EvictedWorkflows: s.correlator.Evicted(),
		DuplicateEvents:  s.duplicateEvents,
	}
}
