//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package devconsole

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	"github.com/hitesh22rana/devconsole/internal/pkg/svc"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
)

// Repository provides the console state.
type Repository interface {
	Ingest(event devconsolemodel.LogEvent) devconsolerepo.IngestResult
	ClearAll()
	Workflow(id string) (*devconsolemodel.Workflow, error)
	SetFilter(field devconsolemodel.FilterField, value any) error
	ResetFilters()
	Filters() devconsolemodel.Filters
	FilteredEvents() []devconsolemodel.LogEvent
	FilteredWorkflows() []*devconsolemodel.Workflow
	SelectEventByID(id string) error
	SelectWorkflowByID(id string) error
	ClearSelection()
	SelectedEvent() *devconsolemodel.LogEvent
	SelectedWorkflow() *devconsolemodel.Workflow
	SetConnected(connected bool)
	SetConnectionError(msg string)
	Connection() devconsolerepo.Connection
	Stats() devconsolerepo.Stats
}

// Selection is the current detail focus. At most one field is set.
type Selection struct {
	Event    *devconsolemodel.LogEvent `json:"event,omitempty"`
	Workflow *devconsolemodel.Workflow `json:"workflow,omitempty"`
}

// Service provides the console operations.
type Service struct {
	validator *validator.Validate
	tp        trace.Tracer
	repo      Repository

	ingested  metric.Int64Counter
	evicted   metric.Int64Counter
	workflows metric.Int64Counter
}

// New creates a new devconsole-service.
func New(validator *validator.Validate, repo Repository) *Service {
	meter := otel.Meter(svc.Info().GetName())

	// Instrument names are static and valid, creation cannot fail.
	ingested, _ := meter.Int64Counter("devconsole.events.ingested",
		metric.WithDescription("Events received from the transport, by result."))
	evicted, _ := meter.Int64Counter("devconsole.events.evicted",
		metric.WithDescription("Events dropped from the buffer to make room."))
	workflows, _ := meter.Int64Counter("devconsole.workflows.correlated",
		metric.WithDescription("Correlated events, by correlator outcome."))

	return &Service{
		validator: validator,
		tp:        otel.Tracer(svc.Info().GetName()),
		repo:      repo,
		ingested:  ingested,
		evicted:   evicted,
		workflows: workflows,
	}
}

// Ingest stores one event received from the transport.
// It runs once per message, so it records metrics instead of a span.
func (s *Service) Ingest(ctx context.Context, event devconsolemodel.LogEvent) devconsolerepo.IngestResult {
	res := s.repo.Ingest(event)

	result := "accepted"
	if !res.Accepted {
		result = "duplicate"
	}
	s.ingested.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))

	if res.Evicted {
		s.evicted.Add(ctx, 1)
	}
	if res.Accepted && res.Outcome != devconsolerepo.OutcomeUncorrelated {
		s.workflows.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", res.Outcome.ToString())))
	}

	return res
}

// endSpan records err on the span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

// SetFilterRequest holds the request parameters for changing one filter criterion.
type SetFilterRequest struct {
	Field string `validate:"required,oneof=level source topic discipline timeRange searchText workflowsOnly"`
	Value any
}

// valueRules are the validation tags applied to string values per field.
var valueRules = map[devconsolemodel.FilterField]string{
	devconsolemodel.FilterFieldLevel:      "oneof=ALL DEBUG INFO WARNING ERROR",
	devconsolemodel.FilterFieldSource:     "required,max=64",
	devconsolemodel.FilterFieldTopic:      "required,max=128",
	devconsolemodel.FilterFieldDiscipline: "required,max=128",
	devconsolemodel.FilterFieldTimeRange:  "oneof=ALL LAST_5MIN LAST_HOUR TODAY",
	devconsolemodel.FilterFieldSearchText: "max=256",
}

// SetFilter updates one filter criterion.
func (s *Service) SetFilter(ctx context.Context, req *SetFilterRequest) (err error) {
	_, span := s.tp.Start(ctx, "Service.SetFilter", trace.WithAttributes(attribute.String("field", req.Field)))
	defer func() { endSpan(span, err) }()

	// Validate the request
	if err = s.validator.Struct(req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	field := devconsolemodel.FilterField(req.Field)
	value := req.Value
	if v, ok := value.(string); ok {
		switch field {
		case devconsolemodel.FilterFieldLevel, devconsolemodel.FilterFieldSource, devconsolemodel.FilterFieldTimeRange:
			v = strings.ToUpper(strings.TrimSpace(v))
			value = v
		}
		if rule, ok := valueRules[field]; ok {
			if err = s.validator.Var(v, rule); err != nil {
				return status.Errorf(codes.InvalidArgument, "invalid value for %s: %v", field, err)
			}
		}
	}

	return s.repo.SetFilter(field, value)
}

// ResetFilters restores the default filters.
func (s *Service) ResetFilters(ctx context.Context) {
	_, span := s.tp.Start(ctx, "Service.ResetFilters")
	defer span.End()

	s.repo.ResetFilters()
}

// Filters returns the active filters.
func (s *Service) Filters(ctx context.Context) devconsolemodel.Filters {
	_, span := s.tp.Start(ctx, "Service.Filters")
	defer span.End()

	return s.repo.Filters()
}

// FilteredEvents returns the buffered events matching the active filters.
func (s *Service) FilteredEvents(ctx context.Context) []devconsolemodel.LogEvent {
	_, span := s.tp.Start(ctx, "Service.FilteredEvents")
	defer span.End()

	events := s.repo.FilteredEvents()
	span.SetAttributes(attribute.Int("events", len(events)))
	return events
}

// FilteredWorkflows returns the workflows matching the active filters.
func (s *Service) FilteredWorkflows(ctx context.Context) []*devconsolemodel.Workflow {
	_, span := s.tp.Start(ctx, "Service.FilteredWorkflows")
	defer span.End()

	workflows := s.repo.FilteredWorkflows()
	span.SetAttributes(attribute.Int("workflows", len(workflows)))
	return workflows
}

// GetWorkflowRequest holds the request parameters for fetching a workflow.
type GetWorkflowRequest struct {
	WorkflowID string `validate:"required"`
}

// GetWorkflow returns one workflow by its correlation identifier.
func (s *Service) GetWorkflow(ctx context.Context, req *GetWorkflowRequest) (workflow *devconsolemodel.Workflow, err error) {
	_, span := s.tp.Start(ctx, "Service.GetWorkflow")
	defer func() { endSpan(span, err) }()

	// Validate the request
	if err = s.validator.Struct(req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	return s.repo.Workflow(req.WorkflowID)
}

// ClearAll empties the buffer, the workflows and the selection.
func (s *Service) ClearAll(ctx context.Context) {
	_, span := s.tp.Start(ctx, "Service.ClearAll")
	defer span.End()

	s.repo.ClearAll()
}

// SelectEventRequest holds the request parameters for selecting an event.
type SelectEventRequest struct {
	EventID string `validate:"required"`
}

// SelectEvent focuses a buffered event.
func (s *Service) SelectEvent(ctx context.Context, req *SelectEventRequest) (err error) {
	_, span := s.tp.Start(ctx, "Service.SelectEvent")
	defer func() { endSpan(span, err) }()

	// Validate the request
	if err = s.validator.Struct(req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	return s.repo.SelectEventByID(req.EventID)
}

// SelectWorkflowRequest holds the request parameters for selecting a workflow.
type SelectWorkflowRequest struct {
	WorkflowID string `validate:"required"`
}

// SelectWorkflow focuses a workflow.
func (s *Service) SelectWorkflow(ctx context.Context, req *SelectWorkflowRequest) (err error) {
	_, span := s.tp.Start(ctx, "Service.SelectWorkflow")
	defer func() { endSpan(span, err) }()

	// Validate the request
	if err = s.validator.Struct(req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	return s.repo.SelectWorkflowByID(req.WorkflowID)
}

// ClearSelection clears the detail focus.
func (s *Service) ClearSelection(ctx context.Context) {
	_, span := s.tp.Start(ctx, "Service.ClearSelection")
	defer span.End()

	s.repo.ClearSelection()
}

// Selection returns the current detail focus.
func (s *Service) Selection(ctx context.Context) *Selection {
	_, span := s.tp.Start(ctx, "Service.Selection")
	defer span.End()

	return &Selection{
		Event:    s.repo.SelectedEvent(),
		Workflow: s.repo.SelectedWorkflow(),
	}
}

// MarkConnected records a successful open and clears the last error.
func (s *Service) MarkConnected(_ context.Context) {
	s.repo.SetConnected(true)
	s.repo.SetConnectionError("")
}

// MarkDisconnected records a closed connection. A nil err means the
// disconnect was requested and clears the last error.
func (s *Service) MarkDisconnected(_ context.Context, err error) {
	s.repo.SetConnected(false)
	if err == nil {
		s.repo.SetConnectionError("")
		return
	}
	s.repo.SetConnectionError(err.Error())
}

// Connection returns the connection flags.
func (s *Service) Connection(_ context.Context) devconsolerepo.Connection {
	return s.repo.Connection()
}

// Stats returns the store's occupancy counters.
func (s *Service) Stats(_ context.Context) devconsolerepo.Stats {
	return s.repo.Stats()
}
