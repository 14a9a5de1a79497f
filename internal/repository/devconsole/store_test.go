package devconsole_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
)

func newStore(t *testing.T, cfg *devconsolerepo.Config, now time.Time) *devconsolerepo.Store {
	t.Helper()
	return devconsolerepo.New(cfg, devconsolerepo.WithClock(func() time.Time { return now }))
}

func eventIDs(events []devconsolemodel.LogEvent) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func workflowIDs(workflows []*devconsolemodel.Workflow) []string {
	ids := make([]string, 0, len(workflows))
	for _, w := range workflows {
		ids = append(ids, w.ID)
	}
	return ids
}

func TestStore_BufferBound(t *testing.T) {
	t.Parallel()

	const capacity = 10
	s := newStore(t, &devconsolerepo.Config{MaxEvents: capacity}, baseTime)

	want := make([]string, 0, capacity)
	for i := range 25 {
		res := s.Ingest(devconsolemodel.LogEvent{ID: fmt.Sprint(i), Timestamp: baseTime, Message: "m"})
		assert.True(t, res.Accepted)
		assert.Equal(t, i >= capacity, res.Evicted)
		if i >= 25-capacity {
			want = append(want, fmt.Sprint(i))
		}
	}

	assert.Equal(t, want, eventIDs(s.FilteredEvents()))

	stats := s.Stats()
	assert.Equal(t, capacity, stats.BufferedEvents)
	assert.Equal(t, capacity, stats.Capacity)
	assert.Equal(t, uint64(15), stats.EvictedEvents)
}

func TestStore_DefaultCapacity(t *testing.T) {
	t.Parallel()

	s := devconsolerepo.New(&devconsolerepo.Config{})
	assert.Equal(t, devconsolerepo.DefaultMaxEvents, s.Stats().Capacity)
}

func TestStore_DuplicateRedelivery(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{MaxEvents: 2}, baseTime)

	assert.True(t, s.Ingest(initiating("1", "a", baseTime)).Accepted)
	assert.False(t, s.Ingest(initiating("1", "a", baseTime)).Accepted)

	w, err := s.Workflow("a")
	require.NoError(t, err)
	assert.Len(t, w.Events, 1)

	// once evicted from the buffer the id may be seen again
	s.Ingest(devconsolemodel.LogEvent{ID: "2", Timestamp: baseTime})
	s.Ingest(devconsolemodel.LogEvent{ID: "3", Timestamp: baseTime})
	assert.True(t, s.Ingest(devconsolemodel.LogEvent{ID: "1", Timestamp: baseTime}).Accepted)

	assert.Equal(t, uint64(1), s.Stats().DuplicateEvents)
}

func TestStore_WorkflowsOutliveBufferEviction(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{MaxEvents: 1}, baseTime)
	s.Ingest(initiating("1", "a", baseTime))
	s.Ingest(devconsolemodel.LogEvent{ID: "2", Timestamp: baseTime})

	assert.Equal(t, []string{"2"}, eventIDs(s.FilteredEvents()))

	w, err := s.Workflow("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, eventIDs(w.Events))
}

func TestStore_Scenario(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{}, baseTime)

	first := devconsolemodel.LogEvent{
		ID:              "1",
		Timestamp:       baseTime,
		Level:           devconsolemodel.LevelInfo,
		Message:         "start",
		Source:          devconsolemodel.SourceBackend,
		CorrelationID:   "a",
		WorkflowKind:    "IMPORT",
		WorkflowSummary: "Import run",
	}
	second := devconsolemodel.LogEvent{
		ID:             "2",
		Timestamp:      baseTime.Add(3 * time.Second),
		Level:          devconsolemodel.LevelError,
		Message:        "boom",
		Source:         devconsolemodel.SourceBackend,
		CorrelationID:  "a",
		WorkflowStatus: devconsolemodel.WorkflowStatusFailed,
	}
	s.Ingest(first)
	s.Ingest(second)

	workflows := s.FilteredWorkflows()
	require.Len(t, workflows, 1)
	w := workflows[0]
	assert.Equal(t, devconsolemodel.WorkflowStatusFailed, w.Status)
	require.NotNil(t, w.EndTime)
	assert.Equal(t, second.Timestamp, *w.EndTime)
	assert.Equal(t, []string{"1", "2"}, eventIDs(w.Events))

	d, ok := w.Duration()
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	require.NoError(t, s.SetFilter(devconsolemodel.FilterFieldLevel, "ERROR"))
	assert.Equal(t, []string{"a"}, workflowIDs(s.FilteredWorkflows()))
	assert.Equal(t, []string{"2"}, eventIDs(s.FilteredEvents()))
}

func TestStore_FilteredEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	events := []devconsolemodel.LogEvent{
		{ID: "debug", Timestamp: now.Add(-time.Minute), Level: devconsolemodel.LevelDebug, Message: "Cache warm", Source: devconsolemodel.SourceFrontend, Topic: "SYSTEM"},
		{ID: "error", Timestamp: now.Add(-10 * time.Minute), Level: devconsolemodel.LevelError, Message: "Import FAILED", Source: devconsolemodel.SourceBackend, Topic: "IMPORT", Discipline: "PROCESS", CorrelationID: "a"},
		{ID: "old", Timestamp: now.Add(-2 * time.Hour), Level: devconsolemodel.LevelInfo, Message: "asset created", Source: devconsolemodel.SourceBackend, Topic: "ASSETS"},
		{ID: "yesterday", Timestamp: now.Add(-13 * time.Hour), Level: devconsolemodel.LevelWarning, Message: "slow import", Source: devconsolemodel.SourceBackend},
	}

	tests := []struct {
		name    string
		filters map[devconsolemodel.FilterField]any
		want    []string
	}{
		{
			name: "defaults return everything in order",
			want: []string{"debug", "error", "old", "yesterday"},
		},
		{
			name:    "level exact match",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldLevel: "ERROR"},
			want:    []string{"error"},
		},
		{
			name:    "source",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldSource: "FRONTEND"},
			want:    []string{"debug"},
		},
		{
			name:    "topic absent never matches a specific value",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldTopic: "IMPORT"},
			want:    []string{"error"},
		},
		{
			name:    "discipline",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldDiscipline: "PROCESS"},
			want:    []string{"error"},
		},
		{
			name:    "search is case-insensitive on message",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldSearchText: "import"},
			want:    []string{"error", "yesterday"},
		},
		{
			name:    "last 5 minutes",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldTimeRange: "LAST_5MIN"},
			want:    []string{"debug"},
		},
		{
			name:    "last hour",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldTimeRange: "LAST_HOUR"},
			want:    []string{"debug", "error"},
		},
		{
			name:    "today uses the local calendar day",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldTimeRange: "TODAY"},
			want:    []string{"debug", "error", "old"},
		},
		{
			name:    "workflows only",
			filters: map[devconsolemodel.FilterField]any{devconsolemodel.FilterFieldWorkflowsOnly: true},
			want:    []string{"error"},
		},
		{
			name: "conjunction",
			filters: map[devconsolemodel.FilterField]any{
				devconsolemodel.FilterFieldSource:     "BACKEND",
				devconsolemodel.FilterFieldSearchText: "import",
			},
			want: []string{"error", "yesterday"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newStore(t, &devconsolerepo.Config{}, now)
			for _, e := range events {
				s.Ingest(e)
			}
			for field, value := range tt.filters {
				require.NoError(t, s.SetFilter(field, value))
			}

			assert.Equal(t, tt.want, eventIDs(s.FilteredEvents()))
		})
	}
}

func TestStore_TodayExcludesOtherDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	midnight := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)

	s := newStore(t, &devconsolerepo.Config{}, now)
	for id, ts := range map[string]time.Time{
		"before":   midnight.Add(-time.Nanosecond),
		"midnight": midnight,
		"late":     midnight.Add(24*time.Hour - time.Nanosecond),
		"tomorrow": midnight.Add(24 * time.Hour),
		"next":     now.AddDate(0, 0, 3),
	} {
		s.Ingest(devconsolemodel.LogEvent{ID: id, Timestamp: ts, Message: "m"})
	}
	require.NoError(t, s.SetFilter(devconsolemodel.FilterFieldTimeRange, "TODAY"))

	assert.ElementsMatch(t, []string{"midnight", "late"}, eventIDs(s.FilteredEvents()))
}

func TestStore_FilterConjunctionIsIntersection(t *testing.T) {
	t.Parallel()

	levels := []devconsolemodel.Level{devconsolemodel.LevelDebug, devconsolemodel.LevelInfo, devconsolemodel.LevelWarning, devconsolemodel.LevelError}
	sources := []devconsolemodel.Source{devconsolemodel.SourceFrontend, devconsolemodel.SourceBackend}
	topics := []string{"", "IMPORT", "RULES"}

	populate := func(s *devconsolerepo.Store) {
		n := 0
		for _, l := range levels {
			for _, src := range sources {
				for _, topic := range topics {
					n++
					id := fmt.Sprint(n)
					e := devconsolemodel.LogEvent{ID: id, Timestamp: baseTime, Level: l, Source: src, Topic: topic, Message: "msg " + id}
					if n%3 == 0 {
						e.CorrelationID = "w" + id
						e.WorkflowKind = "K"
						e.WorkflowSummary = "S"
					}
					s.Ingest(e)
				}
			}
		}
		// one workflow with mixed members
		s.Ingest(initiating("mixed-1", "mixed", baseTime))
		s.Ingest(devconsolemodel.LogEvent{ID: "mixed-2", Timestamp: baseTime, CorrelationID: "mixed", Level: devconsolemodel.LevelError, Source: devconsolemodel.SourceFrontend, Topic: "RULES"})
	}

	type criterion struct {
		field devconsolemodel.FilterField
		value any
	}

	pairs := [][2]criterion{
		{{devconsolemodel.FilterFieldLevel, "ERROR"}, {devconsolemodel.FilterFieldSource, "FRONTEND"}},
		{{devconsolemodel.FilterFieldTopic, "RULES"}, {devconsolemodel.FilterFieldLevel, "INFO"}},
		{{devconsolemodel.FilterFieldWorkflowsOnly, true}, {devconsolemodel.FilterFieldTopic, "IMPORT"}},
		{{devconsolemodel.FilterFieldSearchText, "1"}, {devconsolemodel.FilterFieldSource, "BACKEND"}},
	}

	for _, pair := range pairs {
		t.Run(fmt.Sprintf("%s+%s", pair[0].field, pair[1].field), func(t *testing.T) {
			t.Parallel()

			apply := func(cs ...criterion) ([]string, []string) {
				s := newStore(t, &devconsolerepo.Config{}, baseTime)
				populate(s)
				for _, c := range cs {
					require.NoError(t, s.SetFilter(c.field, c.value))
				}
				return eventIDs(s.FilteredEvents()), workflowIDs(s.FilteredWorkflows())
			}

			aEvents, aWorkflows := apply(pair[0])
			bEvents, bWorkflows := apply(pair[1])
			bothEvents, bothWorkflows := apply(pair[0], pair[1])

			assert.Equal(t, intersect(aEvents, bEvents), bothEvents)
			assert.Equal(t, intersect(aWorkflows, bWorkflows), bothWorkflows)
		})
	}
}

func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	out := make([]string, 0)
	for _, v := range a {
		if _, ok := inB[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func TestStore_FilteredWorkflows(t *testing.T) {
	t.Parallel()

	now := baseTime

	s := newStore(t, &devconsolerepo.Config{}, now)

	imp := initiating("1", "import", now.Add(-2*time.Minute))
	imp.Topic = "IMPORT"
	s.Ingest(imp)
	s.Ingest(devconsolemodel.LogEvent{ID: "2", Timestamp: now, CorrelationID: "import", Level: devconsolemodel.LevelWarning, Message: "row skipped", Topic: "ASSETS"})

	rules := initiating("3", "rules", now.Add(-2*time.Hour))
	rules.WorkflowKind = "RULE_EXECUTION"
	rules.WorkflowSummary = "Apply naming rules"
	s.Ingest(rules)

	tests := []struct {
		name  string
		field devconsolemodel.FilterField
		value any
		want  []string
	}{
		{name: "no filter", field: devconsolemodel.FilterFieldSearchText, value: "", want: []string{"import", "rules"}},
		{name: "topic matches any member", field: devconsolemodel.FilterFieldTopic, value: "ASSETS", want: []string{"import"}},
		{name: "search matches member message", field: devconsolemodel.FilterFieldSearchText, value: "ROW SKIPPED", want: []string{"import"}},
		{name: "search matches summary", field: devconsolemodel.FilterFieldSearchText, value: "naming", want: []string{"rules"}},
		{name: "time range uses start time", field: devconsolemodel.FilterFieldTimeRange, value: "LAST_5MIN", want: []string{"import"}},
		{name: "level matches any member", field: devconsolemodel.FilterFieldLevel, value: "WARNING", want: []string{"import"}},
		{name: "workflows only does not restrict workflows", field: devconsolemodel.FilterFieldWorkflowsOnly, value: true, want: []string{"import", "rules"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.ResetFilters()
			require.NoError(t, s.SetFilter(tt.field, tt.value))
			assert.Equal(t, tt.want, workflowIDs(s.FilteredWorkflows()))
		})
	}
}

func TestStore_SetFilterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field devconsolemodel.FilterField
		value any
	}{
		{name: "unknown field", field: "colour", value: "red"},
		{name: "unknown level", field: devconsolemodel.FilterFieldLevel, value: "FATAL"},
		{name: "wrong type for level", field: devconsolemodel.FilterFieldLevel, value: 3},
		{name: "empty topic", field: devconsolemodel.FilterFieldTopic, value: "  "},
		{name: "unknown time range", field: devconsolemodel.FilterFieldTimeRange, value: "LAST_WEEK"},
		{name: "wrong type for search", field: devconsolemodel.FilterFieldSearchText, value: true},
		{name: "wrong type for workflows only", field: devconsolemodel.FilterFieldWorkflowsOnly, value: "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := devconsolerepo.New(&devconsolerepo.Config{})
			err := s.SetFilter(tt.field, tt.value)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
			assert.True(t, s.Filters().IsDefault(), "rejected values must not change the filters")
		})
	}
}

func TestStore_ResetFilters(t *testing.T) {
	t.Parallel()

	s := devconsolerepo.New(&devconsolerepo.Config{})
	require.NoError(t, s.SetFilter(devconsolemodel.FilterFieldLevel, devconsolemodel.LevelError))
	require.NoError(t, s.SetFilter(devconsolemodel.FilterFieldWorkflowsOnly, true))
	assert.False(t, s.Filters().IsDefault())

	s.ResetFilters()
	assert.Equal(t, devconsolemodel.DefaultFilters(), s.Filters())
}

func TestStore_FilteredViewsDoNotMutate(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{}, baseTime)
	s.Ingest(initiating("1", "a", baseTime))

	events := s.FilteredEvents()
	events[0].Message = "changed"
	workflows := s.FilteredWorkflows()
	workflows[0].Events[0].Message = "changed"

	assert.Equal(t, "start", s.FilteredEvents()[0].Message)
	w, _ := s.Workflow("a")
	assert.Equal(t, "start", w.Events[0].Message)
}

func TestStore_SelectionExclusivity(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{}, baseTime)
	e := initiating("1", "a", baseTime)
	s.Ingest(e)
	w, err := s.Workflow("a")
	require.NoError(t, err)

	s.SelectEvent(&e)
	require.NotNil(t, s.SelectedEvent())
	assert.Nil(t, s.SelectedWorkflow())

	s.SelectWorkflow(w)
	assert.Nil(t, s.SelectedEvent())
	require.NotNil(t, s.SelectedWorkflow())

	s.SelectEvent(&e)
	assert.Nil(t, s.SelectedWorkflow())
	assert.Equal(t, "1", s.SelectedEvent().ID)

	s.SelectEvent(nil)
	assert.Nil(t, s.SelectedEvent())
	assert.Nil(t, s.SelectedWorkflow())
}

func TestStore_SelectionByID(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{}, baseTime)
	s.Ingest(initiating("1", "a", baseTime))

	require.NoError(t, s.SelectWorkflowByID("a"))
	s.Ingest(member("2", "a", baseTime.Add(time.Second), devconsolemodel.WorkflowStatusCompleted))

	selected := s.SelectedWorkflow()
	require.NotNil(t, selected)
	assert.Equal(t, devconsolemodel.WorkflowStatusCompleted, selected.Status, "selected workflow reflects later events")

	require.NoError(t, s.SelectEventByID("2"))
	assert.Nil(t, s.SelectedWorkflow())
	assert.Equal(t, "2", s.SelectedEvent().ID)

	assert.Equal(t, codes.NotFound, status.Code(s.SelectEventByID("missing")))
	assert.Equal(t, codes.NotFound, status.Code(s.SelectWorkflowByID("missing")))
	assert.Equal(t, "2", s.SelectedEvent().ID, "failed selection keeps the previous one")

	s.ClearSelection()
	assert.Nil(t, s.SelectedEvent())
	assert.Nil(t, s.SelectedWorkflow())
}

func TestStore_ClearAll(t *testing.T) {
	t.Parallel()

	s := newStore(t, &devconsolerepo.Config{}, baseTime)
	s.Ingest(initiating("1", "a", baseTime))
	require.NoError(t, s.SelectWorkflowByID("a"))
	require.NoError(t, s.SetFilter(devconsolemodel.FilterFieldLevel, "INFO"))
	s.SetConnected(true)

	s.ClearAll()

	assert.Empty(t, s.FilteredEvents())
	assert.Empty(t, s.FilteredWorkflows())
	assert.Nil(t, s.SelectedWorkflow())
	assert.Equal(t, devconsolemodel.Level("INFO"), s.Filters().Level)
	assert.True(t, s.Connection().Connected)

	// ids are forgotten with the buffer
	assert.True(t, s.Ingest(initiating("1", "a", baseTime)).Accepted)
}

func TestStore_Connection(t *testing.T) {
	t.Parallel()

	s := devconsolerepo.New(&devconsolerepo.Config{})
	assert.Equal(t, devconsolerepo.Connection{}, s.Connection())

	s.SetConnected(true)
	s.SetConnectionError("dial tcp: connection refused")
	assert.Equal(t, devconsolerepo.Connection{Connected: true, LastError: "dial tcp: connection refused"}, s.Connection())

	s.SetConnectionError("")
	s.SetConnected(false)
	assert.Equal(t, devconsolerepo.Connection{}, s.Connection())
}
