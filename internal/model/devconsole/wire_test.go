package devconsole_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitesh22rana/devconsole/internal/model/devconsole"
)

func TestParseLogEvent(t *testing.T) {
	t.Parallel()

	type want struct {
		event devconsole.LogEvent
		err   error
	}

	tests := []struct {
		name  string
		input string
		want  want
	}{
		{
			name: "success: full workflow initiating event",
			input: `{
				"id": "evt-1",
				"timestamp": "2025-01-02T10:00:00Z",
				"level": "INFO",
				"message": "start",
				"source": "BACKEND",
				"actionId": "a",
				"actionType": "IMPORT",
				"actionSummary": "Import run",
				"actionStatus": "RUNNING",
				"actionStats": {"rows": 10},
				"topic": "IMPORT",
				"discipline": "PROCESS",
				"userId": "u1",
				"userName": "Ada",
				"responseTime": 12.5,
				"context": {"file": "a.csv"}
			}`,
			want: want{
				event: devconsole.LogEvent{
					ID:              "evt-1",
					Timestamp:       time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
					Level:           devconsole.LevelInfo,
					Message:         "start",
					Source:          devconsole.SourceBackend,
					CorrelationID:   "a",
					WorkflowKind:    "IMPORT",
					WorkflowSummary: "Import run",
					WorkflowStatus:  devconsole.WorkflowStatusRunning,
					WorkflowStats:   devconsole.Payload{"rows": float64(10)},
					Topic:           "IMPORT",
					Discipline:      "PROCESS",
					UserID:          "u1",
					UserName:        "Ada",
					ResponseTime:    ptr(12.5),
					Context:         devconsole.Payload{"file": "a.csv"},
				},
			},
		},
		{
			name:  "success: numeric id and WARN alias",
			input: `{"id": 7, "timestamp": "2025-01-02T10:00:00Z", "level": "warn", "message": "careful", "source": "frontend"}`,
			want: want{
				event: devconsole.LogEvent{
					ID:        "7",
					Timestamp: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
					Level:     devconsole.LevelWarning,
					Message:   "careful",
					Source:    devconsole.SourceFrontend,
				},
			},
		},
		{
			name:  "success: malformed optional payloads are dropped",
			input: `{"id": "x", "timestamp": "2025-01-02T10:00:00Z", "level": "ERROR", "message": "m", "actionId": "a", "actionStats": [1, 2], "actionStatus": "PAUSED", "context": "nope", "responseTime": "fast"}`,
			want: want{
				event: devconsole.LogEvent{
					ID:            "x",
					Timestamp:     time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
					Level:         devconsole.LevelError,
					Message:       "m",
					Source:        devconsole.SourceBackend,
					CorrelationID: "a",
				},
			},
		},
		{
			name:  "success: mistyped actionStatus is treated as absent",
			input: `{"id": "x", "timestamp": "2025-01-02T10:00:00Z", "message": "m", "actionId": "a", "actionType": "IMPORT", "actionSummary": "s", "actionStatus": 1}`,
			want: want{
				event: devconsole.LogEvent{
					ID:              "x",
					Timestamp:       time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
					Level:           devconsole.LevelInfo,
					Message:         "m",
					Source:          devconsole.SourceBackend,
					CorrelationID:   "a",
					WorkflowKind:    "IMPORT",
					WorkflowSummary: "s",
				},
			},
		},
		{
			name:  "success: numeric actionId",
			input: `{"id": "x", "timestamp": "2025-01-02T10:00:00Z", "message": "m", "actionId": 42}`,
			want: want{
				event: devconsole.LogEvent{
					ID:            "x",
					Timestamp:     time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
					Level:         devconsole.LevelInfo,
					Message:       "m",
					Source:        devconsole.SourceBackend,
					CorrelationID: "42",
				},
			},
		},
		{
			name: "success: mistyped descriptive fields are dropped one by one",
			input: `{
				"id": "x",
				"timestamp": "2025-01-02T10:00:00Z",
				"message": "m",
				"source": 3,
				"actionId": {"nested": true},
				"actionType": ["IMPORT"],
				"actionSummary": false,
				"topic": 7,
				"discipline": "PROCESS",
				"entityId": 9,
				"entityType": null,
				"entityTag": {},
				"entityRoute": "/import",
				"userId": 12,
				"userName": "Ada",
				"parentId": []
			}`,
			want: want{
				event: devconsole.LogEvent{
					ID:          "x",
					Timestamp:   time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
					Level:       devconsole.LevelInfo,
					Message:     "m",
					Source:      devconsole.SourceBackend,
					Discipline:  "PROCESS",
					EntityRoute: "/import",
					UserName:    "Ada",
				},
			},
		},
		{
			name:  "error: heartbeat",
			input: "pong",
			want: want{
				err: devconsole.ErrHeartbeat,
			},
		},
		{
			name:  "error: invalid json",
			input: `{"id": `,
			want: want{
				err: devconsole.ErrMalformedEvent,
			},
		},
		{
			name:  "error: missing message",
			input: `{"id": "1", "level": "INFO"}`,
			want: want{
				err: devconsole.ErrMalformedEvent,
			},
		},
		{
			name:  "error: unknown level",
			input: `{"id": "1", "level": "FATAL", "message": "m"}`,
			want: want{
				err: devconsole.ErrMalformedEvent,
			},
		},
		{
			name:  "error: invalid timestamp",
			input: `{"id": "1", "timestamp": "yesterday", "message": "m"}`,
			want: want{
				err: devconsole.ErrMalformedEvent,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := devconsole.ParseLogEvent([]byte(tt.input))
			if tt.want.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.want.err), "expected %v, got %v", tt.want.err, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.event.Timestamp.Equal(got.Timestamp))
			got.Timestamp = tt.want.event.Timestamp
			assert.Equal(t, tt.want.event, got)
		})
	}
}

func TestParseLogEvent_Defaults(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got, err := devconsole.ParseLogEvent([]byte(`{"message": "hello"}`))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, devconsole.LevelInfo, got.Level)
	assert.Equal(t, devconsole.SourceBackend, got.Source)
	assert.False(t, got.Timestamp.Before(before))
}

func TestParseLogEvent_ZonelessTimestamp(t *testing.T) {
	t.Parallel()

	got, err := devconsole.ParseLogEvent([]byte(`{"message": "m", "timestamp": "2025-03-04T05:06:07.123456"}`))
	require.NoError(t, err)

	want := time.Date(2025, 3, 4, 5, 6, 7, 123456000, time.Local)
	assert.True(t, want.Equal(got.Timestamp))
}

func TestWorkflow_Clone(t *testing.T) {
	t.Parallel()

	end := time.Now()
	w := &devconsole.Workflow{
		ID:      "a",
		Status:  devconsole.WorkflowStatusCompleted,
		EndTime: &end,
		Events:  []devconsole.LogEvent{{ID: "1"}},
		Stats:   devconsole.Payload{"rows": 1},
	}

	c := w.Clone()
	c.Events = append(c.Events, devconsole.LogEvent{ID: "2"})
	c.Events[0].ID = "changed"
	c.Stats["rows"] = 2
	*c.EndTime = end.Add(time.Hour)

	assert.Len(t, w.Events, 1)
	assert.Equal(t, "1", w.Events[0].ID)
	assert.Equal(t, 1, w.Stats["rows"])
	assert.True(t, w.EndTime.Equal(end))
}

func ptr[T any](v T) *T {
	return &v
}
