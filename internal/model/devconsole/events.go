package devconsole

import (
	"maps"
	"time"
)

// Level represents the severity of a log event.
type Level string

// Levels for the log event, lowest severity first.
const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// ToString converts the Level to its string representation.
func (l Level) ToString() string {
	return string(l)
}

// Severity returns the ordinal of the level, or -1 if the level is unknown.
func (l Level) Severity() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelWarning:
		return 2
	case LevelError:
		return 3
	default:
		return -1
	}
}

// IsValid reports whether the level is one of the known levels.
func (l Level) IsValid() bool {
	return l.Severity() >= 0
}

// Source represents the origin of a log event.
// The set is open, unknown sources are carried verbatim.
type Source string

// Sources known to the console.
const (
	SourceFrontend Source = "FRONTEND"
	SourceBackend  Source = "BACKEND"
)

// ToString converts the Source to its string representation.
func (s Source) ToString() string {
	return string(s)
}

// Payload is an open key/value map attached to an event.
// A nil Payload means the field was absent.
type Payload map[string]any

// Clone returns a shallow copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// LogEvent represents one observed log record.
// Once ingested it is never mutated.
type LogEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Source    Source    `json:"source"`

	CorrelationID   string         `json:"correlationId,omitempty"`
	WorkflowKind    string         `json:"workflowKind,omitempty"`
	WorkflowSummary string         `json:"workflowSummary,omitempty"`
	WorkflowStatus  WorkflowStatus `json:"workflowStatus,omitempty"`
	WorkflowStats   Payload        `json:"workflowStats,omitempty"`

	Topic        string   `json:"topic,omitempty"`
	Discipline   string   `json:"discipline,omitempty"`
	EntityID     string   `json:"entityId,omitempty"`
	EntityType   string   `json:"entityType,omitempty"`
	EntityTag    string   `json:"entityTag,omitempty"`
	EntityRoute  string   `json:"entityRoute,omitempty"`
	ResponseTime *float64 `json:"responseTime,omitempty"`
	UserID       string   `json:"userId,omitempty"`
	UserName     string   `json:"userName,omitempty"`
	ParentID     string   `json:"parentId,omitempty"`
	Context      Payload  `json:"context,omitempty"`
}

// HasCorrelation reports whether the event carries a correlation identifier.
func (e *LogEvent) HasCorrelation() bool {
	return e.CorrelationID != ""
}

// InitiatesWorkflow reports whether the event carries the descriptive fields
// required to materialize a workflow.
func (e *LogEvent) InitiatesWorkflow() bool {
	return e.HasCorrelation() && e.WorkflowKind != "" && e.WorkflowSummary != ""
}
