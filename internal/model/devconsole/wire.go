package devconsole

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrHeartbeat is returned for keep-alive frames that carry no event.
	ErrHeartbeat = errors.New("heartbeat frame")

	// ErrMalformedEvent is returned when a frame cannot be turned into a LogEvent.
	ErrMalformedEvent = errors.New("malformed log event")
)

// heartbeatFrame is the keep-alive payload sent by the backend.
const heartbeatFrame = "pong"

// timestampLayouts are tried in order. The zone-less layouts are what the
// backend emits and are interpreted in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// wireEvent is the JSON shape produced by the backend.
type wireEvent struct {
	ID        json.RawMessage `json:"id"`
	Timestamp string          `json:"timestamp"`
	Level     string          `json:"level"`
	Message   *string         `json:"message"`
	Source    optionalString  `json:"source"`

	ActionID      json.RawMessage `json:"actionId"`
	ActionType    optionalString  `json:"actionType"`
	ActionSummary optionalString  `json:"actionSummary"`
	ActionStatus  optionalString  `json:"actionStatus"`
	ActionStats   json.RawMessage `json:"actionStats"`

	Topic        optionalString  `json:"topic"`
	Discipline   optionalString  `json:"discipline"`
	EntityID     optionalString  `json:"entityId"`
	EntityType   optionalString  `json:"entityType"`
	EntityTag    optionalString  `json:"entityTag"`
	EntityRoute  optionalString  `json:"entityRoute"`
	ResponseTime json.RawMessage `json:"responseTime"`
	UserID       optionalString  `json:"userId"`
	UserName     optionalString  `json:"userName"`
	ParentID     optionalString  `json:"parentId"`
	Context      json.RawMessage `json:"context"`
}

// optionalString decodes a JSON string. Any other JSON value leaves it empty
// so a mistyped descriptive field never rejects the whole event.
type optionalString string

// UnmarshalJSON implements json.Unmarshaler.
func (o *optionalString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*o = ""
		return nil
	}
	*o = optionalString(s)
	return nil
}

// ParseLogEvent decodes one wire frame into a LogEvent.
//
// Structural problems (invalid JSON, missing message, unknown level,
// unparsable timestamp) are errors. Malformed optional fields such as a
// non-object actionStats or a numeric topic are dropped one by one instead.
func ParseLogEvent(data []byte) (LogEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == heartbeatFrame {
		return LogEvent{}, ErrHeartbeat
	}

	var w wireEvent
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return LogEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if w.Message == nil {
		return LogEvent{}, fmt.Errorf("%w: missing message", ErrMalformedEvent)
	}

	level, err := parseLevel(w.Level)
	if err != nil {
		return LogEvent{}, err
	}

	timestamp, err := parseTimestamp(w.Timestamp)
	if err != nil {
		return LogEvent{}, err
	}

	id := parseID(w.ID)
	if id == "" {
		id = uuid.NewString()
	}

	source := Source(strings.ToUpper(strings.TrimSpace(string(w.Source))))
	if source == "" {
		source = SourceBackend
	}

	status := WorkflowStatus(strings.ToUpper(string(w.ActionStatus)))
	if !status.IsValid() {
		status = ""
	}

	return LogEvent{
		ID:              id,
		Timestamp:       timestamp,
		Level:           level,
		Message:         *w.Message,
		Source:          source,
		CorrelationID:   parseID(w.ActionID),
		WorkflowKind:    string(w.ActionType),
		WorkflowSummary: string(w.ActionSummary),
		WorkflowStatus:  status,
		WorkflowStats:   parsePayload(w.ActionStats),
		Topic:           string(w.Topic),
		Discipline:      string(w.Discipline),
		EntityID:        string(w.EntityID),
		EntityType:      string(w.EntityType),
		EntityTag:       string(w.EntityTag),
		EntityRoute:     string(w.EntityRoute),
		ResponseTime:    parseNumber(w.ResponseTime),
		UserID:          string(w.UserID),
		UserName:        string(w.UserName),
		ParentID:        string(w.ParentID),
		Context:         parsePayload(w.Context),
	}, nil
}

func parseLevel(raw string) (Level, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	switch raw {
	case "":
		return LevelInfo, nil
	case "WARN":
		return LevelWarning, nil
	}

	level := Level(raw)
	if !level.IsValid() {
		return "", fmt.Errorf("%w: unknown level %q", ErrMalformedEvent, raw)
	}
	return level, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}

	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, raw)
		} else {
			t, err = time.ParseInLocation(layout, raw, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedEvent, raw)
}

// parseID accepts string and numeric identifiers.
func parseID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func parsePayload(raw json.RawMessage) Payload {
	if len(raw) == 0 {
		return nil
	}

	var p map[string]any
	if err := json.Unmarshal(raw, &p); err != nil || p == nil {
		return nil
	}
	return Payload(p)
}

func parseNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
