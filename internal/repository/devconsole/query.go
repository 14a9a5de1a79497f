package devconsole

import (
	"strings"
	"time"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
)

// matchesEvent reports whether the event satisfies every active criterion.
func matchesEvent(f *devconsolemodel.Filters, e *devconsolemodel.LogEvent, now time.Time) bool {
	if !matchesLevel(f, e) ||
		!matchesSource(f, e) ||
		!matchesTopic(f, e) ||
		!matchesDiscipline(f, e) {
		return false
	}

	if f.SearchText != "" && !containsFold(e.Message, f.SearchText) {
		return false
	}

	if !withinTimeRange(f.TimeRange, e.Timestamp, now) {
		return false
	}

	if f.WorkflowsOnly && !e.HasCorrelation() {
		return false
	}

	return true
}

// matchesWorkflow reports whether the workflow satisfies every active criterion.
// Event-level criteria are existential over member events and are evaluated
// independently of each other; the time range applies to StartTime.
func matchesWorkflow(f *devconsolemodel.Filters, w *devconsolemodel.Workflow, now time.Time) bool {
	if f.Level != devconsolemodel.FilterAll && !anyEvent(w, func(e *devconsolemodel.LogEvent) bool { return matchesLevel(f, e) }) {
		return false
	}

	if f.Source != devconsolemodel.FilterAll && !anyEvent(w, func(e *devconsolemodel.LogEvent) bool { return matchesSource(f, e) }) {
		return false
	}

	if f.Topic != devconsolemodel.FilterAll && !anyEvent(w, func(e *devconsolemodel.LogEvent) bool { return matchesTopic(f, e) }) {
		return false
	}

	if f.Discipline != devconsolemodel.FilterAll && !anyEvent(w, func(e *devconsolemodel.LogEvent) bool { return matchesDiscipline(f, e) }) {
		return false
	}

	if f.SearchText != "" &&
		!containsFold(w.Summary, f.SearchText) &&
		!anyEvent(w, func(e *devconsolemodel.LogEvent) bool { return containsFold(e.Message, f.SearchText) }) {
		return false
	}

	return withinTimeRange(f.TimeRange, w.StartTime, now)
}

func matchesLevel(f *devconsolemodel.Filters, e *devconsolemodel.LogEvent) bool {
	return f.Level == devconsolemodel.FilterAll || e.Level == f.Level
}

func matchesSource(f *devconsolemodel.Filters, e *devconsolemodel.LogEvent) bool {
	return f.Source == devconsolemodel.FilterAll || e.Source == f.Source
}

func matchesTopic(f *devconsolemodel.Filters, e *devconsolemodel.LogEvent) bool {
	return f.Topic == devconsolemodel.FilterAll || (e.Topic != "" && e.Topic == f.Topic)
}

func matchesDiscipline(f *devconsolemodel.Filters, e *devconsolemodel.LogEvent) bool {
	return f.Discipline == devconsolemodel.FilterAll || (e.Discipline != "" && e.Discipline == f.Discipline)
}

func anyEvent(w *devconsolemodel.Workflow, pred func(e *devconsolemodel.LogEvent) bool) bool {
	for i := range w.Events {
		if pred(&w.Events[i]) {
			return true
		}
	}
	return false
}

// withinTimeRange evaluates a time criterion. TODAY uses the local calendar day.
func withinTimeRange(tr devconsolemodel.TimeRange, ts, now time.Time) bool {
	if window, ok := tr.Window(); ok {
		return now.Sub(ts) <= window
	}

	if tr == devconsolemodel.TimeRangeToday {
		local := now.In(time.Local)
		y, m, d := local.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		return !ts.Before(midnight) && ts.Before(midnight.AddDate(0, 0, 1))
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
