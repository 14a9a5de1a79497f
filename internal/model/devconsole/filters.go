package devconsole

import "time"

// FilterAll is the value meaning "no restriction" for enumerated criteria.
const FilterAll = "ALL"

// TimeRange represents the time window criterion.
type TimeRange string

// TimeRanges for the filter.
const (
	TimeRangeAll      TimeRange = FilterAll
	TimeRangeLast5Min TimeRange = "LAST_5MIN"
	TimeRangeLastHour TimeRange = "LAST_HOUR"
	TimeRangeToday    TimeRange = "TODAY"
)

// ToString converts the TimeRange to its string representation.
func (t TimeRange) ToString() string {
	return string(t)
}

// Window returns the rolling window for the range.
// TODAY and ALL have no rolling window.
func (t TimeRange) Window() (time.Duration, bool) {
	switch t {
	case TimeRangeLast5Min:
		return 5 * time.Minute, true
	case TimeRangeLastHour:
		return time.Hour, true
	default:
		return 0, false
	}
}

// FilterField names one criterion of the filter.
type FilterField string

// FilterFields accepted by SetFilter.
const (
	FilterFieldLevel         FilterField = "level"
	FilterFieldSource        FilterField = "source"
	FilterFieldTopic         FilterField = "topic"
	FilterFieldDiscipline    FilterField = "discipline"
	FilterFieldTimeRange     FilterField = "timeRange"
	FilterFieldSearchText    FilterField = "searchText"
	FilterFieldWorkflowsOnly FilterField = "workflowsOnly"
)

// ToString converts the FilterField to its string representation.
func (f FilterField) ToString() string {
	return string(f)
}

// Filters holds the active filter criteria. Criteria are conjunctive.
type Filters struct {
	Level         Level     `json:"level"`
	Source        Source    `json:"source"`
	Topic         string    `json:"topic"`
	Discipline    string    `json:"discipline"`
	TimeRange     TimeRange `json:"timeRange"`
	SearchText    string    `json:"searchText"`
	WorkflowsOnly bool      `json:"workflowsOnly"`
}

// DefaultFilters returns filters that restrict nothing.
func DefaultFilters() Filters {
	return Filters{
		Level:         FilterAll,
		Source:        FilterAll,
		Topic:         FilterAll,
		Discipline:    FilterAll,
		TimeRange:     TimeRangeAll,
		SearchText:    "",
		WorkflowsOnly: false,
	}
}

// IsDefault reports whether the filters restrict nothing.
func (f Filters) IsDefault() bool {
	return f == DefaultFilters()
}
