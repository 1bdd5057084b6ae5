package models

import "time"

// RequestLogEntry records one completed API round-trip.
type RequestLogEntry struct {
	Timestamp  time.Time
	Method     string
	Path       string
	RequestID  string
	Error      string
	ID         int64
	StatusCode int
	DurationMs int
}

// Failed reports whether the request ended in a transport error or a
// non-2xx status.
func (e RequestLogEntry) Failed() bool {
	return e.Error != "" || e.StatusCode >= 400 || e.StatusCode == 0
}

// HourlyStats represents request statistics grouped by hour.
type HourlyStats struct {
	Hour          time.Time
	TotalRequests int
	ErrorCount    int
	AvgDurationMs float64
}

// TotalStats represents overall aggregated request statistics.
type TotalStats struct {
	TotalRequests int
	ErrorCount    int
	UniquePaths   int
	AvgDurationMs float64
}

// TimeRange selects the window of the activity views.
type TimeRange int

const (
	// TimeRange6Hours shows the last 6 hours.
	TimeRange6Hours TimeRange = iota
	// TimeRange24Hours shows the last 24 hours.
	TimeRange24Hours
	// TimeRange7Days shows the last 7 days.
	TimeRange7Days
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange6Hours:
		return "6 Hours"
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	default:
		return "Unknown"
	}
}

// Hours returns the window length in hours.
func (t TimeRange) Hours() int {
	switch t {
	case TimeRange6Hours:
		return 6
	case TimeRange7Days:
		return 7 * 24
	default:
		return 24
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 3
}
