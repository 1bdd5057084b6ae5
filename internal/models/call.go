package models

import "time"

// Call states reported by the backend.
const (
	CallStateRinging = "ringing"
	CallStateActive  = "active"
	CallStateEnded   = "ended"
	CallStateFailed  = "failed"
	CallStateMissed  = "missed"
)

// CallStates lists the states offered by the state filter, in cycle order.
var CallStates = []string{"", CallStateActive, CallStateEnded, CallStateFailed, CallStateMissed}

// Call is a single call record.
type Call struct {
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	ID              ID         `json:"id"`
	Caller          string     `json:"caller"`
	Callee          string     `json:"callee"`
	State           string     `json:"state"`
	Direction       string     `json:"direction,omitempty"`
	Cost            Amount     `json:"cost,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
}

// Key returns the primary key used to patch list rows.
func (c Call) Key() string { return string(c.ID) }

// CallStats aggregates call counts and durations.
type CallStats struct {
	TotalCalls      int     `json:"total_calls"`
	ActiveCalls     int     `json:"active_calls"`
	EndedCalls      int     `json:"ended_calls"`
	FailedCalls     int     `json:"failed_calls"`
	AverageDuration float64 `json:"average_duration"`
	TotalDuration   float64 `json:"total_duration"`
}

// CallFilters are the query parameters of the call list and export.
type CallFilters struct {
	State     string `query:"state"`
	Direction string `query:"direction"`
	Search    string `query:"search"`
	DateFrom  string `query:"date_from"`
	DateTo    string `query:"date_to"`
	Page      int    `query:"page,omitempty"`
	PageSize  int    `query:"page_size,omitempty"`
}

func (f CallFilters) WithPage(page int) CallFilters { f.Page = page; return f }
func (f CallFilters) CurrentPage() int              { return f.Page }

// NextCallState cycles through CallStates.
func NextCallState(current string) string {
	for i, s := range CallStates {
		if s == current {
			return CallStates[(i+1)%len(CallStates)]
		}
	}
	return CallStates[0]
}
