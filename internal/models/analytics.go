package models

import "strings"

// Overview holds the headline platform counters.
type Overview struct {
	TotalRewards        Amount `json:"total_rewards"`
	TotalUsers          int    `json:"total_users"`
	ActiveUsers         int    `json:"active_users"`
	TotalCalls          int    `json:"total_calls"`
	TotalReferrals      int    `json:"total_referrals"`
	SuccessfulReferrals int    `json:"successful_referrals"`
}

// ConversionRate is the share of successful referrals, 0..1.
func (o Overview) ConversionRate() float64 {
	if o.TotalReferrals == 0 {
		return 0
	}
	return float64(o.SuccessfulReferrals) / float64(o.TotalReferrals)
}

// TrendPoint is one bucket of a time series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TrendValues extracts the series values in order.
func TrendValues(points []TrendPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

// Analytics periods.
const (
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
)

// AnalyticsPeriods lists the periods in cycle order.
var AnalyticsPeriods = []string{Period7d, Period30d, Period90d}

// AnalyticsQuery selects the window of an analytics request.
type AnalyticsQuery struct {
	Period   string `query:"period"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
}

// Key identifies the query in a keyed slice.
func (q AnalyticsQuery) Key() string {
	return strings.Join([]string{q.Period, q.DateFrom, q.DateTo}, "|")
}
