package services

import (
	"time"

	"coffee-kpi-dashboard/internal/models"
)

// DateRangeChoice is the human-facing date-range selector value.
type DateRangeChoice string

const (
	RangeLast7Days  DateRangeChoice = "last_7_days"
	RangeLast30Days DateRangeChoice = "last_30_days"
	RangeThisMonth  DateRangeChoice = "this_month"
	RangeCustom     DateRangeChoice = "custom"

	// customRangeLimitDays bounds how far back a custom range may reach.
	customRangeLimitDays = 365
)

// ResolveDateRange maps a range choice to concrete inclusive bounds. It
// is a pure function of today's date and the selection. A custom range
// is clamped to [today-365d, today]; an incomplete custom selection (or
// an unknown choice) falls back to the last 30 days.
func ResolveDateRange(today time.Time, choice DateRangeChoice, customStart, customEnd *time.Time) (time.Time, time.Time) {
	today = truncateToDay(today)

	switch choice {
	case RangeLast7Days:
		return today.AddDate(0, 0, -7), today
	case RangeThisMonth:
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return firstOfMonth, today
	case RangeCustom:
		if customStart == nil || customEnd == nil {
			return today.AddDate(0, 0, -30), today
		}
		earliest := today.AddDate(0, 0, -customRangeLimitDays)
		start := clampDate(truncateToDay(*customStart), earliest, today)
		end := clampDate(truncateToDay(*customEnd), earliest, today)
		return start, end
	default:
		return today.AddDate(0, 0, -30), today
	}
}

// DefaultFilters is the reset state: last 30 days, all machines, all
// customers.
func DefaultFilters(today time.Time) models.FilterSelection {
	start, end := ResolveDateRange(today, RangeLast30Days, nil, nil)
	return models.FilterSelection{
		StartDate: start,
		EndDate:   end,
		Machine:   "All",
		Customer:  "All",
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clampDate(t, min, max time.Time) time.Time {
	if t.Before(min) {
		return min
	}
	if t.After(max) {
		return max
	}
	return t
}
