package handlers

import (
	"net/http"
	"time"

	"coffee-kpi-dashboard/internal/models"
	"coffee-kpi-dashboard/internal/services"
	"coffee-kpi-dashboard/internal/store"
)

const queryDateFormat = "2006-01-02"

// parseFilters resolves the request's query parameters into a concrete
// FilterSelection. Unknown range choices and incomplete custom ranges
// fall back to the last-30-days default; absent machine/customer
// filters default to the unconstrained sentinel.
func parseFilters(r *http.Request, now time.Time) models.FilterSelection {
	q := r.URL.Query()

	choice := services.DateRangeChoice(q.Get("range"))
	customStart := parseQueryDate(q.Get("start"))
	customEnd := parseQueryDate(q.Get("end"))

	start, end := services.ResolveDateRange(now, choice, customStart, customEnd)

	machine := q.Get("machine")
	if machine == "" {
		machine = store.AllSentinel
	}
	customer := q.Get("customer")
	if customer == "" {
		customer = store.AllSentinel
	}

	return models.FilterSelection{
		StartDate: start,
		EndDate:   end,
		Machine:   machine,
		Customer:  customer,
	}
}

func parseQueryDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(queryDateFormat, value)
	if err != nil {
		return nil
	}
	return &t
}
