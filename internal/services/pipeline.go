package services

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"coffee-kpi-dashboard/internal/errors"
	"coffee-kpi-dashboard/internal/models"
	"coffee-kpi-dashboard/internal/observability"
)

// ProductionSource is the schema-accessor contract the pipeline depends
// on. Satisfied by *store.Store in production and by fakes in tests.
type ProductionSource interface {
	FetchDistinctValues(ctx context.Context, start, end time.Time) (machines, customers []string, err error)
	FetchProductionData(ctx context.Context, start, end time.Time, machine, customer string) ([]models.ProductionRecord, error)
}

// DashboardView is the complete view-model for one render pass: the
// resolved filters, the filter options valid for the date range, and the
// derived data. Data is nil when the filtered set is empty.
type DashboardView struct {
	Filters models.FilterSelection `json:"filters"`
	Options models.FilterOptions   `json:"options"`
	Data    *DashboardData         `json:"data,omitempty"`
}

// Dashboard runs the request pipeline: (filters) -> (query) -> (derive)
// -> (view-model). Nothing is cached between renders; every invocation
// re-fetches and recomputes.
type Dashboard struct {
	source  ProductionSource
	logger  *slog.Logger
	started time.Time
	renders atomic.Int64
}

func NewDashboard(source ProductionSource, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		source:  source,
		logger:  logger,
		started: time.Now(),
	}
}

// BuildView fetches filter options and production rows for the selection
// and derives all aggregates. The two queries are independent given the
// date range and run concurrently; any database failure aborts the whole
// render with no partial results.
func (d *Dashboard) BuildView(ctx context.Context, filters models.FilterSelection) (*DashboardView, error) {
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, "dashboard.build_view")
	defer span.Finish()
	span.SetTag("machine", filters.Machine)
	span.SetTag("customer", filters.Customer)
	span.SetTag("start_date", filters.StartDate.Format(dateKeyFormat))
	span.SetTag("end_date", filters.EndDate.Format(dateKeyFormat))

	var (
		machines, customers []string
		records             []models.ProductionRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		machines, customers, err = d.source.FetchDistinctValues(ctx, filters.StartDate, filters.EndDate)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = d.source.FetchProductionData(ctx, filters.StartDate, filters.EndDate, filters.Machine, filters.Customer)
		return err
	})
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, errors.DatabaseWrap(err, "Failed to load production data")
	}
	span.SetTag("records", strconv.Itoa(len(records)))

	view := &DashboardView{
		Filters: filters,
		Options: models.FilterOptions{Machines: machines, Customers: customers},
	}

	data, err := DeriveDashboard(records)
	switch {
	case err == nil:
		view.Data = data
	case err == ErrNoData:
		d.logger.Info("no data for selection",
			"start_date", filters.StartDate.Format(dateKeyFormat),
			"end_date", filters.EndDate.Format(dateKeyFormat),
			"machine", filters.Machine,
			"customer", filters.Customer,
		)
	default:
		return nil, err
	}

	d.renders.Add(1)
	d.logger.Debug("dashboard view built",
		"records", len(records),
		"duration", time.Since(start),
	)

	return view, nil
}

// Data fetches the filtered rows and derives the aggregates, without the
// filter-option lookup. Returns ErrNoData for an empty filtered set.
func (d *Dashboard) Data(ctx context.Context, filters models.FilterSelection) (*DashboardData, error) {
	records, err := d.source.FetchProductionData(ctx, filters.StartDate, filters.EndDate, filters.Machine, filters.Customer)
	if err != nil {
		return nil, errors.DatabaseWrap(err, "Failed to load production data")
	}

	data, err := DeriveDashboard(records)
	if err != nil {
		return nil, err
	}

	d.renders.Add(1)
	return data, nil
}

// FilterOptions returns the distinct machine and customer values for the
// date range.
func (d *Dashboard) FilterOptions(ctx context.Context, start, end time.Time) (models.FilterOptions, error) {
	machines, customers, err := d.source.FetchDistinctValues(ctx, start, end)
	if err != nil {
		return models.FilterOptions{}, errors.DatabaseWrap(err, "Failed to load filter options")
	}
	return models.FilterOptions{Machines: machines, Customers: customers}, nil
}

// ExportRows fetches and derives the filtered rows for the export surface.
// Returns ErrNoData when the filtered set is empty.
func (d *Dashboard) ExportRows(ctx context.Context, filters models.FilterSelection) ([]models.DerivedRow, error) {
	records, err := d.source.FetchProductionData(ctx, filters.StartDate, filters.EndDate, filters.Machine, filters.Customer)
	if err != nil {
		return nil, errors.DatabaseWrap(err, "Failed to load production data")
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return DeriveRows(records), nil
}

// Stats reports render counters for the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	return map[string]any{
		"renders_served": d.renders.Load(),
		"uptime":         time.Since(d.started).String(),
	}
}
