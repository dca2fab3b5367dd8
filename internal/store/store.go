// Package store is the read-only schema accessor for the coffee
// production tables. The schema is owned by the plant's ERP export, not
// by this service, which is why the column name "schedulded_cases"
// (sic) is preserved in the SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"coffee-kpi-dashboard/internal/config"
	"coffee-kpi-dashboard/internal/models"
)

// AllSentinel leaves a machine/customer dimension unconstrained.
const AllSentinel = "All"

const distinctValuesQuery = `
SELECT DISTINCT machine.machine_name, sku.customer
FROM daily_production dp
JOIN sku ON dp.sku_id = sku.id
JOIN machine ON dp.machine_id = machine.id
WHERE dp.date BETWEEN $1 AND $2
ORDER BY machine.machine_name, sku.customer`

const productionBaseQuery = `
SELECT
    dp.date, dp.schedulded_cases, dp.produced_cases,
    dp.shift_start::text, dp.shift_end::text, sku.customer,
    sku.sku_of_product, sku.arabica, sku.robusta, sku.brazil,
    machine.machine_name
FROM daily_production dp
JOIN sku ON dp.sku_id = sku.id
JOIN machine ON dp.machine_id = machine.id
WHERE dp.date BETWEEN $1 AND $2`

// Store wraps the pooled Postgres connection. It is opened once at
// startup and closed by a shutdown hook; individual queries borrow
// connections from the pool.
type Store struct {
	db           *sql.DB
	logger       *slog.Logger
	queryTimeout time.Duration
}

func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("pgx", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, logger: logger, queryTimeout: cfg.QueryTimeout}, nil
}

// withQueryTimeout bounds a single query with the configured timeout.
func (s *Store) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// FetchDistinctValues returns the machine names and customers present in
// the date range, each sorted ascending with NULLs dropped. An inverted
// range yields empty sets rather than an error.
func (s *Store) FetchDistinctValues(ctx context.Context, start, end time.Time) ([]string, []string, error) {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, distinctValuesQuery, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("query distinct values: %w", err)
	}
	defer rows.Close()

	machineSet := make(map[string]struct{})
	customerSet := make(map[string]struct{})

	for rows.Next() {
		var machine, customer sql.NullString
		if err := rows.Scan(&machine, &customer); err != nil {
			return nil, nil, fmt.Errorf("scan distinct values: %w", err)
		}
		if machine.Valid {
			machineSet[machine.String] = struct{}{}
		}
		if customer.Valid {
			customerSet[customer.String] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate distinct values: %w", err)
	}

	return sortedKeys(machineSet), sortedKeys(customerSet), nil
}

// FetchProductionData returns the filtered production records ordered by
// (date, machine_name). Passing "All" or an empty string for machine or
// customer skips that equality filter.
func (s *Store) FetchProductionData(ctx context.Context, start, end time.Time, machine, customer string) ([]models.ProductionRecord, error) {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	query, args := buildProductionQuery(start, end, machine, customer)

	s.logger.Debug("fetching production data",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"machine", machine,
		"customer", customer,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query production data: %w", err)
	}
	defer rows.Close()

	var records []models.ProductionRecord
	for rows.Next() {
		record, err := scanProductionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate production data: %w", err)
	}

	return records, nil
}

func buildProductionQuery(start, end time.Time, machine, customer string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(productionBaseQuery)

	args := []any{start, end}

	if machine != "" && machine != AllSentinel {
		args = append(args, machine)
		fmt.Fprintf(&sb, " AND machine.machine_name = $%d", len(args))
	}
	if customer != "" && customer != AllSentinel {
		args = append(args, customer)
		fmt.Fprintf(&sb, " AND sku.customer = $%d", len(args))
	}

	sb.WriteString(" ORDER BY dp.date, machine.machine_name")
	return sb.String(), args
}

func scanProductionRecord(rows *sql.Rows) (models.ProductionRecord, error) {
	var (
		date                        sql.NullTime
		scheduled, produced         sql.NullString
		shiftStart, shiftEnd        sql.NullString
		customer, skuOf, machine    sql.NullString
		arabica, robusta, brazilRaw sql.NullString
	)

	err := rows.Scan(&date, &scheduled, &produced, &shiftStart, &shiftEnd,
		&customer, &skuOf, &arabica, &robusta, &brazilRaw, &machine)
	if err != nil {
		return models.ProductionRecord{}, err
	}

	return models.ProductionRecord{
		Date:           date.Time,
		ScheduledCases: coerceInt(scheduled),
		ProducedCases:  coerceInt(produced),
		ShiftStart:     shiftStart.String,
		ShiftEnd:       shiftEnd.String,
		Customer:       customer.String,
		SKU:            skuOf.String,
		Arabica:        coerceFloat(arabica),
		Robusta:        coerceFloat(robusta),
		Brazil:         coerceFloat(brazilRaw),
		MachineName:    machine.String,
	}, nil
}

// coerceInt turns a raw column value into an integer count. Values that
// do not parse as numbers become nil (missing) rather than an error.
func coerceInt(v sql.NullString) *int64 {
	if !v.Valid {
		return nil
	}
	raw := strings.TrimSpace(v.String)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		n := int64(f)
		return &n
	}
	return nil
}

func coerceFloat(v sql.NullString) *float64 {
	if !v.Valid {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil {
		return nil
	}
	return &f
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
