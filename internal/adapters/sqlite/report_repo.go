package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ports/secondary"
)

// ReportRepository implements secondary.ReportRepository with SQLite.
type ReportRepository struct {
	db  Querier
	now func() time.Time
}

// NewReportRepository creates a new SQLite report repository. Day counts are
// taken against now.
func NewReportRepository(db Querier, now func() time.Time) *ReportRepository {
	if now == nil {
		now = time.Now
	}
	return &ReportRepository{db: db, now: now}
}

const orderViewSelect = `
	SELECT o.order_number, o.order_type, c.name, m.name, m.chassis_id, t.description, k.name,
		s.description, o.service_description, o.opened_date, o.billed_date, o.factory_payment_date,
		o.net_amount, CAST(julianday(?) - julianday(o.opened_date) AS INTEGER)
	FROM service_orders o
	JOIN clients c ON c.id = o.client_id
	JOIN models m ON m.id = o.model_id
	JOIN machine_types t ON t.id = m.machine_type_id
	JOIN consultants k ON k.id = o.consultant_id
	JOIN statuses s ON s.id = o.status_id`

func (r *ReportRepository) today() string {
	return r.now().Format(order.StorageLayout)
}

// openWhere builds the WHERE clause shared by open-order queries. The first
// placeholder of the clause is the reference date for the stale predicate.
func (r *ReportRepository) openWhere(filters secondary.OpenOrderFilters) (string, []any) {
	where := " WHERE o.billed_date IS NULL"
	var args []any

	if filters.ConsultantID != 0 {
		where += " AND o.consultant_id = ?"
		args = append(args, filters.ConsultantID)
	}
	if filters.StatusText != "" {
		where += " AND s.description = ?"
		args = append(args, filters.StatusText)
	}
	if filters.OnlyStale {
		where += " AND julianday(?) - julianday(o.opened_date) > ?"
		args = append(args, r.today(), staleDays(filters))
	}

	return where, args
}

func staleDays(filters secondary.OpenOrderFilters) int {
	if filters.StaleAfterDays > 0 {
		return filters.StaleAfterDays
	}
	return order.DefaultStaleAfterDays
}

// OpenOrders lists orders with no billed date, newest first.
func (r *ReportRepository) OpenOrders(ctx context.Context, filters secondary.OpenOrderFilters) ([]*secondary.OrderView, error) {
	where, args := r.openWhere(filters)
	args = append([]any{r.today()}, args...)
	return r.queryViews(ctx, orderViewSelect+where+" ORDER BY o.opened_date DESC, o.id DESC", args, "list open orders")
}

// BilledOrders lists orders with a billed date, most recently billed first.
func (r *ReportRepository) BilledOrders(ctx context.Context, filters secondary.BilledFilters) ([]*secondary.OrderView, error) {
	where, args := billedWhere(filters, true)
	args = append([]any{r.today()}, args...)
	return r.queryViews(ctx, orderViewSelect+where+" ORDER BY o.billed_date DESC, o.id DESC", args, "list billed orders")
}

func (r *ReportRepository) queryViews(ctx context.Context, query string, args []any, op string) ([]*secondary.OrderView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, op, conflictTarget{})
	}
	defer rows.Close()

	var views []*secondary.OrderView
	for rows.Next() {
		var (
			chassis     sql.NullString
			description sql.NullString
			billed      sql.NullString
			factoryPaid sql.NullString
			amount      sql.NullFloat64
		)
		v := &secondary.OrderView{}
		if err := rows.Scan(&v.OrderNumber, &v.OrderType, &v.ClientName, &v.ModelName, &chassis,
			&v.MachineType, &v.ConsultantName, &v.StatusText, &description, &v.OpenedDate,
			&billed, &factoryPaid, &amount, &v.DaysOpen); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		v.ChassisID = chassis.String
		v.ServiceDescription = description.String
		v.BilledDate = billed.String
		v.FactoryPaymentDate = factoryPaid.String
		v.NetAmount = floatPtr(amount)
		views = append(views, v)
	}

	return views, rows.Err()
}

// OpenSummary counts open orders in total, stale and per status.
// OnlyStale in filters is ignored.
func (r *ReportRepository) OpenSummary(ctx context.Context, filters secondary.OpenOrderFilters) (*secondary.OpenSummary, error) {
	filters.OnlyStale = false
	where, args := r.openWhere(filters)

	summary := &secondary.OpenSummary{}
	totalArgs := append([]any{r.today(), staleDays(filters)}, args...)
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN julianday(?) - julianday(o.opened_date) > ? THEN 1 ELSE 0 END), 0)
		FROM service_orders o JOIN statuses s ON s.id = o.status_id`+where,
		totalArgs...,
	).Scan(&summary.Total, &summary.Stale)
	if err != nil {
		return nil, translateError(err, "summarize open orders", conflictTarget{})
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.description, COUNT(o.id)
		FROM service_orders o JOIN statuses s ON s.id = o.status_id`+where+`
		GROUP BY s.description ORDER BY COUNT(o.id) DESC, s.description`,
		args...,
	)
	if err != nil {
		return nil, translateError(err, "count open orders by status", conflictTarget{})
	}
	defer rows.Close()

	for rows.Next() {
		sc := &secondary.StatusCount{}
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		summary.ByStatus = append(summary.ByStatus, sc)
	}

	return summary, rows.Err()
}

// billedWhere builds the WHERE clause for billed-order queries. withMonth
// false drops the month filter, as the yearly series does.
func billedWhere(filters secondary.BilledFilters, withMonth bool) (string, []any) {
	where := " WHERE o.billed_date IS NOT NULL"
	var args []any

	if filters.ConsultantID != 0 {
		where += " AND o.consultant_id = ?"
		args = append(args, filters.ConsultantID)
	}
	if filters.Year != "" {
		where += " AND strftime('%Y', o.billed_date) = ?"
		args = append(args, filters.Year)
	}
	if withMonth && filters.Month != "" {
		where += " AND strftime('%m', o.billed_date) = ?"
		args = append(args, filters.Month)
	}

	return where, args
}

// BilledKPIs returns the count and net amount total of billed orders.
func (r *ReportRepository) BilledKPIs(ctx context.Context, filters secondary.BilledFilters) (*secondary.PeriodTotal, error) {
	where, args := billedWhere(filters, true)

	kpi := &secondary.PeriodTotal{}
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(o.net_amount), 0) FROM service_orders o"+where, args...,
	).Scan(&kpi.Count, &kpi.Total)
	if err != nil {
		return nil, translateError(err, "compute billed totals", conflictTarget{})
	}
	return kpi, nil
}

// BilledMonthly groups billed orders by YYYY-MM.
func (r *ReportRepository) BilledMonthly(ctx context.Context, filters secondary.BilledFilters) ([]*secondary.PeriodTotal, error) {
	where, args := billedWhere(filters, true)
	return r.queryPeriods(ctx, "%Y-%m", where, args, "group billed orders by month")
}

// BilledYearly groups billed orders by YYYY; the month filter is ignored.
func (r *ReportRepository) BilledYearly(ctx context.Context, filters secondary.BilledFilters) ([]*secondary.PeriodTotal, error) {
	where, args := billedWhere(filters, false)
	return r.queryPeriods(ctx, "%Y", where, args, "group billed orders by year")
}

func (r *ReportRepository) queryPeriods(ctx context.Context, format, where string, args []any, op string) ([]*secondary.PeriodTotal, error) {
	query := `
		SELECT strftime('` + format + `', o.billed_date) AS period, COUNT(*), COALESCE(SUM(o.net_amount), 0)
		FROM service_orders o` + where + `
		GROUP BY period ORDER BY period`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, op, conflictTarget{})
	}
	defer rows.Close()

	var periods []*secondary.PeriodTotal
	for rows.Next() {
		p := &secondary.PeriodTotal{}
		if err := rows.Scan(&p.Period, &p.Count, &p.Total); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// BilledYears lists the distinct years with billed orders, newest first.
func (r *ReportRepository) BilledYears(ctx context.Context, consultantID int64) ([]string, error) {
	where, args := billedWhere(secondary.BilledFilters{ConsultantID: consultantID}, false)
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT strftime('%Y', o.billed_date) AS year FROM service_orders o"+where+" ORDER BY year DESC",
		args...,
	)
	if err != nil {
		return nil, translateError(err, "list billed years", conflictTarget{})
	}
	defer rows.Close()

	var years []string
	for rows.Next() {
		var year string
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// Inventory lists every model with its type and the client holding it on an
// open order. A model on several open orders appears once per order.
func (r *ReportRepository) Inventory(ctx context.Context) ([]*secondary.InventoryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.name, m.chassis_id, t.description, c.name
		FROM models m
		JOIN machine_types t ON t.id = m.machine_type_id
		LEFT JOIN service_orders o ON o.model_id = m.id AND o.billed_date IS NULL
		LEFT JOIN clients c ON c.id = o.client_id
		ORDER BY t.description, m.name`)
	if err != nil {
		return nil, translateError(err, "list inventory", conflictTarget{})
	}
	defer rows.Close()

	var inventory []*secondary.InventoryRow
	for rows.Next() {
		var chassis, client sql.NullString
		row := &secondary.InventoryRow{}
		if err := rows.Scan(&row.ModelName, &chassis, &row.MachineType, &client); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		row.ChassisID = chassis.String
		row.ClientName = client.String
		inventory = append(inventory, row)
	}
	return inventory, rows.Err()
}

// ModelCountByType counts models per machine type, largest first.
func (r *ReportRepository) ModelCountByType(ctx context.Context) ([]*secondary.TypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.description, COUNT(m.id)
		FROM models m JOIN machine_types t ON t.id = m.machine_type_id
		GROUP BY t.description
		ORDER BY COUNT(m.id) DESC, t.description`)
	if err != nil {
		return nil, translateError(err, "count models by type", conflictTarget{})
	}
	defer rows.Close()

	var counts []*secondary.TypeCount
	for rows.Next() {
		tc := &secondary.TypeCount{}
		if err := rows.Scan(&tc.MachineType, &tc.Models); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// Ensure ReportRepository implements the interface
var _ secondary.ReportRepository = (*ReportRepository)(nil)
