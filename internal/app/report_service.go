package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	reports        secondary.ReportRepository
	staleAfterDays int
	logger         zerolog.Logger
}

// NewReportService creates a new ReportService with injected dependencies.
// staleAfterDays <= 0 uses the default threshold.
func NewReportService(reports secondary.ReportRepository, staleAfterDays int, logger zerolog.Logger) *ReportServiceImpl {
	if staleAfterDays <= 0 {
		staleAfterDays = order.DefaultStaleAfterDays
	}
	return &ReportServiceImpl{
		reports:        reports,
		staleAfterDays: staleAfterDays,
		logger:         logger.With().Str("service", "report").Logger(),
	}
}

// OpenOrders lists open orders.
func (s *ReportServiceImpl) OpenOrders(ctx context.Context, req primary.OpenOrdersRequest) ([]*primary.OrderRow, error) {
	filters, err := s.openFilters(ctx, req)
	if err != nil {
		return nil, err
	}

	views, err := s.reports.OpenOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list open orders: %w", err)
	}
	return s.viewsToRows(views, true), nil
}

// OpenDashboard aggregates open orders.
func (s *ReportServiceImpl) OpenDashboard(ctx context.Context, req primary.OpenOrdersRequest) (*primary.OpenDashboard, error) {
	filters, err := s.openFilters(ctx, req)
	if err != nil {
		return nil, err
	}

	summary, err := s.reports.OpenSummary(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize open orders: %w", err)
	}

	dashboard := &primary.OpenDashboard{
		Total:    summary.Total,
		Stale:    summary.Stale,
		ByStatus: make([]*primary.StatusCount, len(summary.ByStatus)),
	}
	for i, sc := range summary.ByStatus {
		dashboard.ByStatus[i] = &primary.StatusCount{Status: sc.Status, Count: sc.Count}
	}
	return dashboard, nil
}

// BilledReport lists and aggregates billed orders.
func (s *ReportServiceImpl) BilledReport(ctx context.Context, req primary.BilledReportRequest) (*primary.BilledReport, error) {
	actor, err := requireActor(ctx, "view billed orders")
	if err != nil {
		return nil, err
	}
	req.Year = strings.TrimSpace(req.Year)
	req.Month = strings.TrimSpace(req.Month)
	if err := validateRequest("billed report", req); err != nil {
		return nil, err
	}

	filters := secondary.BilledFilters{
		ConsultantID: req.ConsultantID,
		Year:         req.Year,
		Month:        req.Month,
	}
	if len(filters.Month) == 1 {
		filters.Month = "0" + filters.Month
	}
	if !actor.IsSupervisor() {
		filters.ConsultantID = actor.UserID
	}

	kpis, err := s.reports.BilledKPIs(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to total billed orders: %w", err)
	}
	monthly, err := s.reports.BilledMonthly(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to group billed orders by month: %w", err)
	}
	yearly, err := s.reports.BilledYearly(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to group billed orders by year: %w", err)
	}
	years, err := s.reports.BilledYears(ctx, filters.ConsultantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list billed years: %w", err)
	}
	views, err := s.reports.BilledOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list billed orders: %w", err)
	}

	s.logger.Debug().
		Int64("consultant_id", filters.ConsultantID).
		Str("year", filters.Year).
		Str("month", filters.Month).
		Int("count", kpis.Count).
		Msg("billed report built")

	return &primary.BilledReport{
		Count:   kpis.Count,
		Total:   kpis.Total,
		Monthly: periodsToPrimary(monthly),
		Yearly:  periodsToPrimary(yearly),
		Years:   years,
		Orders:  s.viewsToRows(views, false),
	}, nil
}

// Helper methods

// openFilters scopes consultants to their own orders.
func (s *ReportServiceImpl) openFilters(ctx context.Context, req primary.OpenOrdersRequest) (secondary.OpenOrderFilters, error) {
	actor, err := requireActor(ctx, "view open orders")
	if err != nil {
		return secondary.OpenOrderFilters{}, err
	}

	filters := secondary.OpenOrderFilters{
		ConsultantID:   req.ConsultantID,
		StatusText:     strings.TrimSpace(req.StatusText),
		OnlyStale:      req.OnlyStale,
		StaleAfterDays: s.staleAfterDays,
	}
	if !actor.IsSupervisor() {
		filters.ConsultantID = actor.UserID
	}
	return filters, nil
}

func (s *ReportServiceImpl) viewsToRows(views []*secondary.OrderView, open bool) []*primary.OrderRow {
	rows := make([]*primary.OrderRow, len(views))
	for i, v := range views {
		row := &primary.OrderRow{
			OrderNumber:        v.OrderNumber,
			OrderType:          v.OrderType,
			Client:             v.ClientName,
			Model:              v.ModelName,
			ChassisID:          v.ChassisID,
			MachineType:        v.MachineType,
			Consultant:         v.ConsultantName,
			Status:             v.StatusText,
			ServiceDescription: v.ServiceDescription,
			OpenedDate:         v.OpenedDate,
			BilledDate:         v.BilledDate,
			FactoryPaymentDate: v.FactoryPaymentDate,
			NetAmount:          v.NetAmount,
		}
		if open {
			row.DaysOpen = v.DaysOpen
			row.Stale = v.DaysOpen > s.staleAfterDays
		}
		rows[i] = row
	}
	return rows
}

func periodsToPrimary(periods []*secondary.PeriodTotal) []*primary.PeriodTotal {
	out := make([]*primary.PeriodTotal, len(periods))
	for i, p := range periods {
		out[i] = &primary.PeriodTotal{Period: p.Period, Count: p.Count, Total: p.Total}
	}
	return out
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)
