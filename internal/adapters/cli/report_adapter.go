package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ports/primary"
)

// ReportAdapter renders ReportService results as tables or YAML.
type ReportAdapter struct {
	service primary.ReportService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given service.
func NewReportAdapter(service primary.ReportService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		service: service,
		out:     out,
	}
}

// OpenOrders lists open orders. Stale orders are flagged in red.
func (a *ReportAdapter) OpenOrders(ctx context.Context, req primary.OpenOrdersRequest, format Format) error {
	rows, err := a.service.OpenOrders(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to list open orders: %w", err)
	}

	if format == FormatYAML {
		return writeYAML(a.out, rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No open orders found")
		return nil
	}

	// Coloured cell last: tabwriter counts escape codes as width.
	w := newTable(a.out)
	fmt.Fprintln(w, "ORDER\tCLIENT\tMODEL\tCONSULTANT\tOPENED\tDAYS\tSTATUS")
	fmt.Fprintln(w, "-----\t------\t-----\t----------\t------\t----\t------")
	for _, r := range rows {
		status := r.Status
		if r.Stale {
			status = staleColor.Sprintf("%s (stale)", r.Status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.OrderNumber, r.Client, r.Model, r.Consultant, order.FormatDate(r.OpenedDate), r.DaysOpen, status)
	}
	return w.Flush()
}

// Dashboard prints the open-order totals.
func (a *ReportAdapter) Dashboard(ctx context.Context, req primary.OpenOrdersRequest, format Format) error {
	d, err := a.service.OpenDashboard(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}

	if format == FormatYAML {
		return writeYAML(a.out, d)
	}

	fmt.Fprintf(a.out, "\nOpen orders: %d\n", d.Total)
	stale := strconv.Itoa(d.Stale)
	if d.Stale > 0 {
		stale = staleColor.Sprint(stale)
	}
	fmt.Fprintf(a.out, "Stale:       %s\n\n", stale)

	if len(d.ByStatus) == 0 {
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "STATUS\tORDERS")
	fmt.Fprintln(w, "------\t------")
	for _, c := range d.ByStatus {
		fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Count)
	}
	return w.Flush()
}

// Billed prints the billed report: KPIs, monthly and yearly series, then orders.
func (a *ReportAdapter) Billed(ctx context.Context, req primary.BilledReportRequest, format Format) error {
	r, err := a.service.BilledReport(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to build billed report: %w", err)
	}

	if format == FormatYAML {
		return writeYAML(a.out, r)
	}

	total := r.Total
	fmt.Fprintf(a.out, "\nBilled orders: %d\n", r.Count)
	fmt.Fprintf(a.out, "Net total:     %s\n", billedColor.Sprintf("R$ %s", order.FormatAmount(&total)))
	if len(r.Years) > 0 {
		fmt.Fprintf(a.out, "Years:         %v\n", r.Years)
	}
	fmt.Fprintln(a.out)

	if len(r.Monthly) > 0 {
		a.periods("MONTH", r.Monthly)
	}
	if len(r.Yearly) > 0 {
		a.periods("YEAR", r.Yearly)
	}

	if len(r.Orders) == 0 {
		fmt.Fprintln(a.out, "No billed orders found")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ORDER\tCLIENT\tMODEL\tCONSULTANT\tBILLED\tAMOUNT\tSTATUS")
	fmt.Fprintln(w, "-----\t------\t-----\t----------\t------\t------\t------")
	for _, o := range r.Orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.OrderNumber, o.Client, o.Model, o.Consultant, order.FormatDate(o.BilledDate),
			orDash(order.FormatAmount(o.NetAmount)), billedColor.Sprint(o.Status))
	}
	return w.Flush()
}

func (a *ReportAdapter) periods(label string, totals []*primary.PeriodTotal) {
	w := newTable(a.out)
	fmt.Fprintf(w, "%s\tORDERS\tTOTAL\n", label)
	for _, p := range totals {
		total := p.Total
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.Period, p.Count, order.FormatAmount(&total))
	}
	w.Flush()
	fmt.Fprintln(a.out)
}
