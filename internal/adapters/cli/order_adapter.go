package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ports/primary"
)

// OrderAdapter translates CLI operations to OrderService calls.
type OrderAdapter struct {
	service primary.OrderService
	out     io.Writer
}

// NewOrderAdapter creates a new OrderAdapter with the given service.
func NewOrderAdapter(service primary.OrderService, out io.Writer) *OrderAdapter {
	return &OrderAdapter{
		service: service,
		out:     out,
	}
}

// Open registers a new service order.
func (a *OrderAdapter) Open(ctx context.Context, req primary.OpenOrderRequest) error {
	resp, err := a.service.OpenOrder(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Opened service order %s (id %d)\n", resp.OrderNumber, resp.OrderID)
	return nil
}

// Edit applies one or more edits in a single transaction.
func (a *OrderAdapter) Edit(ctx context.Context, reqs []primary.EditOrderRequest) error {
	results, err := a.service.EditOpenOrders(ctx, reqs)
	if err != nil {
		return err
	}

	for _, r := range results {
		if len(r.ChangedFields) == 0 && !r.Transitioned {
			fmt.Fprintf(a.out, "No changes to %s\n", r.OrderNumber)
			continue
		}
		if len(r.ChangedFields) > 0 {
			fmt.Fprintf(a.out, "✓ Updated %s: %s\n", r.OrderNumber, strings.Join(r.ChangedFields, ", "))
		}
		if r.Transitioned {
			fmt.Fprintf(a.out, "✓ %s filed as %s\n", r.OrderNumber, billedColor.Sprint(order.BilledStatus))
		}
	}
	return nil
}

// Delete deletes an open order.
func (a *OrderAdapter) Delete(ctx context.Context, orderNumber string) error {
	if err := a.service.DeleteOrder(ctx, orderNumber); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Service order %s deleted\n", orderNumber)
	return nil
}

// Show displays a single order.
func (a *OrderAdapter) Show(ctx context.Context, orderNumber string) (*primary.Order, error) {
	o, err := a.service.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	status := o.StatusText
	if !order.IsOpen(o.BilledDate) {
		status = billedColor.Sprint(status)
	}

	fmt.Fprintf(a.out, "\nOrder:   %s\n", o.OrderNumber)
	fmt.Fprintf(a.out, "Type:    %s\n", o.OrderType)
	fmt.Fprintf(a.out, "Status:  %s\n", status)
	fmt.Fprintf(a.out, "Opened:  %s\n", order.FormatDate(o.OpenedDate))
	if o.BilledDate != "" {
		fmt.Fprintf(a.out, "Billed:  %s\n", order.FormatDate(o.BilledDate))
	}
	if o.FactoryPaymentDate != "" {
		fmt.Fprintf(a.out, "Factory payment: %s\n", order.FormatDate(o.FactoryPaymentDate))
	}
	if o.NetAmount != nil {
		fmt.Fprintf(a.out, "Amount:  R$ %s\n", order.FormatAmount(o.NetAmount))
	}
	if o.ServiceDescription != "" {
		fmt.Fprintf(a.out, "Service: %s\n", o.ServiceDescription)
	}
	fmt.Fprintln(a.out)

	return o, nil
}

// History prints the audit log of an order.
func (a *OrderAdapter) History(ctx context.Context, orderNumber string) error {
	entries, err := a.service.OrderHistory(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No history for %s\n", orderNumber)
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tFIELD\tBEFORE\tAFTER")
	fmt.Fprintln(w, "----\t-----\t------\t-----\t------\t-----")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			e.CreatedAt, e.ActorID, e.Action, orDash(e.FieldName), orDash(e.OldValue), orDash(e.NewValue))
	}
	return w.Flush()
}
