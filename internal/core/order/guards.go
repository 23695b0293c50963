package order

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// EditOrderContext provides context for open-order edit guards.
type EditOrderContext struct {
	OrderNumber             string
	ActorID                 int64
	ActorIsSupervisor       bool
	OrderConsultantID       int64
	TouchesSupervisorFields bool
}

// DeleteOrderContext provides context for order deletion guards.
type DeleteOrderContext struct {
	OrderNumber       string
	ActorIsSupervisor bool
	IsOpen            bool
}

// CanEditOrder evaluates whether the actor may edit an open order.
// Rules:
// - Consultants only edit their own orders
// - Order type and net amount are supervisor-only
func CanEditOrder(ctx EditOrderContext) GuardResult {
	if ctx.ActorIsSupervisor {
		return GuardResult{Allowed: true}
	}

	if ctx.OrderConsultantID != ctx.ActorID {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("service order %s belongs to another consultant", ctx.OrderNumber),
		}
	}

	if ctx.TouchesSupervisorFields {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("only supervisors may change order type or net amount (order %s)", ctx.OrderNumber),
		}
	}

	return GuardResult{Allowed: true}
}

// CanDeleteOrder evaluates whether an order may be deleted.
// Rules:
// - Supervisor only
// - Only open orders
func CanDeleteOrder(ctx DeleteOrderContext) GuardResult {
	if !ctx.ActorIsSupervisor {
		return GuardResult{
			Allowed: false,
			Reason:  "only supervisors may delete service orders",
		}
	}

	if !ctx.IsOpen {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("service order %s is already billed", ctx.OrderNumber),
		}
	}

	return GuardResult{Allowed: true}
}
