// Package client contains the pure business logic for client operations.
// Guards are pure functions that evaluate preconditions without side effects.
package client

import (
	"fmt"
	"strings"
)

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

// DeleteClientContext provides context for client deletion guards.
type DeleteClientContext struct {
	ClientID          int64
	ClientName        string
	ActorIsSupervisor bool
	OrderCount        int
}

// RegisterClientContext provides context for the client registration form.
type RegisterClientContext struct {
	Name string
	// TaxID is the submitted tax id, blank when none was given.
	TaxID string
	// SameNameWithoutTaxID holds ids of existing clients with this name and
	// no real tax id.
	SameNameWithoutTaxID []int64
}

// CanDeleteClient evaluates whether a client can be deleted.
// Rules:
// - Supervisor only
// - No service order may reference the client
func CanDeleteClient(ctx DeleteClientContext) GuardResult {
	if !ctx.ActorIsSupervisor {
		return GuardResult{
			Allowed: false,
			Reason:  "only supervisors may delete clients",
		}
	}

	if ctx.OrderCount > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client '%s' has %d service order(s); delete them first", ctx.ClientName, ctx.OrderCount),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRegisterClient evaluates whether the client form may create a client.
// Rules:
// - A client without tax id may not duplicate an existing client with the
//   same name and no real tax id; the existing record should be edited
func CanRegisterClient(ctx RegisterClientContext) GuardResult {
	if strings.TrimSpace(ctx.TaxID) != "" || len(ctx.SameNameWithoutTaxID) == 0 {
		return GuardResult{Allowed: true}
	}

	ids := make([]string, len(ctx.SameNameWithoutTaxID))
	for i, id := range ctx.SameNameWithoutTaxID {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return GuardResult{
		Allowed: false,
		Reason: fmt.Sprintf("client(s) named '%s' without tax id already exist (ids: %s); edit one or provide a tax id",
			strings.TrimSpace(ctx.Name), strings.Join(ids, ", ")),
	}
}
