package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/ordens/internal/ports/primary"
)

// ReferenceAdapter translates CLI operations to ReferenceService calls.
type ReferenceAdapter struct {
	service primary.ReferenceService
	out     io.Writer
}

// NewReferenceAdapter creates a new ReferenceAdapter with the given service.
func NewReferenceAdapter(service primary.ReferenceService, out io.Writer) *ReferenceAdapter {
	return &ReferenceAdapter{
		service: service,
		out:     out,
	}
}

// AddMachineType registers a machine type.
func (a *ReferenceAdapter) AddMachineType(ctx context.Context, description string) error {
	id, err := a.service.RegisterMachineType(ctx, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Machine type %d: %s\n", id, description)
	return nil
}

// ListMachineTypes lists machine types.
func (a *ReferenceAdapter) ListMachineTypes(ctx context.Context) error {
	types, err := a.service.ListMachineTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list machine types: %w", err)
	}
	if len(types) == 0 {
		fmt.Fprintln(a.out, "No machine types found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tDESCRIPTION")
	fmt.Fprintln(w, "--\t-----------")
	for _, t := range types {
		fmt.Fprintf(w, "%d\t%s\n", t.ID, t.Description)
	}
	return w.Flush()
}

// AddModel registers a model under an existing machine type.
func (a *ReferenceAdapter) AddModel(ctx context.Context, req primary.RegisterModelRequest) error {
	id, err := a.service.RegisterModel(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Model %d: %s (%s)\n", id, req.Name, req.MachineType)
	return nil
}

// ListModels lists models, optionally of one machine type.
func (a *ReferenceAdapter) ListModels(ctx context.Context, machineType string) error {
	models, err := a.service.ListModels(ctx, machineType)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		fmt.Fprintln(a.out, "No models found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tMODEL\tCHASSIS\tTYPE")
	fmt.Fprintln(w, "--\t-----\t-------\t----")
	for _, m := range models {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, m.Name, orDash(m.ChassisID), m.MachineType)
	}
	return w.Flush()
}

// AddStatus registers a status.
func (a *ReferenceAdapter) AddStatus(ctx context.Context, description string) error {
	id, err := a.service.RegisterStatus(ctx, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Status %d: %s\n", id, description)
	return nil
}

// ListStatuses lists statuses.
func (a *ReferenceAdapter) ListStatuses(ctx context.Context) error {
	statuses, err := a.service.ListStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list statuses: %w", err)
	}
	if len(statuses) == 0 {
		fmt.Fprintln(a.out, "No statuses found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tDESCRIPTION")
	fmt.Fprintln(w, "--\t-----------")
	for _, s := range statuses {
		fmt.Fprintf(w, "%d\t%s\n", s.ID, s.Description)
	}
	return w.Flush()
}

// Inventory prints every model with its holder and the per-type counts.
func (a *ReferenceAdapter) Inventory(ctx context.Context, format Format) error {
	inv, err := a.service.GetInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to get inventory: %w", err)
	}

	if format == FormatYAML {
		return writeYAML(a.out, inv)
	}

	if len(inv.Machines) == 0 {
		fmt.Fprintln(a.out, "No machines found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "MODEL\tCHASSIS\tTYPE\tCLIENT")
	fmt.Fprintln(w, "-----\t-------\t----\t------")
	for _, m := range inv.Machines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Model, orDash(m.ChassisID), m.MachineType, orDash(m.Client))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	w = newTable(a.out)
	fmt.Fprintln(w, "TYPE\tMODELS")
	for _, c := range inv.Counts {
		fmt.Fprintf(w, "%s\t%d\n", c.MachineType, c.Models)
	}
	return w.Flush()
}
