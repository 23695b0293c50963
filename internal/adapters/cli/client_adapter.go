package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/ordens/internal/ports/primary"
)

// ClientAdapter translates CLI operations to ClientService calls.
type ClientAdapter struct {
	service primary.ClientService
	out     io.Writer
}

// NewClientAdapter creates a new ClientAdapter with the given service.
func NewClientAdapter(service primary.ClientService, out io.Writer) *ClientAdapter {
	return &ClientAdapter{
		service: service,
		out:     out,
	}
}

// Add registers a client.
func (a *ClientAdapter) Add(ctx context.Context, req primary.RegisterClientRequest) error {
	resp, err := a.service.RegisterClient(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Registered client %d: %s\n", resp.ClientID, resp.Client.Name)
	if resp.Client.Placeholder {
		fmt.Fprintf(a.out, "  Tax id: %s\n", mutedColor.Sprint("(none, placeholder stored)"))
	}
	return nil
}

// List lists clients.
func (a *ClientAdapter) List(ctx context.Context, nameContains string) error {
	clients, err := a.service.ListClients(ctx, primary.ClientFilters{NameContains: nameContains})
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	if len(clients) == 0 {
		fmt.Fprintln(a.out, "No clients found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tTAX ID")
	fmt.Fprintln(w, "--\t----\t-----\t------")
	for _, c := range clients {
		tax := c.TaxID
		if c.Placeholder {
			tax = mutedColor.Sprint("-")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, orDash(c.Phone), orDash(tax))
	}
	return w.Flush()
}

// Update edits a client.
func (a *ClientAdapter) Update(ctx context.Context, req primary.UpdateClientRequest) error {
	if err := a.service.UpdateClient(ctx, req); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Client %d updated\n", req.ClientID)
	return nil
}

// Delete deletes a client no order references.
func (a *ClientAdapter) Delete(ctx context.Context, clientID int64) error {
	if err := a.service.DeleteClient(ctx, clientID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Client %d deleted\n", clientID)
	return nil
}
