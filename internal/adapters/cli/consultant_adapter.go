package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/ordens/internal/ports/primary"
)

// ConsultantAdapter translates CLI operations to ConsultantService calls.
type ConsultantAdapter struct {
	service primary.ConsultantService
	out     io.Writer
}

// NewConsultantAdapter creates a new ConsultantAdapter with the given service.
func NewConsultantAdapter(service primary.ConsultantService, out io.Writer) *ConsultantAdapter {
	return &ConsultantAdapter{
		service: service,
		out:     out,
	}
}

// Bootstrap creates the first supervisor.
func (a *ConsultantAdapter) Bootstrap(ctx context.Context, req primary.CreateConsultantRequest) error {
	resp, err := a.service.Bootstrap(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created supervisor %d: %s <%s>\n", resp.ConsultantID, req.Name, req.Email)
	return nil
}

// Add registers a consultant.
func (a *ConsultantAdapter) Add(ctx context.Context, req primary.CreateConsultantRequest) error {
	resp, err := a.service.CreateConsultant(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created %s %d: %s <%s>\n", req.Role, resp.ConsultantID, req.Name, req.Email)
	return nil
}

// List lists consultants.
func (a *ConsultantAdapter) List(ctx context.Context) error {
	consultants, err := a.service.ListConsultants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list consultants: %w", err)
	}

	if len(consultants) == 0 {
		fmt.Fprintln(a.out, "No consultants found")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	fmt.Fprintln(w, "--\t----\t-----\t----")
	for _, c := range consultants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Role)
	}
	return w.Flush()
}

// UpdateProfile edits the acting consultant's profile.
func (a *ConsultantAdapter) UpdateProfile(ctx context.Context, req primary.UpdateProfileRequest) error {
	resp, err := a.service.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}

	if !resp.Changed {
		fmt.Fprintln(a.out, "No changes")
		return nil
	}
	fmt.Fprintln(a.out, "✓ Profile updated")
	return nil
}

// Delete deletes a consultant.
func (a *ConsultantAdapter) Delete(ctx context.Context, consultantID int64) error {
	if err := a.service.DeleteConsultant(ctx, consultantID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Consultant %d deleted\n", consultantID)
	return nil
}

// Login checks credentials and reports who they belong to.
func (a *ConsultantAdapter) Login(ctx context.Context, email, password string) error {
	actor, err := a.service.CheckCredentials(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Signed in as %s (%s)\n", actor.Name, actor.Role)
	return nil
}
