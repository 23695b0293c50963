package primary

import (
	"context"

	"github.com/example/ordens/internal/ctxutil"
)

// ConsultantService defines the primary port for consultant operations.
type ConsultantService interface {
	// Bootstrap creates the first supervisor of an empty database.
	Bootstrap(ctx context.Context, req CreateConsultantRequest) (*CreateConsultantResponse, error)

	// CreateConsultant registers a consultant. Supervisor only.
	CreateConsultant(ctx context.Context, req CreateConsultantRequest) (*CreateConsultantResponse, error)

	// ListConsultants lists all consultants.
	ListConsultants(ctx context.Context) ([]*Consultant, error)

	// UpdateProfile edits the acting consultant's own profile.
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UpdateProfileResponse, error)

	// DeleteConsultant deletes a consultant. Supervisor only, never self.
	DeleteConsultant(ctx context.Context, consultantID int64) error

	// CheckCredentials verifies an email and password and returns the actor.
	CheckCredentials(ctx context.Context, email, password string) (*ctxutil.Actor, error)

	// ResolveActor returns the actor registered under email.
	ResolveActor(ctx context.Context, email string) (*ctxutil.Actor, error)
}

// CreateConsultantRequest contains parameters for creating a consultant.
type CreateConsultantRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=4"`
	Role     string `validate:"required,oneof=consultor supervisor"`
}

// CreateConsultantResponse contains the result of creating a consultant.
type CreateConsultantResponse struct {
	ConsultantID int64
}

// UpdateProfileRequest contains parameters for a profile edit.
// Blank Name or Email keep the current value; blank NewPassword keeps the password.
type UpdateProfileRequest struct {
	ConsultantID    int64  `validate:"required"`
	Name            string
	Email           string `validate:"omitempty,email"`
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfileResponse contains the result of a profile edit.
type UpdateProfileResponse struct {
	Changed bool
}

// Consultant is the public representation of a consultant.
type Consultant struct {
	ID    int64
	Name  string
	Email string
	Role  string
}
