package primary

import "context"

// ClientService defines the primary port for client operations.
type ClientService interface {
	// RegisterClient registers a client through the client form.
	RegisterClient(ctx context.Context, req RegisterClientRequest) (*RegisterClientResponse, error)

	// GetClient retrieves a client by ID.
	GetClient(ctx context.Context, clientID int64) (*Client, error)

	// ListClients lists clients with optional filters.
	ListClients(ctx context.Context, filters ClientFilters) ([]*Client, error)

	// UpdateClient updates a client's name, tax id and phone.
	UpdateClient(ctx context.Context, req UpdateClientRequest) error

	// DeleteClient deletes a client no service order references.
	DeleteClient(ctx context.Context, clientID int64) error
}

// RegisterClientRequest contains parameters for registering a client.
type RegisterClientRequest struct {
	Name  string `validate:"required"`
	TaxID string // blank generates a placeholder
	Phone string
}

// RegisterClientResponse contains the result of registering a client.
type RegisterClientResponse struct {
	ClientID int64
	Client   *Client
}

// UpdateClientRequest contains parameters for updating a client.
type UpdateClientRequest struct {
	ClientID int64  `validate:"required"`
	Name     string `validate:"required"`
	TaxID    string // blank keeps a real tax id, otherwise a placeholder is generated
	Phone    string
}

// ClientFilters contains filter options for querying clients.
type ClientFilters struct {
	NameContains string
}

// Client is the public representation of a client.
type Client struct {
	ID          int64
	Name        string
	TaxID       string
	Phone       string
	Placeholder bool // TaxID is a generated placeholder
}
