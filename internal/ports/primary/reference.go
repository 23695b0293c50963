package primary

import "context"

// ReferenceService defines the primary port for machine types, models and statuses.
type ReferenceService interface {
	// RegisterMachineType upserts a machine type by description.
	RegisterMachineType(ctx context.Context, description string) (int64, error)

	// ListMachineTypes lists all machine types.
	ListMachineTypes(ctx context.Context) ([]*MachineType, error)

	// RegisterModel upserts a model under an existing machine type.
	RegisterModel(ctx context.Context, req RegisterModelRequest) (int64, error)

	// ListModels lists models, optionally of one machine type.
	ListModels(ctx context.Context, machineType string) ([]*Model, error)

	// RegisterStatus upserts a status by description.
	RegisterStatus(ctx context.Context, description string) (int64, error)

	// ListStatuses lists all statuses.
	ListStatuses(ctx context.Context) ([]*Status, error)

	// GetInventory returns the machine inventory.
	GetInventory(ctx context.Context) (*Inventory, error)
}

// RegisterModelRequest contains parameters for registering a model.
type RegisterModelRequest struct {
	Name        string `validate:"required"`
	ChassisID   string
	MachineType string `validate:"required"`
}

// MachineType is the public representation of a machine type.
type MachineType struct {
	ID          int64
	Description string
}

// Model is the public representation of a machine model.
type Model struct {
	ID          int64
	Name        string
	ChassisID   string
	MachineType string
}

// Status is the public representation of a status.
type Status struct {
	ID          int64
	Description string
}

// Inventory lists every model and the model count per machine type.
type Inventory struct {
	Machines []*InventoryMachine `yaml:"machines"`
	Counts   []*TypeCount        `yaml:"counts"`
}

// InventoryMachine is one model in the inventory.
type InventoryMachine struct {
	Model       string `yaml:"model"`
	ChassisID   string `yaml:"chassis,omitempty"`
	MachineType string `yaml:"machine_type"`
	Client      string `yaml:"client,omitempty"`
}

// TypeCount is the number of models of one machine type.
type TypeCount struct {
	MachineType string `yaml:"machine_type"`
	Models      int    `yaml:"models"`
}
