package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/ports/secondary"
)

// ReferenceServiceImpl implements the ReferenceService interface.
type ReferenceServiceImpl struct {
	tx      secondary.Transactor
	reports secondary.ReportRepository
	logger  zerolog.Logger
}

// NewReferenceService creates a new ReferenceService with injected dependencies.
func NewReferenceService(tx secondary.Transactor, reports secondary.ReportRepository, logger zerolog.Logger) *ReferenceServiceImpl {
	return &ReferenceServiceImpl{
		tx:      tx,
		reports: reports,
		logger:  logger.With().Str("service", "reference").Logger(),
	}
}

// RegisterMachineType upserts a machine type by description.
func (s *ReferenceServiceImpl) RegisterMachineType(ctx context.Context, description string) (int64, error) {
	if _, err := requireActor(ctx, "register machine type"); err != nil {
		return 0, err
	}

	var id int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		id, err = store.MachineTypes().Upsert(ctx, description)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register machine type: %w", err)
	}

	s.logger.Debug().Int64("machine_type_id", id).Msg("machine type resolved")
	return id, nil
}

// ListMachineTypes lists all machine types.
func (s *ReferenceServiceImpl) ListMachineTypes(ctx context.Context) ([]*primary.MachineType, error) {
	var records []*secondary.MachineTypeRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		records, err = store.MachineTypes().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list machine types: %w", err)
	}

	types := make([]*primary.MachineType, len(records))
	for i, r := range records {
		types[i] = &primary.MachineType{ID: r.ID, Description: r.Description}
	}
	return types, nil
}

// RegisterModel upserts a model under an existing machine type.
func (s *ReferenceServiceImpl) RegisterModel(ctx context.Context, req primary.RegisterModelRequest) (int64, error) {
	if _, err := requireActor(ctx, "register model"); err != nil {
		return 0, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.MachineType = strings.TrimSpace(req.MachineType)
	if err := validateRequest("model", req); err != nil {
		return 0, err
	}

	var id int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		machineType, err := store.MachineTypes().GetByDescription(ctx, req.MachineType)
		if err != nil {
			return err
		}
		id, err = store.Models().Upsert(ctx, req.Name, req.ChassisID, machineType.ID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register model: %w", err)
	}

	s.logger.Debug().Int64("model_id", id).Msg("model resolved")
	return id, nil
}

// ListModels lists models, optionally of one machine type.
func (s *ReferenceServiceImpl) ListModels(ctx context.Context, machineType string) ([]*primary.Model, error) {
	var records []*secondary.ModelRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		filters := secondary.ModelFilters{}
		if desc := strings.TrimSpace(machineType); desc != "" {
			mt, err := store.MachineTypes().GetByDescription(ctx, desc)
			if err != nil {
				return err
			}
			filters.MachineTypeID = mt.ID
		}

		var err error
		records, err = store.Models().List(ctx, filters)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]*primary.Model, len(records))
	for i, r := range records {
		models[i] = &primary.Model{
			ID:          r.ID,
			Name:        r.Name,
			ChassisID:   r.ChassisID,
			MachineType: r.MachineType,
		}
	}
	return models, nil
}

// RegisterStatus upserts a status by description.
func (s *ReferenceServiceImpl) RegisterStatus(ctx context.Context, description string) (int64, error) {
	if _, err := requireActor(ctx, "register status"); err != nil {
		return 0, err
	}

	var id int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		id, err = store.Statuses().Upsert(ctx, description)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register status: %w", err)
	}

	s.logger.Debug().Int64("status_id", id).Msg("status resolved")
	return id, nil
}

// ListStatuses lists all statuses.
func (s *ReferenceServiceImpl) ListStatuses(ctx context.Context) ([]*primary.Status, error) {
	var records []*secondary.StatusRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		records, err = store.Statuses().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}

	statuses := make([]*primary.Status, len(records))
	for i, r := range records {
		statuses[i] = &primary.Status{ID: r.ID, Description: r.Description}
	}
	return statuses, nil
}

// GetInventory returns the machine inventory.
func (s *ReferenceServiceImpl) GetInventory(ctx context.Context) (*primary.Inventory, error) {
	rows, err := s.reports.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	counts, err := s.reports.ModelCountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count models: %w", err)
	}

	inventory := &primary.Inventory{
		Machines: make([]*primary.InventoryMachine, len(rows)),
		Counts:   make([]*primary.TypeCount, len(counts)),
	}
	for i, r := range rows {
		inventory.Machines[i] = &primary.InventoryMachine{
			Model:       r.ModelName,
			ChassisID:   r.ChassisID,
			MachineType: r.MachineType,
			Client:      r.ClientName,
		}
	}
	for i, c := range counts {
		inventory.Counts[i] = &primary.TypeCount{MachineType: c.MachineType, Models: c.Models}
	}
	return inventory, nil
}

// Ensure ReferenceServiceImpl implements the interface
var _ primary.ReferenceService = (*ReferenceServiceImpl)(nil)
