package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	coreclient "github.com/example/ordens/internal/core/client"
	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/placeholder"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/ports/secondary"
)

// ClientServiceImpl implements the ClientService interface.
type ClientServiceImpl struct {
	tx      secondary.Transactor
	deleter secondary.RecordDeleter
	keys    placeholder.KeyGenerator
	logger  zerolog.Logger
}

// NewClientService creates a new ClientService with injected dependencies.
func NewClientService(
	tx secondary.Transactor,
	deleter secondary.RecordDeleter,
	keys placeholder.KeyGenerator,
	logger zerolog.Logger,
) *ClientServiceImpl {
	return &ClientServiceImpl{
		tx:      tx,
		deleter: deleter,
		keys:    keys,
		logger:  logger.With().Str("service", "client").Logger(),
	}
}

// RegisterClient registers a client through the client form.
func (s *ClientServiceImpl) RegisterClient(ctx context.Context, req primary.RegisterClientRequest) (*primary.RegisterClientResponse, error) {
	if _, err := requireActor(ctx, "register client"); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest("client", req); err != nil {
		return nil, err
	}

	var record *secondary.ClientRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		if strings.TrimSpace(req.TaxID) == "" {
			ids, err := store.Clients().FindWithoutTaxID(ctx, req.Name)
			if err != nil {
				return err
			}
			guardCtx := coreclient.RegisterClientContext{
				Name:                 req.Name,
				TaxID:                req.TaxID,
				SameNameWithoutTaxID: ids,
			}
			if result := coreclient.CanRegisterClient(guardCtx); !result.Allowed {
				return &errs.UniquenessConflict{
					Entity:   "client",
					Key:      "name",
					Value:    req.Name,
					Existing: ids,
					Err:      result.Error(),
				}
			}
		}

		id, err := store.Clients().Upsert(ctx, req.Name, req.TaxID, req.Phone)
		if err != nil {
			return err
		}
		record, err = store.Clients().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register client: %w", err)
	}

	s.logger.Info().Int64("client_id", record.ID).Msg("client registered")

	return &primary.RegisterClientResponse{
		ClientID: record.ID,
		Client:   s.recordToClient(record),
	}, nil
}

// GetClient retrieves a client by ID.
func (s *ClientServiceImpl) GetClient(ctx context.Context, clientID int64) (*primary.Client, error) {
	var record *secondary.ClientRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		record, err = store.Clients().GetByID(ctx, clientID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return s.recordToClient(record), nil
}

// ListClients lists clients with optional filters.
func (s *ClientServiceImpl) ListClients(ctx context.Context, filters primary.ClientFilters) ([]*primary.Client, error) {
	var records []*secondary.ClientRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		records, err = store.Clients().List(ctx, secondary.ClientFilters{NameContains: filters.NameContains})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*primary.Client, len(records))
	for i, r := range records {
		clients[i] = s.recordToClient(r)
	}
	return clients, nil
}

// UpdateClient updates a client's name, tax id and phone.
func (s *ClientServiceImpl) UpdateClient(ctx context.Context, req primary.UpdateClientRequest) error {
	if _, err := requireActor(ctx, "edit client"); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest("client", req); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		current, err := store.Clients().GetByID(ctx, req.ClientID)
		if err != nil {
			return err
		}

		taxID := strings.TrimSpace(req.TaxID)
		if taxID == "" {
			if current.TaxID != "" && !s.keys.IsPlaceholder(placeholder.ClientTaxID, current.TaxID) {
				taxID = current.TaxID
			} else {
				taxID = s.keys.Generate(placeholder.ClientTaxID, req.Name)
			}
		}

		return store.Clients().Update(ctx, &secondary.ClientRecord{
			ID:    current.ID,
			Name:  req.Name,
			TaxID: taxID,
			Phone: strings.TrimSpace(req.Phone),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	s.logger.Info().Int64("client_id", req.ClientID).Msg("client updated")
	return nil
}

// DeleteClient deletes a client no service order references.
func (s *ClientServiceImpl) DeleteClient(ctx context.Context, clientID int64) error {
	actor, err := requireActor(ctx, "delete client")
	if err != nil {
		return err
	}

	var guardCtx coreclient.DeleteClientContext
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		record, err := store.Clients().GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		count, err := store.Clients().CountOrders(ctx, clientID)
		if err != nil {
			return err
		}
		guardCtx = coreclient.DeleteClientContext{
			ClientID:          clientID,
			ClientName:        record.Name,
			ActorIsSupervisor: actor.IsSupervisor(),
			OrderCount:        count,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load client: %w", err)
	}

	if result := coreclient.CanDeleteClient(guardCtx); !result.Allowed {
		if !actor.IsSupervisor() {
			return &errs.ForbiddenError{Action: "delete client", Reason: result.Reason}
		}
		return &errs.ReferentialIntegrityViolation{
			Entity:     "client",
			ID:         clientID,
			References: guardCtx.OrderCount,
			Err:        result.Error(),
		}
	}

	if _, err := s.deleter.DeleteRecord(ctx, secondary.TableClients, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info().Int64("client_id", clientID).Msg("client deleted")
	return nil
}

// Helper methods

func (s *ClientServiceImpl) recordToClient(r *secondary.ClientRecord) *primary.Client {
	return &primary.Client{
		ID:          r.ID,
		Name:        r.Name,
		TaxID:       r.TaxID,
		Phone:       r.Phone,
		Placeholder: s.keys.IsPlaceholder(placeholder.ClientTaxID, r.TaxID),
	}
}

// Ensure ClientServiceImpl implements the interface
var _ primary.ClientService = (*ClientServiceImpl)(nil)
