package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ctxutil"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/ports/secondary"
)

// OrderServiceImpl implements the OrderService interface.
type OrderServiceImpl struct {
	tx      secondary.Transactor
	deleter secondary.RecordDeleter
	logs    secondary.OrderLogRepository
	logger  zerolog.Logger
	now     func() time.Time
}

// NewOrderService creates a new OrderService with injected dependencies.
// now supplies the default opened date; nil uses time.Now.
func NewOrderService(
	tx secondary.Transactor,
	deleter secondary.RecordDeleter,
	logs secondary.OrderLogRepository,
	logger zerolog.Logger,
	now func() time.Time,
) *OrderServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &OrderServiceImpl{
		tx:      tx,
		deleter: deleter,
		logs:    logs,
		logger:  logger.With().Str("service", "order").Logger(),
		now:     now,
	}
}

// OpenOrder registers a new open service order. Reference rows are resolved
// through the upsert helpers in the same transaction as the insert.
func (s *OrderServiceImpl) OpenOrder(ctx context.Context, req primary.OpenOrderRequest) (*primary.OpenOrderResponse, error) {
	if _, err := requireActor(ctx, "open service order"); err != nil {
		return nil, err
	}
	req = trimOpenRequest(req)
	if err := validateRequest("service order", req); err != nil {
		return nil, err
	}

	openedDate := s.now().Format(order.StorageLayout)
	if req.OpenedDate != "" {
		parsed, err := order.ParseDate("opened_date", req.OpenedDate)
		if err != nil {
			return nil, err
		}
		openedDate = parsed
	}
	amount, err := order.ParseAmount("net_amount", req.NetAmount)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		clientID, err := store.Clients().Upsert(ctx, req.ClientName, "", "")
		if err != nil {
			return err
		}
		typeID, err := store.MachineTypes().Upsert(ctx, order.DefaultMachineType)
		if err != nil {
			return err
		}
		modelID, err := store.Models().Upsert(ctx, req.ModelName, req.ChassisID, typeID)
		if err != nil {
			return err
		}
		consultantID, found, err := store.Consultants().LookupIDByName(ctx, req.ConsultantName)
		if err != nil {
			return err
		}
		if !found {
			return &errs.NotFoundError{Entity: "consultant", Key: req.ConsultantName}
		}
		statusID, err := store.Statuses().Upsert(ctx, req.StatusText)
		if err != nil {
			return err
		}

		id, err = store.Orders().Create(ctx, &secondary.ServiceOrderRecord{
			OrderNumber:        req.OrderNumber,
			OrderType:          order.TypeWarranty,
			ClientID:           clientID,
			ModelID:            modelID,
			ConsultantID:       consultantID,
			StatusID:           statusID,
			ServiceDescription: req.ServiceDescription,
			OpenedDate:         openedDate,
			NetAmount:          amount,
		})
		if err != nil {
			return err
		}
		return store.Logs().LogCreate(ctx, req.OrderNumber)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open service order: %w", err)
	}

	s.logger.Info().Str("order", req.OrderNumber).Int64("order_id", id).Msg("service order opened")

	return &primary.OpenOrderResponse{
		OrderID:     id,
		OrderNumber: req.OrderNumber,
	}, nil
}

// EditOpenOrder applies one edit to an open order.
func (s *OrderServiceImpl) EditOpenOrder(ctx context.Context, req primary.EditOrderRequest) (*primary.EditOrderResponse, error) {
	resps, err := s.EditOpenOrders(ctx, []primary.EditOrderRequest{req})
	if err != nil {
		return nil, err
	}
	return resps[0], nil
}

// EditOpenOrders applies several edits in one transaction. Every edit is
// parsed before the transaction starts, so a malformed date or amount
// anywhere rejects the batch without a write; any failure inside the
// transaction rolls back the whole batch.
func (s *OrderServiceImpl) EditOpenOrders(ctx context.Context, reqs []primary.EditOrderRequest) ([]*primary.EditOrderResponse, error) {
	actor, err := requireActor(ctx, "edit service order")
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, &errs.ValidationError{Entity: "service order", Field: "edits", Reason: "must not be empty"}
	}

	edits := make([]order.Edit, len(reqs))
	for i, req := range reqs {
		if err := validateRequest("service order", req); err != nil {
			return nil, err
		}
		edit, err := parseEdit(req)
		if err != nil {
			return nil, err
		}
		edits[i] = edit
	}

	resps := make([]*primary.EditOrderResponse, len(reqs))
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		for i, req := range reqs {
			resp, err := s.applyEdit(ctx, store, actor, strings.TrimSpace(req.OrderNumber), edits[i])
			if err != nil {
				return err
			}
			resps[i] = resp
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit service orders: %w", err)
	}

	for _, resp := range resps {
		ev := s.logger.Info().Str("order", resp.OrderNumber).Strs("fields", resp.ChangedFields)
		if resp.Transitioned {
			ev = ev.Bool("billed", true).Bool("forced", resp.Forced)
		}
		ev.Msg("service order edited")
	}
	return resps, nil
}

// applyEdit runs the lifecycle rule for one order inside store's transaction:
// persist only the fields that changed, then, when the edit files the order
// as billed, make sure its status is the canonical billed status.
func (s *OrderServiceImpl) applyEdit(ctx context.Context, store secondary.Store, actor ctxutil.Actor, number string, edit order.Edit) (*primary.EditOrderResponse, error) {
	current, err := store.Orders().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen(current.BilledDate) {
		return nil, &errs.NotFoundError{Entity: "open service order", Key: number}
	}

	changes := order.Diff(snapshotOf(current), edit)

	guardCtx := order.EditOrderContext{
		OrderNumber:             number,
		ActorID:                 actor.UserID,
		ActorIsSupervisor:       actor.IsSupervisor(),
		OrderConsultantID:       current.ConsultantID,
		TouchesSupervisorFields: changes.Has(order.FieldOrderType) || changes.Has(order.FieldNetAmount),
	}
	if result := order.CanEditOrder(guardCtx); !result.Allowed {
		return nil, &errs.ForbiddenError{Action: "edit service order", Reason: result.Reason}
	}

	resp := &primary.EditOrderResponse{OrderNumber: number}
	patch := secondary.OrderPatch{}
	statusID := current.StatusID
	statusText := current.StatusText

	type fieldChange struct {
		field         order.Field
		before, after string
	}
	var logged []fieldChange

	if changes.Has(order.FieldStatus) {
		id, err := store.Statuses().Upsert(ctx, changes.StatusText)
		if err != nil {
			return nil, err
		}
		s.logger.Debug().Str("status", changes.StatusText).Int64("status_id", id).Msg("status resolved")
		if id != current.StatusID {
			patch.StatusID = &id
			statusID = id
			statusText = changes.StatusText
			if statusText == "" {
				statusText = order.UnknownStatus
			}
			logged = append(logged, fieldChange{order.FieldStatus, current.StatusText, statusText})
		}
	}
	if changes.Has(order.FieldBilledDate) {
		patch.BilledDate = &changes.BilledDate
		logged = append(logged, fieldChange{order.FieldBilledDate, current.BilledDate, changes.BilledDate})
	}
	if changes.Has(order.FieldFactoryPaymentDate) {
		patch.FactoryPaymentDate = &changes.FactoryPaymentDate
		logged = append(logged, fieldChange{order.FieldFactoryPaymentDate, current.FactoryPaymentDate, changes.FactoryPaymentDate})
	}
	if changes.Has(order.FieldServiceDescription) {
		patch.ServiceDescription = &changes.ServiceDescription
		logged = append(logged, fieldChange{order.FieldServiceDescription, current.ServiceDescription, changes.ServiceDescription})
	}
	if changes.Has(order.FieldOrderType) {
		patch.OrderType = &changes.OrderType
		logged = append(logged, fieldChange{order.FieldOrderType, current.OrderType, changes.OrderType})
	}
	if changes.Has(order.FieldNetAmount) {
		patch.SetNetAmount = true
		patch.NetAmount = changes.NetAmount
		logged = append(logged, fieldChange{order.FieldNetAmount, order.FormatAmount(current.NetAmount), order.FormatAmount(changes.NetAmount)})
	}

	if !patch.Empty() {
		if err := store.Orders().Update(ctx, current.ID, patch); err != nil {
			return nil, err
		}
	}
	for _, c := range logged {
		if err := store.Logs().LogUpdate(ctx, number, string(c.field), c.before, c.after); err != nil {
			return nil, err
		}
		resp.ChangedFields = append(resp.ChangedFields, string(c.field))
	}

	if order.FilesAsBilled(snapshotOf(current), edit) {
		billedID, err := store.Statuses().Upsert(ctx, order.BilledStatus)
		if err != nil {
			return nil, err
		}
		if statusID != billedID {
			if err := store.Orders().SetStatus(ctx, current.ID, billedID); err != nil {
				return nil, err
			}
			if err := store.Logs().LogUpdate(ctx, number, string(order.FieldStatus), statusText, order.BilledStatus); err != nil {
				return nil, err
			}
			resp.Forced = true
		}
		resp.Transitioned = true
	}

	return resp, nil
}

// DeleteOrder deletes an open order. Supervisor only.
func (s *OrderServiceImpl) DeleteOrder(ctx context.Context, orderNumber string) error {
	actor, err := requireActor(ctx, "delete service order")
	if err != nil {
		return err
	}
	orderNumber = strings.TrimSpace(orderNumber)

	var record *secondary.ServiceOrderRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		record, err = store.Orders().GetByNumber(ctx, orderNumber)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load service order: %w", err)
	}

	guardCtx := order.DeleteOrderContext{
		OrderNumber:       orderNumber,
		ActorIsSupervisor: actor.IsSupervisor(),
		IsOpen:            order.IsOpen(record.BilledDate),
	}
	if result := order.CanDeleteOrder(guardCtx); !result.Allowed {
		return &errs.ForbiddenError{Action: "delete service order", Reason: result.Reason}
	}

	if _, err := s.deleter.DeleteRecord(ctx, secondary.TableServiceOrders, record.ID); err != nil {
		return fmt.Errorf("failed to delete service order: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		return store.Logs().LogDelete(ctx, orderNumber)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order", orderNumber).Msg("failed to record deletion in order log")
	}

	s.logger.Info().Str("order", orderNumber).Msg("service order deleted")
	return nil
}

// GetOrder retrieves an order by its number. Consultants see only their own.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderNumber string) (*primary.Order, error) {
	actor, err := requireActor(ctx, "view service order")
	if err != nil {
		return nil, err
	}

	var record *secondary.ServiceOrderRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store secondary.Store) error {
		var err error
		record, err = store.Orders().GetByNumber(ctx, strings.TrimSpace(orderNumber))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}

	if !actor.IsSupervisor() && record.ConsultantID != actor.UserID {
		return nil, &errs.ForbiddenError{
			Action: "view service order",
			Reason: fmt.Sprintf("service order %s belongs to another consultant", record.OrderNumber),
		}
	}

	return recordToOrder(record), nil
}

// OrderHistory lists the audit log of an order, oldest first.
func (s *OrderServiceImpl) OrderHistory(ctx context.Context, orderNumber string) ([]*primary.OrderLogEntry, error) {
	if _, err := requireActor(ctx, "view order history"); err != nil {
		return nil, err
	}

	records, err := s.logs.ListByOrder(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to list order history: %w", err)
	}

	entries := make([]*primary.OrderLogEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.OrderLogEntry{
			OrderNumber: r.OrderNumber,
			ActorID:     r.ActorID,
			Action:      r.Action,
			FieldName:   r.FieldName,
			OldValue:    r.OldValue,
			NewValue:    r.NewValue,
			CreatedAt:   r.CreatedAt,
		}
	}
	return entries, nil
}

// Helper methods

// parseEdit converts display text into an order.Edit. It never touches storage.
func parseEdit(req primary.EditOrderRequest) (order.Edit, error) {
	billed, err := parseOptionalDate("billed_date", req.BilledDate)
	if err != nil {
		return order.Edit{}, err
	}
	factoryPaid, err := parseOptionalDate("factory_payment_date", req.FactoryPaymentDate)
	if err != nil {
		return order.Edit{}, err
	}

	edit := order.Edit{
		StatusText:         req.StatusText,
		BilledDate:         billed,
		FactoryPaymentDate: factoryPaid,
		ServiceDescription: req.ServiceDescription,
	}

	if req.OrderType != nil || req.NetAmount != nil {
		sup := &order.SupervisorEdit{}
		if req.OrderType != nil {
			sup.OrderType = *req.OrderType
		}
		if req.NetAmount != nil {
			amount, err := order.ParseAmount("net_amount", *req.NetAmount)
			if err != nil {
				return order.Edit{}, err
			}
			sup.SetNetAmount = true
			sup.NetAmount = amount
		}
		edit.Supervisor = sup
	}

	return edit, nil
}

func parseOptionalDate(field string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := order.ParseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func trimOpenRequest(req primary.OpenOrderRequest) primary.OpenOrderRequest {
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ConsultantName = strings.TrimSpace(req.ConsultantName)
	req.ModelName = strings.TrimSpace(req.ModelName)
	req.ChassisID = strings.TrimSpace(req.ChassisID)
	req.StatusText = strings.TrimSpace(req.StatusText)
	req.ServiceDescription = strings.TrimSpace(req.ServiceDescription)
	req.OpenedDate = strings.TrimSpace(req.OpenedDate)
	return req
}

func snapshotOf(r *secondary.ServiceOrderRecord) order.Snapshot {
	return order.Snapshot{
		StatusID:           r.StatusID,
		StatusText:         r.StatusText,
		BilledDate:         r.BilledDate,
		FactoryPaymentDate: r.FactoryPaymentDate,
		ServiceDescription: r.ServiceDescription,
		OrderType:          r.OrderType,
		NetAmount:          r.NetAmount,
	}
}

func recordToOrder(r *secondary.ServiceOrderRecord) *primary.Order {
	return &primary.Order{
		ID:                 r.ID,
		OrderNumber:        r.OrderNumber,
		OrderType:          r.OrderType,
		ClientID:           r.ClientID,
		ModelID:            r.ModelID,
		ConsultantID:       r.ConsultantID,
		StatusID:           r.StatusID,
		StatusText:         r.StatusText,
		ServiceDescription: r.ServiceDescription,
		OpenedDate:         r.OpenedDate,
		NetAmount:          r.NetAmount,
		BilledDate:         r.BilledDate,
		FactoryPaymentDate: r.FactoryPaymentDate,
	}
}

// Ensure OrderServiceImpl implements the interface
var _ primary.OrderService = (*OrderServiceImpl)(nil)
