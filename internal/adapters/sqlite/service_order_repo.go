package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/ports/secondary"
)

// ServiceOrderRepository implements secondary.ServiceOrderRepository with SQLite.
type ServiceOrderRepository struct {
	db Querier
}

// NewServiceOrderRepository creates a new SQLite service order repository.
func NewServiceOrderRepository(db Querier) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.order_number, o.order_type, o.client_id, o.model_id, o.consultant_id,
		o.status_id, s.description, o.service_description, o.opened_date, o.net_amount,
		o.billed_date, o.factory_payment_date
	FROM service_orders o
	JOIN statuses s ON s.id = o.status_id`

// Create persists a new service order and returns its id.
func (r *ServiceOrderRepository) Create(ctx context.Context, order *secondary.ServiceOrderRecord) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO service_orders (order_number, order_type, client_id, model_id, consultant_id, status_id,
			service_description, opened_date, net_amount, billed_date, factory_payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.OrderType, order.ClientID, order.ModelID, order.ConsultantID, order.StatusID,
		nullString(order.ServiceDescription), order.OpenedDate, nullFloat(order.NetAmount),
		nullString(order.BilledDate), nullString(order.FactoryPaymentDate),
	)
	if isForeignKeyViolation(err) {
		return 0, &errs.NotFoundError{Entity: "reference row", Key: fmt.Sprintf("for service order %s", order.OrderNumber)}
	}
	if err != nil {
		return 0, translateError(err, "create service order", conflictTarget{Entity: "service order", Key: "order_number", Value: order.OrderNumber})
	}
	return result.LastInsertId()
}

// GetByNumber retrieves an order by order number.
func (r *ServiceOrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*secondary.ServiceOrderRecord, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	row := r.db.QueryRowContext(ctx, orderSelect+" WHERE o.order_number = ?", orderNumber)
	return r.scanOne(row, orderNumber)
}

// GetByID retrieves an order by its ID.
func (r *ServiceOrderRepository) GetByID(ctx context.Context, id int64) (*secondary.ServiceOrderRecord, error) {
	row := r.db.QueryRowContext(ctx, orderSelect+" WHERE o.id = ?", id)
	return r.scanOne(row, fmt.Sprintf("%d", id))
}

func (r *ServiceOrderRepository) scanOne(row *sql.Row, key string) (*secondary.ServiceOrderRecord, error) {
	var (
		description sql.NullString
		amount      sql.NullFloat64
		billed      sql.NullString
		factoryPaid sql.NullString
	)

	record := &secondary.ServiceOrderRecord{}
	err := row.Scan(&record.ID, &record.OrderNumber, &record.OrderType, &record.ClientID, &record.ModelID,
		&record.ConsultantID, &record.StatusID, &record.StatusText, &description, &record.OpenedDate,
		&amount, &billed, &factoryPaid)
	if err == sql.ErrNoRows {
		return nil, &errs.NotFoundError{Entity: "service order", Key: key}
	}
	if err != nil {
		return nil, translateError(err, "get service order", conflictTarget{})
	}

	record.ServiceDescription = description.String
	record.NetAmount = floatPtr(amount)
	record.BilledDate = billed.String
	record.FactoryPaymentDate = factoryPaid.String
	return record, nil
}

// Update applies the set fields of patch as a single UPDATE.
func (r *ServiceOrderRepository) Update(ctx context.Context, id int64, patch secondary.OrderPatch) error {
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any

	if patch.StatusID != nil {
		sets = append(sets, "status_id = ?")
		args = append(args, *patch.StatusID)
	}
	if patch.BilledDate != nil {
		sets = append(sets, "billed_date = ?")
		args = append(args, nullString(*patch.BilledDate))
	}
	if patch.FactoryPaymentDate != nil {
		sets = append(sets, "factory_payment_date = ?")
		args = append(args, nullString(*patch.FactoryPaymentDate))
	}
	if patch.ServiceDescription != nil {
		sets = append(sets, "service_description = ?")
		args = append(args, nullString(*patch.ServiceDescription))
	}
	if patch.OrderType != nil {
		sets = append(sets, "order_type = ?")
		args = append(args, *patch.OrderType)
	}
	if patch.SetNetAmount {
		sets = append(sets, "net_amount = ?")
		args = append(args, nullFloat(patch.NetAmount))
	}

	args = append(args, id)
	result, err := r.db.ExecContext(ctx,
		"UPDATE service_orders SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
	)
	if patch.StatusID != nil && isForeignKeyViolation(err) {
		return &errs.NotFoundError{Entity: "status", Key: fmt.Sprintf("%d", *patch.StatusID)}
	}
	if err != nil {
		return translateError(err, "update service order", conflictTarget{Entity: "service order", ID: id})
	}

	return expectOneRow(result, "service order", id)
}

// SetStatus forces the order's status id.
func (r *ServiceOrderRepository) SetStatus(ctx context.Context, id, statusID int64) error {
	result, err := r.db.ExecContext(ctx, "UPDATE service_orders SET status_id = ? WHERE id = ?", statusID, id)
	if isForeignKeyViolation(err) {
		return &errs.NotFoundError{Entity: "status", Key: fmt.Sprintf("%d", statusID)}
	}
	if err != nil {
		return translateError(err, "set service order status", conflictTarget{Entity: "service order", ID: id})
	}
	return expectOneRow(result, "service order", id)
}

func expectOneRow(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &errs.NotFoundError{Entity: entity, Key: fmt.Sprintf("%d", id)}
	}
	return nil
}

// Ensure ServiceOrderRepository implements the interface
var _ secondary.ServiceOrderRepository = (*ServiceOrderRepository)(nil)
