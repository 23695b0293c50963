package primary

import "context"

// OrderService defines the primary port for service order operations.
type OrderService interface {
	// OpenOrder registers a new open service order.
	OpenOrder(ctx context.Context, req OpenOrderRequest) (*OpenOrderResponse, error)

	// EditOpenOrder applies one edit to an open order.
	EditOpenOrder(ctx context.Context, req EditOrderRequest) (*EditOrderResponse, error)

	// EditOpenOrders applies several edits in one transaction.
	EditOpenOrders(ctx context.Context, reqs []EditOrderRequest) ([]*EditOrderResponse, error)

	// DeleteOrder deletes an open order. Supervisor only.
	DeleteOrder(ctx context.Context, orderNumber string) error

	// GetOrder retrieves an order by its number.
	GetOrder(ctx context.Context, orderNumber string) (*Order, error)

	// OrderHistory lists the audit log of an order.
	OrderHistory(ctx context.Context, orderNumber string) ([]*OrderLogEntry, error)
}

// OpenOrderRequest contains parameters for opening an order.
// OpenedDate and NetAmount are display text; OpenedDate defaults to today.
type OpenOrderRequest struct {
	OrderNumber        string `validate:"required"`
	ClientName         string `validate:"required"`
	ConsultantName     string `validate:"required"`
	ModelName          string `validate:"required"`
	ChassisID          string `validate:"required"`
	StatusText         string `validate:"required"`
	ServiceDescription string
	OpenedDate         string
	NetAmount          string
}

// OpenOrderResponse contains the result of opening an order.
type OpenOrderResponse struct {
	OrderID     int64
	OrderNumber string
}

// EditOrderRequest contains one edit of an open order. A nil field is left
// as stored; a pointer to "" clears it. Dates are DD/MM/YYYY (or ISO)
// display text. OrderType and NetAmount are supervisor-only.
type EditOrderRequest struct {
	OrderNumber        string `validate:"required"`
	StatusText         *string
	BilledDate         *string
	FactoryPaymentDate *string
	ServiceDescription *string
	OrderType          *string `validate:"omitempty,oneof=Garantia Cliente"`
	NetAmount          *string
}

// EditOrderResponse reports what an edit did.
type EditOrderResponse struct {
	OrderNumber   string
	ChangedFields []string
	// Transitioned is true when the edit filed the order as billed.
	Transitioned bool
	// Forced is true when the canonical billed status had to be written.
	Forced bool
}

// Order is the public representation of a service order.
type Order struct {
	ID                 int64
	OrderNumber        string
	OrderType          string
	ClientID           int64
	ModelID            int64
	ConsultantID       int64
	StatusID           int64
	StatusText         string
	ServiceDescription string
	OpenedDate         string
	NetAmount          *float64
	BilledDate         string
	FactoryPaymentDate string
}

// OrderLogEntry is one audit log entry of an order.
type OrderLogEntry struct {
	OrderNumber string
	ActorID     int64
	Action      string
	FieldName   string
	OldValue    string
	NewValue    string
	CreatedAt   string
}
