// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Transactor runs a unit of work inside one storage transaction.
// The transaction commits when fn returns nil and rolls back on any error
// or panic; no repository obtained from the Store commits on its own.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// Store exposes the repositories bound to one transaction.
type Store interface {
	Clients() ClientRepository
	Consultants() ConsultantRepository
	MachineTypes() MachineTypeRepository
	Models() ModelRepository
	Statuses() StatusRepository
	Orders() ServiceOrderRepository
	Logs() LogWriter
}

// Table names a table that RecordDeleter may delete from.
type Table string

const (
	TableClients       Table = "clients"
	TableConsultants   Table = "consultants"
	TableMachineTypes  Table = "machine_types"
	TableModels        Table = "models"
	TableStatuses      Table = "statuses"
	TableServiceOrders Table = "service_orders"
)

// RecordDeleter is the deletion guard: it enables foreign-key enforcement on
// its connection, deletes one row by id and commits in its own transaction.
// It does not count referencing rows; callers must do that first.
type RecordDeleter interface {
	// DeleteRecord reports true when the row was deleted. On any failure it
	// rolls back and reports false together with the classified error.
	DeleteRecord(ctx context.Context, table Table, id int64) (bool, error)
}

// ClientRepository defines the secondary port for client persistence.
type ClientRepository interface {
	// Upsert resolves a client by tax id, or by name among clients without a
	// real tax id when taxID is blank, updating name and phone on a hit.
	Upsert(ctx context.Context, name, taxID, phone string) (int64, error)

	// GetByID retrieves a client by its ID.
	GetByID(ctx context.Context, id int64) (*ClientRecord, error)

	// List retrieves clients matching the given filters.
	List(ctx context.Context, filters ClientFilters) ([]*ClientRecord, error)

	// FindWithoutTaxID returns ids of clients named exactly name whose tax id
	// is NULL or a placeholder.
	FindWithoutTaxID(ctx context.Context, name string) ([]int64, error)

	// Update overwrites name, tax id and phone.
	Update(ctx context.Context, client *ClientRecord) error

	// CountOrders returns the number of service orders referencing the client.
	CountOrders(ctx context.Context, id int64) (int, error)
}

// ClientRecord represents a client as stored in persistence.
type ClientRecord struct {
	ID    int64
	Name  string
	TaxID string // real tax id or placeholder; "" when NULL
	Phone string
}

// ClientFilters contains filter options for querying clients.
type ClientFilters struct {
	NameContains string
}

// ConsultantRepository defines the secondary port for consultant persistence.
type ConsultantRepository interface {
	// Create persists a new consultant and returns its id.
	Create(ctx context.Context, consultant *ConsultantRecord) (int64, error)

	// GetByID retrieves a consultant by its ID.
	GetByID(ctx context.Context, id int64) (*ConsultantRecord, error)

	// GetByEmail retrieves a consultant by email.
	GetByEmail(ctx context.Context, email string) (*ConsultantRecord, error)

	// LookupIDByName returns the id of the consultant with exactly this name.
	// found is false, with a nil error, when there is none or name is blank.
	LookupIDByName(ctx context.Context, name string) (id int64, found bool, err error)

	// List retrieves all consultants ordered by name.
	List(ctx context.Context) ([]*ConsultantRecord, error)

	// Update overwrites name, email and password hash.
	Update(ctx context.Context, consultant *ConsultantRecord) error

	// Count returns the number of consultants.
	Count(ctx context.Context) (int, error)

	// CountOrders returns the number of service orders referencing the consultant.
	CountOrders(ctx context.Context, id int64) (int, error)
}

// ConsultantRecord represents a consultant as stored in persistence.
type ConsultantRecord struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

// MachineTypeRepository defines the secondary port for machine type persistence.
type MachineTypeRepository interface {
	// Upsert returns the id for description, inserting it when absent.
	// Blank descriptions resolve to the unknown-type label.
	Upsert(ctx context.Context, description string) (int64, error)

	// GetByDescription retrieves a machine type by exact description.
	GetByDescription(ctx context.Context, description string) (*MachineTypeRecord, error)

	// List retrieves all machine types ordered by description.
	List(ctx context.Context) ([]*MachineTypeRecord, error)
}

// MachineTypeRecord represents a machine type as stored in persistence.
type MachineTypeRecord struct {
	ID          int64
	Description string
}

// ModelRepository defines the secondary port for machine model persistence.
type ModelRepository interface {
	// Upsert resolves a model by (name, machineTypeID), updating the chassis
	// id on a hit.
	Upsert(ctx context.Context, name, chassisID string, machineTypeID int64) (int64, error)

	// GetByID retrieves a model by its ID.
	GetByID(ctx context.Context, id int64) (*ModelRecord, error)

	// List retrieves models matching the given filters.
	List(ctx context.Context, filters ModelFilters) ([]*ModelRecord, error)
}

// ModelRecord represents a machine model as stored in persistence.
type ModelRecord struct {
	ID            int64
	Name          string
	ChassisID     string
	MachineTypeID int64
	MachineType   string // joined description, read-only
}

// ModelFilters contains filter options for querying models.
type ModelFilters struct {
	MachineTypeID int64
}

// StatusRepository defines the secondary port for status persistence.
type StatusRepository interface {
	// Upsert returns the id for description, inserting it when absent.
	// Matching is exact; blank resolves to the unknown-status label.
	Upsert(ctx context.Context, description string) (int64, error)

	// List retrieves all statuses ordered by description.
	List(ctx context.Context) ([]*StatusRecord, error)
}

// StatusRecord represents a status as stored in persistence.
type StatusRecord struct {
	ID          int64
	Description string
}

// ServiceOrderRepository defines the secondary port for service order persistence.
type ServiceOrderRepository interface {
	// Create persists a new service order and returns its id.
	Create(ctx context.Context, order *ServiceOrderRecord) (int64, error)

	// GetByNumber retrieves an order by order number, with its status text.
	GetByNumber(ctx context.Context, orderNumber string) (*ServiceOrderRecord, error)

	// GetByID retrieves an order by its ID, with its status text.
	GetByID(ctx context.Context, id int64) (*ServiceOrderRecord, error)

	// Update applies the non-nil fields of patch as a single UPDATE.
	Update(ctx context.Context, id int64, patch OrderPatch) error

	// SetStatus forces the order's status id.
	SetStatus(ctx context.Context, id, statusID int64) error
}

// ServiceOrderRecord represents a service order as stored in persistence.
// Dates are ISO YYYY-MM-DD; "" means NULL.
type ServiceOrderRecord struct {
	ID                 int64
	OrderNumber        string
	OrderType          string
	ClientID           int64
	ModelID            int64
	ConsultantID       int64
	StatusID           int64
	StatusText         string // joined description, read-only
	ServiceDescription string
	OpenedDate         string
	NetAmount          *float64
	BilledDate         string
	FactoryPaymentDate string
}

// OrderPatch lists the order columns to change. A nil pointer leaves the
// column untouched; a pointer to "" stores NULL. NetAmount is applied only
// when SetNetAmount is true so that it can be cleared.
type OrderPatch struct {
	StatusID           *int64
	BilledDate         *string
	FactoryPaymentDate *string
	ServiceDescription *string
	OrderType          *string
	SetNetAmount       bool
	NetAmount          *float64
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.StatusID == nil && p.BilledDate == nil && p.FactoryPaymentDate == nil &&
		p.ServiceDescription == nil && p.OrderType == nil && !p.SetNetAmount
}

// OrderLogRepository defines the secondary port for the order audit log.
type OrderLogRepository interface {
	// Create persists a log entry.
	Create(ctx context.Context, record *OrderLogRecord) error

	// ListByOrder retrieves entries for an order number, oldest first.
	ListByOrder(ctx context.Context, orderNumber string) ([]*OrderLogRecord, error)
}

// OrderLogRecord represents an audit log entry as stored in persistence.
type OrderLogRecord struct {
	ID          int64
	OrderNumber string
	ActorID     int64 // 0 when no actor was in context
	Action      string
	FieldName   string
	OldValue    string
	NewValue    string
	CreatedAt   string
}

// ReportRepository defines the read-only queries behind listings and dashboards.
type ReportRepository interface {
	// OpenOrders lists orders with no billed date.
	OpenOrders(ctx context.Context, filters OpenOrderFilters) ([]*OrderView, error)

	// OpenSummary counts open orders in total, stale and per status.
	OpenSummary(ctx context.Context, filters OpenOrderFilters) (*OpenSummary, error)

	// BilledOrders lists orders with a billed date.
	BilledOrders(ctx context.Context, filters BilledFilters) ([]*OrderView, error)

	// BilledKPIs returns the count and net amount total of billed orders.
	BilledKPIs(ctx context.Context, filters BilledFilters) (*PeriodTotal, error)

	// BilledMonthly groups billed orders by YYYY-MM.
	BilledMonthly(ctx context.Context, filters BilledFilters) ([]*PeriodTotal, error)

	// BilledYearly groups billed orders by YYYY; the month filter is ignored.
	BilledYearly(ctx context.Context, filters BilledFilters) ([]*PeriodTotal, error)

	// BilledYears lists the distinct years with billed orders, newest first.
	BilledYears(ctx context.Context, consultantID int64) ([]string, error)

	// Inventory lists every model with its type and the client holding it
	// on an open order.
	Inventory(ctx context.Context) ([]*InventoryRow, error)

	// ModelCountByType counts models per machine type.
	ModelCountByType(ctx context.Context) ([]*TypeCount, error)
}

// OpenOrderFilters contains filter options for open-order queries.
// Zero values disable a filter.
type OpenOrderFilters struct {
	ConsultantID   int64
	StatusText     string
	OnlyStale      bool
	StaleAfterDays int
}

// BilledFilters contains filter options for billed-order queries.
// Year is YYYY and Month is MM.
type BilledFilters struct {
	ConsultantID int64
	Year         string
	Month        string
}

// OrderView is a service order joined with its reference rows.
type OrderView struct {
	OrderNumber        string
	OrderType          string
	ClientName         string
	ModelName          string
	ChassisID          string
	MachineType        string
	ConsultantName     string
	StatusText         string
	ServiceDescription string
	OpenedDate         string
	BilledDate         string
	FactoryPaymentDate string
	NetAmount          *float64
	DaysOpen           int
}

// OpenSummary aggregates the open-order partition.
type OpenSummary struct {
	Total    int
	Stale    int
	ByStatus []*StatusCount
}

// StatusCount is the number of open orders with one status.
type StatusCount struct {
	Status string
	Count  int
}

// PeriodTotal is a count and net amount sum for a period.
type PeriodTotal struct {
	Period string
	Count  int
	Total  float64
}

// InventoryRow is one model in the machine inventory.
type InventoryRow struct {
	ModelName   string
	ChassisID   string
	MachineType string
	ClientName  string // "" when no open order holds the model
}

// TypeCount is the number of models registered under one machine type.
type TypeCount struct {
	MachineType string
	Models      int
}
