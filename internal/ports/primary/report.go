package primary

import "context"

// ReportService defines the primary port for read-only order reports.
// Consultants always see only their own orders.
type ReportService interface {
	// OpenOrders lists open orders.
	OpenOrders(ctx context.Context, req OpenOrdersRequest) ([]*OrderRow, error)

	// OpenDashboard aggregates open orders.
	OpenDashboard(ctx context.Context, req OpenOrdersRequest) (*OpenDashboard, error)

	// BilledReport lists and aggregates billed orders.
	BilledReport(ctx context.Context, req BilledReportRequest) (*BilledReport, error)
}

// OpenOrdersRequest contains filters for open-order reports.
// ConsultantID is honoured for supervisors only.
type OpenOrdersRequest struct {
	ConsultantID int64
	StatusText   string
	OnlyStale    bool
}

// BilledReportRequest contains filters for the billed report.
// Year is YYYY and Month is MM or M.
type BilledReportRequest struct {
	ConsultantID int64
	Year         string `validate:"omitempty,numeric,len=4"`
	Month        string `validate:"omitempty,numeric,max=2"`
}

// OrderRow is a service order joined with its reference rows.
type OrderRow struct {
	OrderNumber        string   `yaml:"order_number"`
	OrderType          string   `yaml:"order_type"`
	Client             string   `yaml:"client"`
	Model              string   `yaml:"model"`
	ChassisID          string   `yaml:"chassis,omitempty"`
	MachineType        string   `yaml:"machine_type"`
	Consultant         string   `yaml:"consultant"`
	Status             string   `yaml:"status"`
	ServiceDescription string   `yaml:"service_description,omitempty"`
	OpenedDate         string   `yaml:"opened_date"`
	BilledDate         string   `yaml:"billed_date,omitempty"`
	FactoryPaymentDate string   `yaml:"factory_payment_date,omitempty"`
	NetAmount          *float64 `yaml:"net_amount,omitempty"`
	DaysOpen           int      `yaml:"days_open,omitempty"`
	Stale              bool     `yaml:"stale,omitempty"`
}

// OpenDashboard aggregates the open-order partition.
type OpenDashboard struct {
	Total    int            `yaml:"total"`
	Stale    int            `yaml:"stale"`
	ByStatus []*StatusCount `yaml:"by_status"`
}

// StatusCount is the number of open orders with one status.
type StatusCount struct {
	Status string `yaml:"status"`
	Count  int    `yaml:"count"`
}

// BilledReport lists and aggregates billed orders.
type BilledReport struct {
	Count   int            `yaml:"count"`
	Total   float64        `yaml:"total"`
	Monthly []*PeriodTotal `yaml:"monthly"`
	Yearly  []*PeriodTotal `yaml:"yearly"`
	Years   []string       `yaml:"years"`
	Orders  []*OrderRow    `yaml:"orders"`
}

// PeriodTotal is a count and net amount sum for a period.
type PeriodTotal struct {
	Period string  `yaml:"period"`
	Count  int     `yaml:"count"`
	Total  float64 `yaml:"total"`
}
