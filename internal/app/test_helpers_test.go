package app

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/core/placeholder"
	"github.com/example/ordens/internal/ctxutil"
	"github.com/example/ordens/internal/ports/secondary"
)

var testLogger = zerolog.Nop()

func supervisorCtx() context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{UserID: 1, Name: "Marta", Role: ctxutil.RoleSupervisor})
}

func consultantCtx(id int64) context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{UserID: id, Name: "Carlos", Role: ctxutil.RoleConsultant})
}

func amountPtr(v float64) *float64 { return &v }

func textPtr(s string) *string { return &s }

// ============================================================================
// Transactor
// ============================================================================

var _ secondary.Transactor = (*mockTransactor)(nil)

// mockTransactor runs fn directly against an in-memory store. It does not roll
// anything back; rollback is covered by the SQLite integration tests.
type mockTransactor struct {
	store *mockStore
	calls int
	err   error
}

func newMockTransactor() *mockTransactor {
	return &mockTransactor{store: newMockStore()}
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store secondary.Store) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx, m.store)
}

var _ secondary.Store = (*mockStore)(nil)

type mockStore struct {
	clients      *mockClientRepository
	consultants  *mockConsultantRepository
	machineTypes *mockDescriptionRepository
	models       *mockModelRepository
	statuses     *mockDescriptionRepository
	orders       *mockServiceOrderRepository
	logs         *mockLogWriter
}

func newMockStore() *mockStore {
	statuses := newMockDescriptionRepository(order.UnknownStatus)
	return &mockStore{
		clients:      newMockClientRepository(),
		consultants:  newMockConsultantRepository(),
		machineTypes: newMockDescriptionRepository(order.UnknownMachineType),
		models:       newMockModelRepository(),
		statuses:     statuses,
		orders:       newMockServiceOrderRepository(statuses),
		logs:         &mockLogWriter{},
	}
}

func (s *mockStore) Clients() secondary.ClientRepository           { return s.clients }
func (s *mockStore) Consultants() secondary.ConsultantRepository   { return s.consultants }
func (s *mockStore) MachineTypes() secondary.MachineTypeRepository { return s.machineTypes }
func (s *mockStore) Models() secondary.ModelRepository             { return s.models }
func (s *mockStore) Statuses() secondary.StatusRepository          { return mockStatusRepository{s.statuses} }
func (s *mockStore) Orders() secondary.ServiceOrderRepository      { return s.orders }
func (s *mockStore) Logs() secondary.LogWriter                     { return s.logs }

// ============================================================================
// Clients
// ============================================================================

type mockClientRepository struct {
	clients     map[int64]*secondary.ClientRecord
	orderCounts map[int64]int
	nextID      int64
	upsertErr   error
	updateErr   error
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{
		clients:     make(map[int64]*secondary.ClientRecord),
		orderCounts: make(map[int64]int),
		nextID:      1,
	}
}

func (m *mockClientRepository) add(name, taxID string) int64 {
	id := m.nextID
	m.nextID++
	m.clients[id] = &secondary.ClientRecord{ID: id, Name: name, TaxID: taxID}
	return id
}

func (m *mockClientRepository) Upsert(ctx context.Context, name, taxID, phone string) (int64, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	if taxID == "" {
		ids, _ := m.FindWithoutTaxID(ctx, name)
		if len(ids) > 0 {
			m.clients[ids[0]].Phone = phone
			return ids[0], nil
		}
		taxID = placeholder.ClientTaxID + placeholder.Sanitize(name) + "_TEST"
	}
	for _, c := range m.clients {
		if c.TaxID == taxID {
			c.Name, c.Phone = name, phone
			return c.ID, nil
		}
	}
	id := m.add(name, taxID)
	m.clients[id].Phone = phone
	return id, nil
}

func (m *mockClientRepository) GetByID(ctx context.Context, id int64) (*secondary.ClientRecord, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, &errs.NotFoundError{Entity: "client", Key: "id"}
	}
	copied := *c
	return &copied, nil
}

func (m *mockClientRepository) List(ctx context.Context, filters secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	var out []*secondary.ClientRecord
	for _, c := range m.clients {
		if filters.NameContains == "" || strings.Contains(c.Name, filters.NameContains) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockClientRepository) FindWithoutTaxID(ctx context.Context, name string) ([]int64, error) {
	var ids []int64
	for _, c := range m.clients {
		if c.Name == name && (c.TaxID == "" || placeholder.IsPlaceholder(placeholder.ClientTaxID, c.TaxID)) {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockClientRepository) Update(ctx context.Context, client *secondary.ClientRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.clients[client.ID]; !ok {
		return &errs.NotFoundError{Entity: "client", Key: "id"}
	}
	copied := *client
	m.clients[client.ID] = &copied
	return nil
}

func (m *mockClientRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	return m.orderCounts[id], nil
}

// ============================================================================
// Consultants
// ============================================================================

type mockConsultantRepository struct {
	consultants map[int64]*secondary.ConsultantRecord
	orderCounts map[int64]int
	nextID      int64
	createErr   error
	updates     int
}

func newMockConsultantRepository() *mockConsultantRepository {
	return &mockConsultantRepository{
		consultants: make(map[int64]*secondary.ConsultantRecord),
		orderCounts: make(map[int64]int),
		nextID:      1,
	}
}

func (m *mockConsultantRepository) add(name, email, hash, role string) int64 {
	id := m.nextID
	m.nextID++
	m.consultants[id] = &secondary.ConsultantRecord{ID: id, Name: name, Email: email, PasswordHash: hash, Role: role}
	return id
}

func (m *mockConsultantRepository) Create(ctx context.Context, c *secondary.ConsultantRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	for _, existing := range m.consultants {
		if existing.Email == c.Email {
			return 0, &errs.UniquenessConflict{Entity: "consultant", Key: "email", Value: c.Email}
		}
	}
	return m.add(c.Name, c.Email, c.PasswordHash, c.Role), nil
}

func (m *mockConsultantRepository) GetByID(ctx context.Context, id int64) (*secondary.ConsultantRecord, error) {
	c, ok := m.consultants[id]
	if !ok {
		return nil, &errs.NotFoundError{Entity: "consultant", Key: "id"}
	}
	copied := *c
	return &copied, nil
}

func (m *mockConsultantRepository) GetByEmail(ctx context.Context, email string) (*secondary.ConsultantRecord, error) {
	for _, c := range m.consultants {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, &errs.NotFoundError{Entity: "consultant", Key: email}
}

func (m *mockConsultantRepository) LookupIDByName(ctx context.Context, name string) (int64, bool, error) {
	for _, c := range m.consultants {
		if c.Name == name {
			return c.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *mockConsultantRepository) List(ctx context.Context) ([]*secondary.ConsultantRecord, error) {
	var out []*secondary.ConsultantRecord
	for _, c := range m.consultants {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockConsultantRepository) Update(ctx context.Context, c *secondary.ConsultantRecord) error {
	m.updates++
	copied := *c
	m.consultants[c.ID] = &copied
	return nil
}

func (m *mockConsultantRepository) Count(ctx context.Context) (int, error) {
	return len(m.consultants), nil
}

func (m *mockConsultantRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	return m.orderCounts[id], nil
}

// ============================================================================
// Machine types and statuses
// ============================================================================

// mockDescriptionRepository serves both machine types and statuses: exact
// description matching with a blank-description fallback label.
type mockDescriptionRepository struct {
	ids       map[string]int64
	fallback  string
	nextID    int64
	upsertErr error
	upserts   []string
}

func newMockDescriptionRepository(fallback string) *mockDescriptionRepository {
	return &mockDescriptionRepository{ids: make(map[string]int64), fallback: fallback, nextID: 1}
}

func (m *mockDescriptionRepository) add(description string) int64 {
	id := m.nextID
	m.nextID++
	m.ids[description] = id
	return id
}

func (m *mockDescriptionRepository) describe(id int64) string {
	for desc, v := range m.ids {
		if v == id {
			return desc
		}
	}
	return ""
}

func (m *mockDescriptionRepository) Upsert(ctx context.Context, description string) (int64, error) {
	m.upserts = append(m.upserts, description)
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = m.fallback
	}
	if id, ok := m.ids[description]; ok {
		return id, nil
	}
	return m.add(description), nil
}

func (m *mockDescriptionRepository) GetByDescription(ctx context.Context, description string) (*secondary.MachineTypeRecord, error) {
	id, ok := m.ids[description]
	if !ok {
		return nil, &errs.NotFoundError{Entity: "machine type", Key: description}
	}
	return &secondary.MachineTypeRecord{ID: id, Description: description}, nil
}

func (m *mockDescriptionRepository) List(ctx context.Context) ([]*secondary.MachineTypeRecord, error) {
	var out []*secondary.MachineTypeRecord
	for desc, id := range m.ids {
		out = append(out, &secondary.MachineTypeRecord{ID: id, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, nil
}

// mockStatusRepository adapts the shared mock to the status port's record type.
type mockStatusRepository struct{ *mockDescriptionRepository }

func (m mockStatusRepository) List(ctx context.Context) ([]*secondary.StatusRecord, error) {
	types, _ := m.mockDescriptionRepository.List(ctx)
	out := make([]*secondary.StatusRecord, len(types))
	for i, t := range types {
		out[i] = &secondary.StatusRecord{ID: t.ID, Description: t.Description}
	}
	return out, nil
}

// ============================================================================
// Models
// ============================================================================

type mockModelRepository struct {
	models map[int64]*secondary.ModelRecord
	nextID int64
}

func newMockModelRepository() *mockModelRepository {
	return &mockModelRepository{models: make(map[int64]*secondary.ModelRecord), nextID: 1}
}

func (m *mockModelRepository) Upsert(ctx context.Context, name, chassisID string, machineTypeID int64) (int64, error) {
	for _, model := range m.models {
		if model.Name == name && model.MachineTypeID == machineTypeID {
			model.ChassisID = chassisID
			return model.ID, nil
		}
	}
	id := m.nextID
	m.nextID++
	m.models[id] = &secondary.ModelRecord{ID: id, Name: name, ChassisID: chassisID, MachineTypeID: machineTypeID}
	return id, nil
}

func (m *mockModelRepository) GetByID(ctx context.Context, id int64) (*secondary.ModelRecord, error) {
	model, ok := m.models[id]
	if !ok {
		return nil, &errs.NotFoundError{Entity: "model", Key: "id"}
	}
	return model, nil
}

func (m *mockModelRepository) List(ctx context.Context, filters secondary.ModelFilters) ([]*secondary.ModelRecord, error) {
	var out []*secondary.ModelRecord
	for _, model := range m.models {
		if filters.MachineTypeID == 0 || model.MachineTypeID == filters.MachineTypeID {
			out = append(out, model)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ============================================================================
// Service orders
// ============================================================================

type mockServiceOrderRepository struct {
	orders    map[string]*secondary.ServiceOrderRecord
	statuses  *mockDescriptionRepository
	nextID    int64
	createErr error
	updateErr error
	patches   []secondary.OrderPatch
	setStatus []int64
}

func newMockServiceOrderRepository(statuses *mockDescriptionRepository) *mockServiceOrderRepository {
	return &mockServiceOrderRepository{
		orders:   make(map[string]*secondary.ServiceOrderRecord),
		statuses: statuses,
		nextID:   1,
	}
}

// add stores an order directly, resolving statusText through the status mock.
func (m *mockServiceOrderRepository) add(number string, consultantID int64, statusText, billedDate string) *secondary.ServiceOrderRecord {
	statusID, _ := m.statuses.Upsert(context.Background(), statusText)
	m.statuses.upserts = nil
	record := &secondary.ServiceOrderRecord{
		ID:           m.nextID,
		OrderNumber:  number,
		OrderType:    order.TypeWarranty,
		ConsultantID: consultantID,
		StatusID:     statusID,
		StatusText:   statusText,
		OpenedDate:   "2024-03-01",
		BilledDate:   billedDate,
	}
	m.nextID++
	m.orders[number] = record
	return record
}

func (m *mockServiceOrderRepository) byID(id int64) *secondary.ServiceOrderRecord {
	for _, o := range m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (m *mockServiceOrderRepository) Create(ctx context.Context, o *secondary.ServiceOrderRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if _, ok := m.orders[o.OrderNumber]; ok {
		return 0, &errs.UniquenessConflict{Entity: "service order", Key: "order_number", Value: o.OrderNumber}
	}
	copied := *o
	copied.ID = m.nextID
	copied.StatusText = m.statuses.describe(o.StatusID)
	m.nextID++
	m.orders[o.OrderNumber] = &copied
	return copied.ID, nil
}

func (m *mockServiceOrderRepository) GetByNumber(ctx context.Context, number string) (*secondary.ServiceOrderRecord, error) {
	o, ok := m.orders[number]
	if !ok {
		return nil, &errs.NotFoundError{Entity: "service order", Key: number}
	}
	copied := *o
	return &copied, nil
}

func (m *mockServiceOrderRepository) GetByID(ctx context.Context, id int64) (*secondary.ServiceOrderRecord, error) {
	o := m.byID(id)
	if o == nil {
		return nil, &errs.NotFoundError{Entity: "service order", Key: "id"}
	}
	copied := *o
	return &copied, nil
}

func (m *mockServiceOrderRepository) Update(ctx context.Context, id int64, patch secondary.OrderPatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.patches = append(m.patches, patch)
	o := m.byID(id)
	if patch.StatusID != nil {
		o.StatusID = *patch.StatusID
		o.StatusText = m.statuses.describe(*patch.StatusID)
	}
	if patch.BilledDate != nil {
		o.BilledDate = *patch.BilledDate
	}
	if patch.FactoryPaymentDate != nil {
		o.FactoryPaymentDate = *patch.FactoryPaymentDate
	}
	if patch.ServiceDescription != nil {
		o.ServiceDescription = *patch.ServiceDescription
	}
	if patch.OrderType != nil {
		o.OrderType = *patch.OrderType
	}
	if patch.SetNetAmount {
		o.NetAmount = patch.NetAmount
	}
	return nil
}

func (m *mockServiceOrderRepository) SetStatus(ctx context.Context, id, statusID int64) error {
	m.setStatus = append(m.setStatus, statusID)
	o := m.byID(id)
	o.StatusID = statusID
	o.StatusText = m.statuses.describe(statusID)
	return nil
}

// ============================================================================
// Logs and deletion
// ============================================================================

type mockLogEntry struct {
	number, action, field, before, after string
}

type mockLogWriter struct {
	entries []mockLogEntry
}

func (m *mockLogWriter) LogCreate(ctx context.Context, orderNumber string) error {
	m.entries = append(m.entries, mockLogEntry{number: orderNumber, action: "create"})
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, orderNumber, field, before, after string) error {
	m.entries = append(m.entries, mockLogEntry{orderNumber, "update", field, before, after})
	return nil
}

func (m *mockLogWriter) LogDelete(ctx context.Context, orderNumber string) error {
	m.entries = append(m.entries, mockLogEntry{number: orderNumber, action: "delete"})
	return nil
}

type mockOrderLogRepository struct {
	records []*secondary.OrderLogRecord
}

func (m *mockOrderLogRepository) Create(ctx context.Context, r *secondary.OrderLogRecord) error {
	m.records = append(m.records, r)
	return nil
}

func (m *mockOrderLogRepository) ListByOrder(ctx context.Context, number string) ([]*secondary.OrderLogRecord, error) {
	var out []*secondary.OrderLogRecord
	for _, r := range m.records {
		if r.OrderNumber == number {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ secondary.RecordDeleter = (*mockRecordDeleter)(nil)

type mockRecordDeleter struct {
	deleted []secondary.Table
	ids     []int64
	err     error
}

func (m *mockRecordDeleter) DeleteRecord(ctx context.Context, table secondary.Table, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.deleted = append(m.deleted, table)
	m.ids = append(m.ids, id)
	return true, nil
}

// ============================================================================
// Reports
// ============================================================================

var _ secondary.ReportRepository = (*mockReportRepository)(nil)

type mockReportRepository struct {
	openFilters   secondary.OpenOrderFilters
	billedFilters secondary.BilledFilters
	yearsFor      int64
	views         []*secondary.OrderView
	summary       *secondary.OpenSummary
	kpis          *secondary.PeriodTotal
	monthly       []*secondary.PeriodTotal
	yearly        []*secondary.PeriodTotal
	years         []string
	inventory     []*secondary.InventoryRow
	counts        []*secondary.TypeCount
	err           error
}

func (m *mockReportRepository) OpenOrders(ctx context.Context, f secondary.OpenOrderFilters) ([]*secondary.OrderView, error) {
	m.openFilters = f
	return m.views, m.err
}

func (m *mockReportRepository) OpenSummary(ctx context.Context, f secondary.OpenOrderFilters) (*secondary.OpenSummary, error) {
	m.openFilters = f
	if m.summary == nil {
		return &secondary.OpenSummary{}, m.err
	}
	return m.summary, m.err
}

func (m *mockReportRepository) BilledOrders(ctx context.Context, f secondary.BilledFilters) ([]*secondary.OrderView, error) {
	m.billedFilters = f
	return m.views, m.err
}

func (m *mockReportRepository) BilledKPIs(ctx context.Context, f secondary.BilledFilters) (*secondary.PeriodTotal, error) {
	m.billedFilters = f
	if m.kpis == nil {
		return &secondary.PeriodTotal{}, m.err
	}
	return m.kpis, m.err
}

func (m *mockReportRepository) BilledMonthly(ctx context.Context, f secondary.BilledFilters) ([]*secondary.PeriodTotal, error) {
	return m.monthly, m.err
}

func (m *mockReportRepository) BilledYearly(ctx context.Context, f secondary.BilledFilters) ([]*secondary.PeriodTotal, error) {
	return m.yearly, m.err
}

func (m *mockReportRepository) BilledYears(ctx context.Context, consultantID int64) ([]string, error) {
	m.yearsFor = consultantID
	return m.years, m.err
}

func (m *mockReportRepository) Inventory(ctx context.Context) ([]*secondary.InventoryRow, error) {
	return m.inventory, m.err
}

func (m *mockReportRepository) ModelCountByType(ctx context.Context) ([]*secondary.TypeCount, error) {
	return m.counts, m.err
}
