package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ports/primary"
	"github.com/example/ordens/internal/ports/secondary"
)

// ============================================================================
// Test Helper
// ============================================================================

func newTestOrderService() (*OrderServiceImpl, *mockTransactor, *mockRecordDeleter) {
	tx := newMockTransactor()
	deleter := &mockRecordDeleter{}
	now := func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	service := NewOrderService(tx, deleter, &mockOrderLogRepository{}, testLogger, now)
	return service, tx, deleter
}

func validOpenRequest() primary.OpenOrderRequest {
	return primary.OpenOrderRequest{
		OrderNumber:    "OS-1",
		ClientName:     "Fazenda Boa Vista",
		ConsultantName: "Carlos Souza",
		ModelName:      "T7.245",
		ChassisID:      "CH-1",
		StatusText:     "Aberto",
	}
}

// ============================================================================
// OpenOrder Tests
// ============================================================================

func TestOpenOrder_Success(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	store.consultants.add("Carlos Souza", "carlos@x.com", "h", "consultor")

	req := validOpenRequest()
	req.NetAmount = "R$ 1.234,56"
	resp, err := service.OpenOrder(supervisorCtx(), req)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.OrderNumber != "OS-1" {
		t.Errorf("expected order number 'OS-1', got '%s'", resp.OrderNumber)
	}

	created := store.orders.orders["OS-1"]
	if created.OrderType != order.TypeWarranty {
		t.Errorf("expected order type %q, got %q", order.TypeWarranty, created.OrderType)
	}
	if created.OpenedDate != "2024-03-10" {
		t.Errorf("expected opened date to default to today, got %q", created.OpenedDate)
	}
	if created.NetAmount == nil || *created.NetAmount != 1234.56 {
		t.Errorf("expected net amount 1234.56, got %v", created.NetAmount)
	}
	if created.StatusText != "Aberto" {
		t.Errorf("expected status 'Aberto', got %q", created.StatusText)
	}
	if _, ok := store.machineTypes.ids[order.DefaultMachineType]; !ok {
		t.Errorf("expected default machine type %q to be upserted", order.DefaultMachineType)
	}
	if len(store.logs.entries) != 1 || store.logs.entries[0].action != "create" {
		t.Errorf("expected one create log entry, got %v", store.logs.entries)
	}
}

func TestOpenOrder_ParsesDisplayDate(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.consultants.add("Carlos Souza", "carlos@x.com", "h", "consultor")

	req := validOpenRequest()
	req.OpenedDate = "05/02/2024"
	if _, err := service.OpenOrder(supervisorCtx(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := tx.store.orders.orders["OS-1"].OpenedDate; got != "2024-02-05" {
		t.Errorf("expected opened date '2024-02-05', got %q", got)
	}
}

func TestOpenOrder_MissingRequiredField(t *testing.T) {
	service, tx, _ := newTestOrderService()

	req := validOpenRequest()
	req.ChassisID = "   "
	_, err := service.OpenOrder(supervisorCtx(), req)

	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "chassis_id" {
		t.Errorf("expected field 'chassis_id', got %q", verr.Field)
	}
	if tx.calls != 0 {
		t.Errorf("expected no transaction, got %d", tx.calls)
	}
}

func TestOpenOrder_ConsultantNotFound(t *testing.T) {
	service, tx, _ := newTestOrderService()

	_, err := service.OpenOrder(supervisorCtx(), validOpenRequest())

	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(tx.store.orders.orders) != 0 {
		t.Error("expected no order to be created")
	}
}

func TestOpenOrder_BadAmount(t *testing.T) {
	service, tx, _ := newTestOrderService()

	req := validOpenRequest()
	req.NetAmount = "mil reais"
	_, err := service.OpenOrder(supervisorCtx(), req)

	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if tx.calls != 0 {
		t.Errorf("expected no transaction, got %d", tx.calls)
	}
}

func TestOpenOrder_DuplicateNumber(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.consultants.add("Carlos Souza", "carlos@x.com", "h", "consultor")
	tx.store.orders.add("OS-1", 1, "Aberto", "")

	_, err := service.OpenOrder(supervisorCtx(), validOpenRequest())

	if !errors.Is(err, errs.ErrUniqueness) {
		t.Fatalf("expected UniquenessConflict, got %v", err)
	}
}

func TestOpenOrder_RequiresActor(t *testing.T) {
	service, _, _ := newTestOrderService()

	_, err := service.OpenOrder(context.Background(), validOpenRequest())

	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

// ============================================================================
// EditOpenOrder Tests
// ============================================================================

func TestEditOpenOrder_BillingTransitionForcesStatus(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	billedID := store.statuses.add(order.BilledStatus)
	store.orders.add("OS-1", 2, "Aberto", "")

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr("FATURADA"),
		BilledDate:  textPtr("15/03/2024"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.Transitioned || !resp.Forced {
		t.Errorf("expected forced transition, got %+v", resp)
	}
	got := store.orders.orders["OS-1"]
	if got.StatusID != billedID {
		t.Errorf("expected status id %d, got %d", billedID, got.StatusID)
	}
	if got.BilledDate != "2024-03-15" {
		t.Errorf("expected billed date '2024-03-15', got %q", got.BilledDate)
	}
}

func TestEditOpenOrder_CanonicalBilledStatusNotForced(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	store.statuses.add(order.BilledStatus)
	store.orders.add("OS-1", 2, "Aberto", "")

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr("Faturada"),
		BilledDate:  textPtr("2024-03-15"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.Transitioned {
		t.Error("expected transition")
	}
	if resp.Forced {
		t.Error("expected no forced status write when the edit already set the canonical status")
	}
	if len(store.orders.setStatus) != 0 {
		t.Errorf("expected no SetStatus call, got %v", store.orders.setStatus)
	}
}

func TestEditOpenOrder_BillingRequiresDate(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	store.orders.add("OS-1", 2, "Aberto", "")

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr("Faturada"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Transitioned {
		t.Error("expected no transition without a billed date")
	}
	got := store.orders.orders["OS-1"]
	if got.BilledDate != "" {
		t.Errorf("expected order to stay open, got billed date %q", got.BilledDate)
	}
	if got.StatusText != "Faturada" {
		t.Errorf("expected status text 'Faturada', got %q", got.StatusText)
	}
}

func TestEditOpenOrder_NoChangesWritesNothing(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	store.orders.add("OS-1", 2, "Aberto", "")

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr(" Aberto "),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.ChangedFields) != 0 {
		t.Errorf("expected no changed fields, got %v", resp.ChangedFields)
	}
	if len(store.orders.patches) != 0 {
		t.Errorf("expected no update, got %d", len(store.orders.patches))
	}
	if len(store.statuses.upserts) != 0 {
		t.Errorf("expected no status upsert, got %v", store.statuses.upserts)
	}
}

func TestEditOpenOrder_OnlyChangedFieldsPersisted(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	store.orders.add("OS-1", 2, "Aberto", "")

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber:        "OS-1",
		StatusText:         textPtr("Aberto"),
		FactoryPaymentDate: textPtr("01/04/2024"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(store.orders.patches) != 1 {
		t.Fatalf("expected one update, got %d", len(store.orders.patches))
	}
	patch := store.orders.patches[0]
	if patch.StatusID != nil || patch.BilledDate != nil || patch.SetNetAmount {
		t.Errorf("expected only factory payment date in patch, got %+v", patch)
	}
	if patch.FactoryPaymentDate == nil || *patch.FactoryPaymentDate != "2024-04-01" {
		t.Errorf("expected factory payment date '2024-04-01', got %v", patch.FactoryPaymentDate)
	}
	if len(resp.ChangedFields) != 1 || resp.ChangedFields[0] != string(order.FieldFactoryPaymentDate) {
		t.Errorf("expected changed fields [factory_payment_date], got %v", resp.ChangedFields)
	}
	entry := store.logs.entries[0]
	if entry.field != "factory_payment_date" || entry.before != "" || entry.after != "2024-04-01" {
		t.Errorf("unexpected log entry %+v", entry)
	}
}

func TestEditOpenOrder_OmittedFieldsKeepValues(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	record := store.orders.add("OS-1", 2, "Aguardando Peças", "")
	record.ServiceDescription = "Troca de correia do rotor"
	record.NetAmount = amountPtr(1850)

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber:        "OS-1",
		FactoryPaymentDate: textPtr("20/03/2024"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.ChangedFields) != 1 || resp.ChangedFields[0] != string(order.FieldFactoryPaymentDate) {
		t.Errorf("expected changed fields [factory_payment_date], got %v", resp.ChangedFields)
	}
	if len(store.statuses.upserts) != 0 {
		t.Errorf("expected no status upsert, got %v", store.statuses.upserts)
	}
	got := store.orders.orders["OS-1"]
	if got.StatusText != "Aguardando Peças" {
		t.Errorf("expected status 'Aguardando Peças', got %q", got.StatusText)
	}
	if got.ServiceDescription != "Troca de correia do rotor" {
		t.Errorf("expected description kept, got %q", got.ServiceDescription)
	}
	if got.NetAmount == nil || *got.NetAmount != 1850 {
		t.Errorf("expected net amount kept, got %v", got.NetAmount)
	}
}

func TestEditOpenOrder_ExplicitBlankClears(t *testing.T) {
	service, tx, _ := newTestOrderService()
	record := tx.store.orders.add("OS-1", 2, "Aberto", "")
	record.FactoryPaymentDate = "2024-03-10"

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber:        "OS-1",
		FactoryPaymentDate: textPtr(""),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.ChangedFields) != 1 {
		t.Fatalf("expected one changed field, got %v", resp.ChangedFields)
	}
	if got := tx.store.orders.orders["OS-1"].FactoryPaymentDate; got != "" {
		t.Errorf("expected factory payment date cleared, got %q", got)
	}
}

func TestEditOpenOrder_BilledDateWithBilledStatusOnRecord(t *testing.T) {
	service, tx, _ := newTestOrderService()
	store := tx.store
	billedID := store.statuses.add(order.BilledStatus)
	store.orders.add("OS-1", 2, "faturada", "")

	resp, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		BilledDate:  textPtr("18/03/2024"),
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.Transitioned || !resp.Forced {
		t.Errorf("expected forced transition, got %+v", resp)
	}
	if got := store.orders.orders["OS-1"].StatusID; got != billedID {
		t.Errorf("expected status id %d, got %d", billedID, got)
	}
}

func TestEditOpenOrder_BadDateRejectsBeforeWrite(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 2, "Aberto", "")

	_, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr("Faturada"),
		BilledDate:  textPtr("31/02/2024"),
	})

	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if tx.calls != 0 {
		t.Errorf("expected no transaction, got %d", tx.calls)
	}
}

func TestEditOpenOrder_BilledOrderNotEditable(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 2, order.BilledStatus, "2024-03-01")

	_, err := service.EditOpenOrder(supervisorCtx(), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr("Aberto"),
	})

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Entity != "open service order" {
		t.Errorf("expected entity 'open service order', got %q", nf.Entity)
	}
}

func TestEditOpenOrder_ConsultantCannotEditOthersOrder(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 3, "Aberto", "")

	_, err := service.EditOpenOrder(consultantCtx(2), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		StatusText:  textPtr("Em Execução"),
	})

	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestEditOpenOrder_SupervisorFields(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantErr   error
		wantType  string
		wantValue *float64
	}{
		{
			name:      "supervisor changes type and amount",
			ctx:       supervisorCtx(),
			wantType:  order.TypeClient,
			wantValue: amountPtr(99.9),
		},
		{
			name:    "consultant is refused",
			ctx:     consultantCtx(2),
			wantErr: errs.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, tx, _ := newTestOrderService()
			tx.store.orders.add("OS-1", 2, "Aberto", "")

			_, err := service.EditOpenOrder(tt.ctx, primary.EditOrderRequest{
				OrderNumber: "OS-1",
				OrderType:   textPtr(order.TypeClient),
				NetAmount:   textPtr("99,90"),
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			got := tx.store.orders.orders["OS-1"]
			if got.OrderType != tt.wantType {
				t.Errorf("expected order type %q, got %q", tt.wantType, got.OrderType)
			}
			if got.NetAmount == nil || *got.NetAmount != *tt.wantValue {
				t.Errorf("expected net amount %v, got %v", *tt.wantValue, got.NetAmount)
			}
		})
	}
}

func TestEditOpenOrder_InvalidOrderType(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 2, "Aberto", "")

	_, err := service.EditOpenOrder(supervisorCtx(), primary.EditOrderRequest{
		OrderNumber: "OS-1",
		OrderType:   textPtr("Warranty"),
	})

	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEditOpenOrders_BadEditRejectsBatch(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 2, "Aberto", "")
	tx.store.orders.add("OS-2", 2, "Aberto", "")

	_, err := service.EditOpenOrders(consultantCtx(2), []primary.EditOrderRequest{
		{OrderNumber: "OS-1", StatusText: textPtr("Em Execução")},
		{OrderNumber: "OS-2", StatusText: textPtr("Aberto"), NetAmount: textPtr("x")},
	})

	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if tx.calls != 0 {
		t.Errorf("expected no transaction, got %d", tx.calls)
	}
}

func TestEditOpenOrders_SingleTransaction(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 2, "Aberto", "")
	tx.store.orders.add("OS-2", 2, "Aberto", "")

	resps, err := service.EditOpenOrders(consultantCtx(2), []primary.EditOrderRequest{
		{OrderNumber: "OS-1", StatusText: textPtr("Em Execução")},
		{OrderNumber: "OS-2", StatusText: textPtr("Aberto"), ServiceDescription: textPtr("Revisão")},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tx.calls != 1 {
		t.Errorf("expected one transaction, got %d", tx.calls)
	}
	if len(resps) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(resps))
	}
}

func TestEditOpenOrders_Empty(t *testing.T) {
	service, _, _ := newTestOrderService()

	_, err := service.EditOpenOrders(supervisorCtx(), nil)

	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// ============================================================================
// DeleteOrder Tests
// ============================================================================

func TestDeleteOrder_SupervisorDeletesOpenOrder(t *testing.T) {
	service, tx, deleter := newTestOrderService()
	record := tx.store.orders.add("OS-1", 2, "Aberto", "")

	if err := service.DeleteOrder(supervisorCtx(), "OS-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(deleter.deleted) != 1 || deleter.deleted[0] != secondary.TableServiceOrders || deleter.ids[0] != record.ID {
		t.Errorf("expected service order %d deleted, got %v %v", record.ID, deleter.deleted, deleter.ids)
	}
	last := tx.store.logs.entries[len(tx.store.logs.entries)-1]
	if last.action != "delete" || last.number != "OS-1" {
		t.Errorf("expected delete log entry, got %+v", last)
	}
}

func TestDeleteOrder_Refused(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		billed string
	}{
		{"consultant", consultantCtx(2), ""},
		{"billed order", supervisorCtx(), "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, tx, deleter := newTestOrderService()
			tx.store.orders.add("OS-1", 2, "Aberto", tt.billed)

			err := service.DeleteOrder(tt.ctx, "OS-1")

			if !errors.Is(err, errs.ErrForbidden) {
				t.Fatalf("expected ForbiddenError, got %v", err)
			}
			if len(deleter.deleted) != 0 {
				t.Error("expected nothing deleted")
			}
		})
	}
}

func TestDeleteOrder_DeleterFailure(t *testing.T) {
	service, tx, deleter := newTestOrderService()
	tx.store.orders.add("OS-1", 2, "Aberto", "")
	deleter.err = &errs.TransientStorageError{Op: "delete service order", Err: errors.New("database is locked")}

	err := service.DeleteOrder(supervisorCtx(), "OS-1")

	if !errs.IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

// ============================================================================
// GetOrder / OrderHistory Tests
// ============================================================================

func TestGetOrder_ConsultantScoped(t *testing.T) {
	service, tx, _ := newTestOrderService()
	tx.store.orders.add("OS-1", 3, "Aberto", "")

	if _, err := service.GetOrder(consultantCtx(2), "OS-1"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	got, err := service.GetOrder(consultantCtx(3), "OS-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.StatusText != "Aberto" {
		t.Errorf("expected status 'Aberto', got %q", got.StatusText)
	}
}

func TestOrderHistory(t *testing.T) {
	logs := &mockOrderLogRepository{records: []*secondary.OrderLogRecord{
		{OrderNumber: "OS-1", ActorID: 2, Action: "create"},
		{OrderNumber: "OS-2", ActorID: 2, Action: "create"},
		{OrderNumber: "OS-1", ActorID: 1, Action: "update", FieldName: "status", OldValue: "Aberto", NewValue: "Faturada"},
	}}
	service := NewOrderService(newMockTransactor(), &mockRecordDeleter{}, logs, testLogger, nil)

	entries, err := service.OrderHistory(supervisorCtx(), "OS-1")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].NewValue != "Faturada" {
		t.Errorf("expected new value 'Faturada', got %q", entries[1].NewValue)
	}
}
