package sqlite

import (
	"context"

	"github.com/example/ordens/internal/ctxutil"
	"github.com/example/ordens/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using OrderLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.OrderLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.OrderLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs the opening of an order.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, orderNumber string) error {
	return w.writeLog(ctx, orderNumber, "create", "", "", "")
}

// LogUpdate logs one changed field of an order.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, orderNumber, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, orderNumber, "update", fieldName, oldValue, newValue)
}

// LogDelete logs the deletion of an order.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, orderNumber string) error {
	return w.writeLog(ctx, orderNumber, "delete", "", "", "")
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, orderNumber, action, fieldName, oldValue, newValue string) error {
	actor := ctxutil.ActorFromContext(ctx)

	return w.logRepo.Create(ctx, &secondary.OrderLogRecord{
		OrderNumber: orderNumber,
		ActorID:     actor.UserID,
		Action:      action,
		FieldName:   fieldName,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
