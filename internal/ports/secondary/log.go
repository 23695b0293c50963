package secondary

import "context"

// LogWriter defines the interface for writing order audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs the opening of an order.
	LogCreate(ctx context.Context, orderNumber string) error

	// LogUpdate logs one changed field of an order.
	LogUpdate(ctx context.Context, orderNumber, fieldName, oldValue, newValue string) error

	// LogDelete logs the deletion of an order.
	LogDelete(ctx context.Context, orderNumber string) error
}
