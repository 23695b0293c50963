package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ordens/internal/ports/secondary"
)

// OrderLogRepository implements secondary.OrderLogRepository with SQLite.
type OrderLogRepository struct {
	db Querier
}

// NewOrderLogRepository creates a new SQLite order log repository.
func NewOrderLogRepository(db Querier) *OrderLogRepository {
	return &OrderLogRepository{db: db}
}

// Create persists a log entry.
func (r *OrderLogRepository) Create(ctx context.Context, record *secondary.OrderLogRecord) error {
	var actorID sql.NullInt64
	if record.ActorID != 0 {
		actorID = sql.NullInt64{Int64: record.ActorID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO order_logs (order_number, actor_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?)",
		record.OrderNumber, actorID, record.Action,
		nullString(record.FieldName), nullString(record.OldValue), nullString(record.NewValue),
	)
	if err != nil {
		return translateError(err, "create order log", conflictTarget{})
	}

	record.ID, _ = result.LastInsertId()
	return nil
}

// ListByOrder retrieves entries for an order number, oldest first.
func (r *OrderLogRepository) ListByOrder(ctx context.Context, orderNumber string) ([]*secondary.OrderLogRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, order_number, actor_id, action, field_name, old_value, new_value, created_at FROM order_logs WHERE order_number = ? ORDER BY id",
		orderNumber,
	)
	if err != nil {
		return nil, translateError(err, "list order logs", conflictTarget{})
	}
	defer rows.Close()

	var logs []*secondary.OrderLogRecord
	for rows.Next() {
		var (
			actorID   sql.NullInt64
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			createdAt time.Time
		)
		record := &secondary.OrderLogRecord{}
		if err := rows.Scan(&record.ID, &record.OrderNumber, &actorID, &record.Action,
			&fieldName, &oldValue, &newValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan order log: %w", err)
		}
		record.ActorID = actorID.Int64
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		logs = append(logs, record)
	}

	return logs, rows.Err()
}

// Ensure OrderLogRepository implements the interface
var _ secondary.OrderLogRepository = (*OrderLogRepository)(nil)
