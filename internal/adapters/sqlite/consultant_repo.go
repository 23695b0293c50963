package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/ports/secondary"
)

// ConsultantRepository implements secondary.ConsultantRepository with SQLite.
type ConsultantRepository struct {
	db Querier
}

// NewConsultantRepository creates a new SQLite consultant repository.
func NewConsultantRepository(db Querier) *ConsultantRepository {
	return &ConsultantRepository{db: db}
}

const consultantColumns = "id, name, email, password_hash, role"

// Create persists a new consultant and returns its id.
func (r *ConsultantRepository) Create(ctx context.Context, consultant *secondary.ConsultantRecord) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO consultants (name, email, password_hash, role) VALUES (?, ?, ?, ?)",
		consultant.Name, consultant.Email, consultant.PasswordHash, consultant.Role,
	)
	if err != nil {
		return 0, translateError(err, "create consultant", conflictTarget{Entity: "consultant", Key: "email", Value: consultant.Email})
	}
	return result.LastInsertId()
}

// GetByID retrieves a consultant by its ID.
func (r *ConsultantRepository) GetByID(ctx context.Context, id int64) (*secondary.ConsultantRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+consultantColumns+" FROM consultants WHERE id = ?", id)
	return r.scanOne(row, fmt.Sprintf("%d", id))
}

// GetByEmail retrieves a consultant by email.
func (r *ConsultantRepository) GetByEmail(ctx context.Context, email string) (*secondary.ConsultantRecord, error) {
	email = strings.TrimSpace(email)
	row := r.db.QueryRowContext(ctx, "SELECT "+consultantColumns+" FROM consultants WHERE email = ?", email)
	return r.scanOne(row, email)
}

func (r *ConsultantRepository) scanOne(row *sql.Row, key string) (*secondary.ConsultantRecord, error) {
	record := &secondary.ConsultantRecord{}
	err := row.Scan(&record.ID, &record.Name, &record.Email, &record.PasswordHash, &record.Role)
	if err == sql.ErrNoRows {
		return nil, &errs.NotFoundError{Entity: "consultant", Key: key}
	}
	if err != nil {
		return nil, translateError(err, "get consultant", conflictTarget{})
	}
	return record, nil
}

// LookupIDByName returns the id of the consultant with exactly this name.
func (r *ConsultantRepository) LookupIDByName(ctx context.Context, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, nil
	}

	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM consultants WHERE name = ? ORDER BY id LIMIT 1", name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, translateError(err, "look up consultant", conflictTarget{})
	}

	return id, true, nil
}

// List retrieves all consultants ordered by name.
func (r *ConsultantRepository) List(ctx context.Context) ([]*secondary.ConsultantRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+consultantColumns+" FROM consultants ORDER BY name, id")
	if err != nil {
		return nil, translateError(err, "list consultants", conflictTarget{})
	}
	defer rows.Close()

	var consultants []*secondary.ConsultantRecord
	for rows.Next() {
		record := &secondary.ConsultantRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.Email, &record.PasswordHash, &record.Role); err != nil {
			return nil, fmt.Errorf("failed to scan consultant: %w", err)
		}
		consultants = append(consultants, record)
	}

	return consultants, rows.Err()
}

// Update overwrites name, email and password hash.
func (r *ConsultantRepository) Update(ctx context.Context, consultant *secondary.ConsultantRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE consultants SET name = ?, email = ?, password_hash = ? WHERE id = ?",
		consultant.Name, consultant.Email, consultant.PasswordHash, consultant.ID,
	)
	if err != nil {
		return translateError(err, "update consultant", conflictTarget{Entity: "consultant", Key: "email", Value: consultant.Email})
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &errs.NotFoundError{Entity: "consultant", Key: fmt.Sprintf("%d", consultant.ID)}
	}

	return nil
}

// Count returns the number of consultants.
func (r *ConsultantRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM consultants").Scan(&count); err != nil {
		return 0, translateError(err, "count consultants", conflictTarget{})
	}
	return count, nil
}

// CountOrders returns the number of service orders referencing the consultant.
func (r *ConsultantRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM service_orders WHERE consultant_id = ?", id).Scan(&count)
	if err != nil {
		return 0, translateError(err, "count consultant orders", conflictTarget{})
	}
	return count, nil
}

// Ensure ConsultantRepository implements the interface
var _ secondary.ConsultantRepository = (*ConsultantRepository)(nil)
