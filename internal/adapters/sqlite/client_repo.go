package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/placeholder"
	"github.com/example/ordens/internal/ports/secondary"
)

// ClientRepository implements secondary.ClientRepository with SQLite.
type ClientRepository struct {
	db   Querier
	keys placeholder.KeyGenerator
}

// NewClientRepository creates a new SQLite client repository.
// keys produces the tax id placeholder for clients registered without one.
func NewClientRepository(db Querier, keys placeholder.KeyGenerator) *ClientRepository {
	return &ClientRepository{db: db, keys: keys}
}

// Upsert resolves a client by natural key and returns its id.
//
// A blank taxID first looks for a client with exactly this name and no real
// tax id; a hit is updated in place. Otherwise a placeholder tax id is
// generated. The tax id (given or generated) is then looked up: a hit gets
// name and phone updated, a miss is inserted.
func (r *ClientRepository) Upsert(ctx context.Context, name, taxID, phone string) (int64, error) {
	name = strings.TrimSpace(name)
	taxID = strings.TrimSpace(taxID)
	phone = strings.TrimSpace(phone)

	if name == "" {
		return 0, &errs.ValidationError{Entity: "client", Field: "name"}
	}

	if taxID == "" {
		ids, err := r.FindWithoutTaxID(ctx, name)
		if err != nil {
			return 0, err
		}
		if len(ids) > 0 {
			if err := r.updateContact(ctx, ids[0], name, phone); err != nil {
				return 0, err
			}
			return ids[0], nil
		}
		taxID = r.keys.Generate(placeholder.ClientTaxID, name)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM clients WHERE tax_id = ?", taxID).Scan(&id)
	if err == nil {
		if err := r.updateContact(ctx, id, name, phone); err != nil {
			return 0, err
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, translateError(err, "look up client", conflictTarget{})
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (name, tax_id, phone) VALUES (?, ?, ?)",
		name, taxID, nullString(phone),
	)
	if err != nil {
		return 0, translateError(err, "create client", conflictTarget{Entity: "client", Key: "tax_id", Value: taxID})
	}

	return result.LastInsertId()
}

func (r *ClientRepository) updateContact(ctx context.Context, id int64, name, phone string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, phone = ? WHERE id = ?",
		name, nullString(phone), id,
	)
	return translateError(err, "update client", conflictTarget{Entity: "client", ID: id})
}

// FindWithoutTaxID returns ids of clients named exactly name whose tax id is
// NULL or a placeholder, oldest first.
func (r *ClientRepository) FindWithoutTaxID(ctx context.Context, name string) ([]int64, error) {
	prefix := placeholder.ClientTaxID
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM clients WHERE name = ? AND (tax_id IS NULL OR substr(tax_id, 1, ?) = ?) ORDER BY id",
		strings.TrimSpace(name), len(prefix), prefix,
	)
	if err != nil {
		return nil, translateError(err, "find clients without tax id", conflictTarget{})
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetByID retrieves a client by its ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*secondary.ClientRecord, error) {
	var taxID, phone sql.NullString
	record := &secondary.ClientRecord{}

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, tax_id, phone FROM clients WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &taxID, &phone)
	if err == sql.ErrNoRows {
		return nil, &errs.NotFoundError{Entity: "client", Key: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, translateError(err, "get client", conflictTarget{})
	}

	record.TaxID = taxID.String
	record.Phone = phone.String
	return record, nil
}

// List retrieves clients matching the given filters, ordered by name.
func (r *ClientRepository) List(ctx context.Context, filters secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	query := "SELECT id, name, tax_id, phone FROM clients WHERE 1=1"
	args := []any{}

	if filters.NameContains != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+filters.NameContains+"%")
	}

	query += " ORDER BY name, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list clients", conflictTarget{})
	}
	defer rows.Close()

	var clients []*secondary.ClientRecord
	for rows.Next() {
		var taxID, phone sql.NullString
		record := &secondary.ClientRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &taxID, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		record.TaxID = taxID.String
		record.Phone = phone.String
		clients = append(clients, record)
	}

	return clients, rows.Err()
}

// Update overwrites name, tax id and phone.
func (r *ClientRepository) Update(ctx context.Context, client *secondary.ClientRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, tax_id = ?, phone = ? WHERE id = ?",
		client.Name, nullString(client.TaxID), nullString(client.Phone), client.ID,
	)
	if err != nil {
		return translateError(err, "update client", conflictTarget{Entity: "client", Key: "tax_id", Value: client.TaxID})
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &errs.NotFoundError{Entity: "client", Key: fmt.Sprintf("%d", client.ID)}
	}

	return nil
}

// CountOrders returns the number of service orders referencing the client.
func (r *ClientRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM service_orders WHERE client_id = ?", id).Scan(&count)
	if err != nil {
		return 0, translateError(err, "count client orders", conflictTarget{})
	}
	return count, nil
}

// Ensure ClientRepository implements the interface
var _ secondary.ClientRepository = (*ClientRepository)(nil)
