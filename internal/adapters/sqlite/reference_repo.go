package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/order"
	"github.com/example/ordens/internal/ports/secondary"
)

// upsertDescription returns the id of the row of table whose description is
// exactly description, inserting it when absent. Hits are not updated.
func upsertDescription(ctx context.Context, db Querier, table, entity, description string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE description = ?", description).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, translateError(err, "look up "+entity, conflictTarget{})
	}

	result, err := db.ExecContext(ctx, "INSERT INTO "+table+" (description) VALUES (?)", description)
	if err != nil {
		return 0, translateError(err, "create "+entity, conflictTarget{Entity: entity, Key: "description", Value: description})
	}
	return result.LastInsertId()
}

// MachineTypeRepository implements secondary.MachineTypeRepository with SQLite.
type MachineTypeRepository struct {
	db Querier
}

// NewMachineTypeRepository creates a new SQLite machine type repository.
func NewMachineTypeRepository(db Querier) *MachineTypeRepository {
	return &MachineTypeRepository{db: db}
}

// Upsert returns the id for description, inserting it when absent.
func (r *MachineTypeRepository) Upsert(ctx context.Context, description string) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		description = order.UnknownMachineType
	}
	return upsertDescription(ctx, r.db, "machine_types", "machine type", description)
}

// GetByDescription retrieves a machine type by exact description.
func (r *MachineTypeRepository) GetByDescription(ctx context.Context, description string) (*secondary.MachineTypeRecord, error) {
	description = strings.TrimSpace(description)
	record := &secondary.MachineTypeRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, description FROM machine_types WHERE description = ?", description,
	).Scan(&record.ID, &record.Description)
	if err == sql.ErrNoRows {
		return nil, &errs.NotFoundError{Entity: "machine type", Key: description}
	}
	if err != nil {
		return nil, translateError(err, "get machine type", conflictTarget{})
	}
	return record, nil
}

// List retrieves all machine types ordered by description.
func (r *MachineTypeRepository) List(ctx context.Context) ([]*secondary.MachineTypeRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, description FROM machine_types ORDER BY description")
	if err != nil {
		return nil, translateError(err, "list machine types", conflictTarget{})
	}
	defer rows.Close()

	var types []*secondary.MachineTypeRecord
	for rows.Next() {
		record := &secondary.MachineTypeRecord{}
		if err := rows.Scan(&record.ID, &record.Description); err != nil {
			return nil, fmt.Errorf("failed to scan machine type: %w", err)
		}
		types = append(types, record)
	}
	return types, rows.Err()
}

// StatusRepository implements secondary.StatusRepository with SQLite.
type StatusRepository struct {
	db Querier
}

// NewStatusRepository creates a new SQLite status repository.
func NewStatusRepository(db Querier) *StatusRepository {
	return &StatusRepository{db: db}
}

// Upsert returns the id for description, inserting it when absent.
// Any distinct spelling creates its own row.
func (r *StatusRepository) Upsert(ctx context.Context, description string) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		description = order.UnknownStatus
	}
	return upsertDescription(ctx, r.db, "statuses", "status", description)
}

// List retrieves all statuses ordered by description.
func (r *StatusRepository) List(ctx context.Context) ([]*secondary.StatusRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, description FROM statuses ORDER BY description")
	if err != nil {
		return nil, translateError(err, "list statuses", conflictTarget{})
	}
	defer rows.Close()

	var statuses []*secondary.StatusRecord
	for rows.Next() {
		record := &secondary.StatusRecord{}
		if err := rows.Scan(&record.ID, &record.Description); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, record)
	}
	return statuses, rows.Err()
}

// ModelRepository implements secondary.ModelRepository with SQLite.
type ModelRepository struct {
	db Querier
}

// NewModelRepository creates a new SQLite model repository.
func NewModelRepository(db Querier) *ModelRepository {
	return &ModelRepository{db: db}
}

// Upsert resolves a model by (name, machineTypeID). A hit has its chassis
// id overwritten; a miss is inserted.
func (r *ModelRepository) Upsert(ctx context.Context, name, chassisID string, machineTypeID int64) (int64, error) {
	name = strings.TrimSpace(name)
	chassisID = strings.TrimSpace(chassisID)
	if name == "" {
		return 0, &errs.ValidationError{Entity: "model", Field: "name"}
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM models WHERE name = ? AND machine_type_id = ?", name, machineTypeID,
	).Scan(&id)
	if err == nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE models SET chassis_id = ? WHERE id = ?", nullString(chassisID), id); err != nil {
			return 0, translateError(err, "update model", conflictTarget{Entity: "model", ID: id})
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, translateError(err, "look up model", conflictTarget{})
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO models (name, chassis_id, machine_type_id) VALUES (?, ?, ?)",
		name, nullString(chassisID), machineTypeID,
	)
	if isForeignKeyViolation(err) {
		return 0, &errs.NotFoundError{Entity: "machine type", Key: fmt.Sprintf("%d", machineTypeID)}
	}
	if err != nil {
		return 0, translateError(err, "create model", conflictTarget{Entity: "model", Key: "name", Value: name})
	}
	return result.LastInsertId()
}

// GetByID retrieves a model by its ID.
func (r *ModelRepository) GetByID(ctx context.Context, id int64) (*secondary.ModelRecord, error) {
	var chassis sql.NullString
	record := &secondary.ModelRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT m.id, m.name, m.chassis_id, m.machine_type_id, t.description
		FROM models m JOIN machine_types t ON t.id = m.machine_type_id
		WHERE m.id = ?`, id,
	).Scan(&record.ID, &record.Name, &chassis, &record.MachineTypeID, &record.MachineType)
	if err == sql.ErrNoRows {
		return nil, &errs.NotFoundError{Entity: "model", Key: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, translateError(err, "get model", conflictTarget{})
	}
	record.ChassisID = chassis.String
	return record, nil
}

// List retrieves models matching the given filters, ordered by type and name.
func (r *ModelRepository) List(ctx context.Context, filters secondary.ModelFilters) ([]*secondary.ModelRecord, error) {
	query := `
		SELECT m.id, m.name, m.chassis_id, m.machine_type_id, t.description
		FROM models m JOIN machine_types t ON t.id = m.machine_type_id
		WHERE 1=1`
	args := []any{}

	if filters.MachineTypeID != 0 {
		query += " AND m.machine_type_id = ?"
		args = append(args, filters.MachineTypeID)
	}

	query += " ORDER BY t.description, m.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list models", conflictTarget{})
	}
	defer rows.Close()

	var models []*secondary.ModelRecord
	for rows.Next() {
		var chassis sql.NullString
		record := &secondary.ModelRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &chassis, &record.MachineTypeID, &record.MachineType); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		record.ChassisID = chassis.String
		models = append(models, record)
	}
	return models, rows.Err()
}

// Ensure the repositories implement their interfaces
var (
	_ secondary.MachineTypeRepository = (*MachineTypeRepository)(nil)
	_ secondary.StatusRepository      = (*StatusRepository)(nil)
	_ secondary.ModelRepository       = (*ModelRepository)(nil)
)
