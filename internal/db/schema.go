package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs. It reflects the state
// after all migrations; tests build their databases from GetSchemaSQL so
// repository code that drifts from it fails with "no such column".
//
// When adding a column or table:
//  1. Add a migration to migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	tax_id TEXT UNIQUE,
	phone TEXT
);

CREATE INDEX IF NOT EXISTS idx_clients_name ON clients(name);

CREATE TABLE IF NOT EXISTS consultants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('consultor', 'supervisor')) DEFAULT 'consultor'
);

CREATE TABLE IF NOT EXISTS machine_types (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS models (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	chassis_id TEXT,
	machine_type_id INTEGER NOT NULL,
	UNIQUE (name, machine_type_id),
	FOREIGN KEY (machine_type_id) REFERENCES machine_types(id)
);

CREATE TABLE IF NOT EXISTS statuses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS service_orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL UNIQUE,
	order_type TEXT NOT NULL CHECK(order_type IN ('Garantia', 'Cliente')) DEFAULT 'Garantia',
	client_id INTEGER NOT NULL,
	model_id INTEGER NOT NULL,
	consultant_id INTEGER NOT NULL,
	status_id INTEGER NOT NULL,
	service_description TEXT,
	opened_date TEXT NOT NULL,
	net_amount REAL,
	billed_date TEXT,
	factory_payment_date TEXT,
	FOREIGN KEY (client_id) REFERENCES clients(id),
	FOREIGN KEY (model_id) REFERENCES models(id),
	FOREIGN KEY (consultant_id) REFERENCES consultants(id),
	FOREIGN KEY (status_id) REFERENCES statuses(id)
);

CREATE INDEX IF NOT EXISTS idx_service_orders_billed ON service_orders(billed_date);
CREATE INDEX IF NOT EXISTS idx_service_orders_consultant ON service_orders(consultant_id);

CREATE TABLE IF NOT EXISTS order_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL,
	actor_id INTEGER,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_order_logs_order ON order_logs(order_number);
`

// InitSchema brings db up to date. A database without schema_version gets
// SchemaSQL directly with every migration marked applied; otherwise pending
// migrations run.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to mark migration %d applied: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
