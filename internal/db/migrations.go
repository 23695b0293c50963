package db

import (
	"database/sql"
	"fmt"

	"github.com/example/ordens/internal/logger"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_reference_and_order_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_order_logs",
		Up:      migrationV2,
	},
}

// CurrentVersion returns the highest known migration version.
func CurrentVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	var currentVersion int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	log := logger.Get()
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("running migration")

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the reference tables and service_orders.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// migrationV2 adds the order audit log.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	if err != nil {
		return fmt.Errorf("failed to create order_logs: %w", err)
	}
	return nil
}
