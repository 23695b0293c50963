// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. Every setup function uses db.GetSchemaSQL() so tests run against the
// authoritative schema; do not write CREATE TABLE statements in test files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/ordens/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is capped at one connection so every query sees the same database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", db.DSN(db.MemoryPath, 1000))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func insertRow(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("seed failed (%s): %v", query, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("seed failed to read id: %v", err)
	}
	return id
}

// seedConsultant inserts a consultant and returns its ID.
func seedConsultant(t *testing.T, db *sql.DB, name, email, role string) int64 {
	t.Helper()
	if role == "" {
		role = "consultor"
	}
	return insertRow(t, db, "INSERT INTO consultants (name, email, password_hash, role) VALUES (?, ?, 'x', ?)", name, email, role)
}

// seedMachineType inserts a machine type and returns its ID.
func seedMachineType(t *testing.T, db *sql.DB, description string) int64 {
	t.Helper()
	return insertRow(t, db, "INSERT INTO machine_types (description) VALUES (?)", description)
}

// seedModel inserts a model and returns its ID.
func seedModel(t *testing.T, db *sql.DB, name, chassis string, machineTypeID int64) int64 {
	t.Helper()
	return insertRow(t, db, "INSERT INTO models (name, chassis_id, machine_type_id) VALUES (?, ?, ?)", name, chassis, machineTypeID)
}

// seedStatus inserts a status and returns its ID.
func seedStatus(t *testing.T, db *sql.DB, description string) int64 {
	t.Helper()
	return insertRow(t, db, "INSERT INTO statuses (description) VALUES (?)", description)
}

// seedClient inserts a client and returns its ID. A blank taxID stores NULL.
func seedClient(t *testing.T, db *sql.DB, name, taxID string) int64 {
	t.Helper()
	return insertRow(t, db, "INSERT INTO clients (name, tax_id) VALUES (?, NULLIF(?, ''))", name, taxID)
}

// orderFixture holds the reference rows one order needs.
type orderFixture struct {
	ClientID     int64
	ModelID      int64
	ConsultantID int64
	StatusID     int64
}

// seedOrderFixture inserts one row of each reference table.
func seedOrderFixture(t *testing.T, db *sql.DB) orderFixture {
	t.Helper()
	typeID := seedMachineType(t, db, "Trator")
	return orderFixture{
		ClientID:     seedClient(t, db, "Fazenda Boa Vista", "12.345.678/0001-90"),
		ModelID:      seedModel(t, db, "T7.245", "CH-1", typeID),
		ConsultantID: seedConsultant(t, db, "Carlos Souza", "carlos@oficina.com.br", ""),
		StatusID:     seedStatus(t, db, "Aberto"),
	}
}

// seedOrder inserts a service order and returns its ID. Blank billedDate
// leaves the order open.
func seedOrder(t *testing.T, db *sql.DB, f orderFixture, number, openedDate, billedDate string, amount float64) int64 {
	t.Helper()
	return insertRow(t, db, `
		INSERT INTO service_orders (order_number, order_type, client_id, model_id, consultant_id, status_id,
			service_description, opened_date, billed_date, net_amount)
		VALUES (?, 'Garantia', ?, ?, ?, ?, 'Revisão', ?, NULLIF(?, ''), ?)`,
		number, f.ClientID, f.ModelID, f.ConsultantID, f.StatusID, openedDate, billedDate, amount)
}
