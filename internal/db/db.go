// Package db opens the SQLite database and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DSN builds the go-sqlite3 data source name for path. Foreign keys are
// enforced on every connection. Transactions take the write lock at BEGIN;
// a blocked writer waits busyTimeoutMS before failing with SQLITE_BUSY.
func DSN(path string, busyTimeoutMS int) string {
	return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d&_txlock=immediate", path, busyTimeoutMS)
}

// Open opens the database at path, creating its directory if needed, and
// initialises the schema. The pool holds a single connection: SQLite has one
// writer, and an in-memory database exists only on its own connection.
func Open(path string, busyTimeoutMS int) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", DSN(path, busyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
