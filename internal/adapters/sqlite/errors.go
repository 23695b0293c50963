// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/ordens/internal/core/errs"
)

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn, so a repository
// runs unchanged inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conflictTarget names the natural key involved in a failed statement.
type conflictTarget struct {
	Entity string
	Key    string
	Value  string
	ID     int64
}

// translateError maps go-sqlite3 failures onto the typed errors in errs.
// Anything unrecognised is wrapped as "failed to <op>".
func translateError(err error, op string, target conflictTarget) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &errs.TransientStorageError{Op: op, Err: err}
		case sqlite3.ErrConstraint:
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return &errs.UniquenessConflict{Entity: target.Entity, Key: target.Key, Value: target.Value, Err: err}
			case sqlite3.ErrConstraintForeignKey:
				return &errs.ReferentialIntegrityViolation{Entity: target.Entity, ID: target.ID, References: -1, Err: err}
			}
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

// isForeignKeyViolation reports whether err is an FK constraint failure.
// On INSERT or UPDATE it means a referenced parent row is missing.
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
