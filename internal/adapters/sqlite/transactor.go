package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/core/placeholder"
	"github.com/example/ordens/internal/ports/secondary"
)

// Transactor implements secondary.Transactor over a *sql.DB.
type Transactor struct {
	db     *sql.DB
	keys   placeholder.KeyGenerator
	logger zerolog.Logger
}

// NewTransactor creates a Transactor. keys is handed to the client
// repository of every transaction.
func NewTransactor(db *sql.DB, keys placeholder.KeyGenerator, logger zerolog.Logger) *Transactor {
	return &Transactor{db: db, keys: keys, logger: logger}
}

// WithinTx begins a transaction, runs fn with repositories bound to it, and
// commits when fn returns nil. Any error or panic from fn rolls back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store secondary.Store) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return t.surface(translateError(err, "begin transaction", conflictTarget{}))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			t.logger.Error().Err(rbErr).Msg("rollback failed")
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(ctx, newTxStore(tx, t.keys)); err != nil {
		return t.surface(err)
	}

	if err := tx.Commit(); err != nil {
		return t.surface(translateError(err, "commit transaction", conflictTarget{}))
	}
	committed = true

	return nil
}

func (t *Transactor) surface(err error) error {
	if errs.IsRetryable(err) {
		t.logger.Warn().Err(err).Msg("transient storage error")
	}
	return err
}

// txStore binds every repository to one *sql.Tx.
type txStore struct {
	clients      *ClientRepository
	consultants  *ConsultantRepository
	machineTypes *MachineTypeRepository
	models       *ModelRepository
	statuses     *StatusRepository
	orders       *ServiceOrderRepository
	logs         *LogWriterAdapter
}

func newTxStore(tx *sql.Tx, keys placeholder.KeyGenerator) *txStore {
	return &txStore{
		clients:      NewClientRepository(tx, keys),
		consultants:  NewConsultantRepository(tx),
		machineTypes: NewMachineTypeRepository(tx),
		models:       NewModelRepository(tx),
		statuses:     NewStatusRepository(tx),
		orders:       NewServiceOrderRepository(tx),
		logs:         NewLogWriterAdapter(NewOrderLogRepository(tx)),
	}
}

func (s *txStore) Clients() secondary.ClientRepository           { return s.clients }
func (s *txStore) Consultants() secondary.ConsultantRepository   { return s.consultants }
func (s *txStore) MachineTypes() secondary.MachineTypeRepository { return s.machineTypes }
func (s *txStore) Models() secondary.ModelRepository             { return s.models }
func (s *txStore) Statuses() secondary.StatusRepository          { return s.statuses }
func (s *txStore) Orders() secondary.ServiceOrderRepository      { return s.orders }
func (s *txStore) Logs() secondary.LogWriter                     { return s.logs }

// RecordDeleter implements secondary.RecordDeleter.
type RecordDeleter struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRecordDeleter creates a RecordDeleter.
func NewRecordDeleter(db *sql.DB, logger zerolog.Logger) *RecordDeleter {
	return &RecordDeleter{db: db, logger: logger}
}

var deletableTables = map[secondary.Table]string{
	secondary.TableClients:       "client",
	secondary.TableConsultants:   "consultant",
	secondary.TableMachineTypes:  "machine type",
	secondary.TableModels:        "model",
	secondary.TableStatuses:      "status",
	secondary.TableServiceOrders: "service order",
}

// DeleteRecord enables foreign-key enforcement on a dedicated connection,
// deletes the row in its own transaction and commits. Failures roll back and
// report false with the classified error.
func (d *RecordDeleter) DeleteRecord(ctx context.Context, table secondary.Table, id int64) (bool, error) {
	entity, ok := deletableTables[table]
	if !ok {
		return false, fmt.Errorf("failed to delete: unknown table %q", table)
	}

	conn, err := d.db.Conn(ctx)
	if err != nil {
		return false, translateError(err, "acquire connection", conflictTarget{})
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return false, translateError(err, "enable foreign keys", conflictTarget{})
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return false, translateError(err, "begin transaction", conflictTarget{})
	}

	fail := func(err error) (bool, error) {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			d.logger.Error().Err(rbErr).Msg("rollback failed")
		}
		d.logger.Warn().Err(err).Str("table", string(table)).Int64("id", id).Msg("delete refused")
		return false, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM "+string(table)+" WHERE id = ?", id)
	if err != nil {
		return fail(translateError(err, "delete "+entity, conflictTarget{Entity: entity, ID: id}))
	}
	if err := expectOneRow(result, entity, id); err != nil {
		return fail(err)
	}

	if err := tx.Commit(); err != nil {
		return fail(translateError(err, "commit delete", conflictTarget{Entity: entity, ID: id}))
	}

	return true, nil
}

// Ensure the adapters implement their interfaces
var (
	_ secondary.Transactor    = (*Transactor)(nil)
	_ secondary.Store         = (*txStore)(nil)
	_ secondary.RecordDeleter = (*RecordDeleter)(nil)
)
