package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx so that repositories can join a caller's transaction.
	DBExecutor interface {
		DriverName() string
		Rebind(query string) string
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

var (
	_ DB           = (*sqlx.DB)(nil)
	_ DBTransactor = (*sqlx.Tx)(nil)
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// TxManager is the transaction boundary of every multi-step write.
// The function passed to WithinTx either commits as a whole or leaves nothing behind.
type TxManager struct {
	db     DB
	logger *zap.Logger
}

func NewTxManager(db DB, logger *zap.Logger) *TxManager {
	return &TxManager{db: db, logger: logger}
}

// DB returns the underlying connection pool, for reads outside of a transaction.
func (m *TxManager) DB() DBExecutor { return m.db }

// WithinTx runs fn inside a new transaction.
// When exec is provided, fn joins that executor instead and the caller owns commit/rollback.
func (m *TxManager) WithinTx(ctx context.Context, fn func(tx DBExecutor) error, exec ...DBExecutor) (err error) {
	if len(exec) > 0 && exec[0] != nil {
		return fn(exec[0])
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStorageError(err, "beginning transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(tx)
			panic(p)
		}
		if err != nil {
			m.rollback(tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return NewStorageError(err, "committing transaction")
	}
	return nil
}

func (m *TxManager) rollback(tx DBTransactor) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		m.logger.Warn("rolling back transaction", zap.Error(err))
	}
}
