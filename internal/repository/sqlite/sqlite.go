package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/repository/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps the SQLite handle and hands out the per-table repositories.
type DB struct {
	SqlDB *sql.DB
}

var _ domain.Database = (*DB)(nil)

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite serializes writers; one connection keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending embedded migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Ping checks that the database still answers.
func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() *UserRepository                  { return NewUserRepository(db) }
func (db *DB) Banks() domain.BankRepository            { return &bankRepo{db: db.SqlDB} }
func (db *DB) Accounts() domain.BankAccountRepository  { return &accountRepo{db: db.SqlDB} }
func (db *DB) Incomes() domain.FixedIncomeRepository   { return &incomeRepo{db: db.SqlDB} }
func (db *DB) Expenses() domain.FixedExpenseRepository { return &expenseRepo{db: db.SqlDB} }
func (db *DB) Transactions() domain.TransactionRepository {
	return &transactionRepo{db: db.SqlDB}
}
func (db *DB) Ownership() domain.OwnershipLookup { return &ownershipLookup{db: db.SqlDB} }

// isUniqueConstraintError reports whether err is a SQLite UNIQUE violation.
func isUniqueConstraintError(err error) bool {
	var se *msqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// isForeignKeyError reports whether err is a SQLite FOREIGN KEY violation.
func isForeignKeyError(err error) bool {
	var se *msqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// rowsAffectedOrNotFound turns a zero-row update into domain.ErrNotFound.
func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
