package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/finledger/internal/domain"
)

// accountRepo implements domain.BankAccountRepository using SQLite.
type accountRepo struct {
	db *sql.DB
}

const accountColumns = `id, account_number, description, balance, account_type, bank_id, user_id,
	created_at, created_by, updated_at, updated_by, is_deleted, deleted_at, deleted_by`

func (r *accountRepo) Create(ctx context.Context, a *domain.BankAccount) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO bank_accounts (account_number, description, balance, account_type, bank_id, user_id, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AccountNumber, a.Description, a.Balance, string(a.AccountType), a.BankID, a.OwnerID, now, a.Audit.CreatedBy,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: account number %q", domain.ErrAlreadyExists, a.AccountNumber)
		}
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: unknown bank or owner", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert bank account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	a.Audit.CreatedAt = now
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*domain.BankAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

func (r *accountRepo) List(ctx context.Context) ([]domain.BankAccount, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE is_deleted = 0 ORDER BY id`)
}

func (r *accountRepo) ListByBank(ctx context.Context, bankID int64) ([]domain.BankAccount, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE is_deleted = 0 AND bank_id = ? ORDER BY id`, bankID)
}

func (r *accountRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.BankAccount, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE is_deleted = 0 AND user_id = ? ORDER BY id`, ownerID)
}

func (r *accountRepo) Update(ctx context.Context, a *domain.BankAccount) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts
		 SET account_number = ?, description = ?, balance = ?, account_type = ?, bank_id = ?, user_id = ?,
		     updated_at = ?, updated_by = ?
		 WHERE id = ?`,
		a.AccountNumber, a.Description, a.Balance, string(a.AccountType), a.BankID, a.OwnerID,
		now, a.Audit.UpdatedBy, a.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: account number %q", domain.ErrAlreadyExists, a.AccountNumber)
		}
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: unknown bank or owner", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update bank account: %w", err)
	}
	if err := rowsAffectedOrNotFound(res); err != nil {
		return err
	}
	a.Audit.UpdatedAt = &now
	return nil
}

func (r *accountRepo) SoftDelete(ctx context.Context, id int64, by string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts SET is_deleted = 1, deleted_at = ?, deleted_by = ? WHERE id = ? AND is_deleted = 0`,
		time.Now().UTC(), by, id,
	)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *accountRepo) Restore(ctx context.Context, id int64, by string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts SET is_deleted = 0, deleted_at = NULL, deleted_by = '', updated_at = ?, updated_by = ?
		 WHERE id = ? AND is_deleted = 1`,
		time.Now().UTC(), by, id,
	)
	if err != nil {
		return fmt.Errorf("restore bank account: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *accountRepo) query(ctx context.Context, q string, args ...any) ([]domain.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func scanAccount(s scanner) (*domain.BankAccount, error) {
	a := &domain.BankAccount{}
	var accountType string
	var updatedAt, deletedAt sql.NullTime
	err := s.Scan(&a.ID, &a.AccountNumber, &a.Description, &a.Balance, &accountType, &a.BankID, &a.OwnerID,
		&a.Audit.CreatedAt, &a.Audit.CreatedBy, &updatedAt, &a.Audit.UpdatedBy,
		&a.Audit.Deleted, &deletedAt, &a.Audit.DeletedBy)
	if err != nil {
		return nil, err
	}
	a.AccountType = domain.AccountType(accountType)
	a.Audit.UpdatedAt = nullTime(updatedAt)
	a.Audit.DeletedAt = nullTime(deletedAt)
	return a, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
