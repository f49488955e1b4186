package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/finledger/internal/domain"
)

// transactionRepo implements domain.TransactionRepository using SQLite.
type transactionRepo struct {
	db *sql.DB
}

const transactionColumns = `t.id, t.bank_account_id, t.transaction_type, t.amount, t.transaction_date,
	t.description, t.category, t.receipt_path, t.created_at, t.created_by, t.updated_at, t.updated_by,
	t.is_deleted, t.deleted_at, t.deleted_by`

func (r *transactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (bank_account_id, transaction_type, amount, transaction_date,
		     description, category, receipt_path, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.BankAccountID, string(t.Type), t.Amount, t.Date.UTC(),
		t.Description, t.Category, t.ReceiptPath, now, t.Audit.CreatedBy,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: unknown bank account", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	t.ID = id
	t.Audit.CreatedAt = now
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions t WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListByAccount returns live transactions on an account. An empty txType
// means every type.
func (r *transactionRepo) ListByAccount(ctx context.Context, accountID int64, txType domain.TransactionType) ([]domain.Transaction, error) {
	return r.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions t
		 WHERE t.bank_account_id = ? AND t.is_deleted = 0 AND (? = '' OR t.transaction_type = ?)
		 ORDER BY t.transaction_date DESC, t.id DESC`,
		accountID, string(txType), string(txType))
}

func (r *transactionRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Transaction, error) {
	return r.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions t
		 JOIN bank_accounts a ON a.id = t.bank_account_id
		 WHERE a.user_id = ? AND t.is_deleted = 0
		 ORDER BY t.transaction_date DESC, t.id DESC`, ownerID)
}

func (r *transactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount = ?, transaction_date = ?, description = ?, category = ?, receipt_path = ?,
		     updated_at = ?, updated_by = ?
		 WHERE id = ?`,
		t.Amount, t.Date.UTC(), t.Description, t.Category, t.ReceiptPath, now, t.Audit.UpdatedBy, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if err := rowsAffectedOrNotFound(res); err != nil {
		return err
	}
	t.Audit.UpdatedAt = &now
	return nil
}

func (r *transactionRepo) SoftDelete(ctx context.Context, id int64, by string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET is_deleted = 1, deleted_at = ?, deleted_by = ? WHERE id = ? AND is_deleted = 0`,
		time.Now().UTC(), by, id,
	)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *transactionRepo) query(ctx context.Context, q string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var txType string
	var updatedAt, deletedAt sql.NullTime
	err := s.Scan(&t.ID, &t.BankAccountID, &txType, &t.Amount, &t.Date,
		&t.Description, &t.Category, &t.ReceiptPath, &t.Audit.CreatedAt, &t.Audit.CreatedBy,
		&updatedAt, &t.Audit.UpdatedBy, &t.Audit.Deleted, &deletedAt, &t.Audit.DeletedBy)
	if err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(txType)
	t.Audit.UpdatedAt = nullTime(updatedAt)
	t.Audit.DeletedAt = nullTime(deletedAt)
	return t, nil
}
