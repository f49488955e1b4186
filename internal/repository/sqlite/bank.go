package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/finledger/internal/domain"
)

// bankRepo implements domain.BankRepository using SQLite.
type bankRepo struct {
	db *sql.DB
}

func (r *bankRepo) Create(ctx context.Context, bank *domain.Bank) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO banks (name, country, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		bank.Name, bank.Country, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: bank %q", domain.ErrAlreadyExists, bank.Name)
		}
		return fmt.Errorf("insert bank: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	bank.ID = id
	bank.CreatedAt = now
	bank.UpdatedAt = now
	return nil
}

func (r *bankRepo) GetByID(ctx context.Context, id int64) (*domain.Bank, error) {
	b := &domain.Bank{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, country, is_deleted, created_at, updated_at FROM banks WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.Country, &b.Deleted, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get bank: %w", err)
	}
	return b, nil
}

// List returns banks that have not been soft-deleted.
func (r *bankRepo) List(ctx context.Context) ([]domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, country, is_deleted, created_at, updated_at
		 FROM banks WHERE is_deleted = 0 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var banks []domain.Bank
	for rows.Next() {
		var b domain.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.Country, &b.Deleted, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

func (r *bankRepo) Update(ctx context.Context, bank *domain.Bank) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE banks SET name = ?, country = ?, updated_at = ? WHERE id = ?`,
		bank.Name, bank.Country, now, bank.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: bank %q", domain.ErrAlreadyExists, bank.Name)
		}
		return fmt.Errorf("update bank: %w", err)
	}
	if err := rowsAffectedOrNotFound(res); err != nil {
		return err
	}
	bank.UpdatedAt = now
	return nil
}

func (r *bankRepo) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE banks SET is_deleted = ?, updated_at = ? WHERE id = ?`,
		deleted, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set bank deleted: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
