package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/finledger/internal/domain"
)

// incomeRepo implements domain.FixedIncomeRepository using SQLite.
type incomeRepo struct {
	db *sql.DB
}

func (r *incomeRepo) Create(ctx context.Context, in *domain.FixedIncome) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO fixed_incomes (user_id, amount, source, income_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.Amount, in.Source, in.IncomeDate.UTC(), now,
	)
	if err != nil {
		return fmt.Errorf("insert fixed income: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	in.ID = id
	in.CreatedAt = now
	return nil
}

func (r *incomeRepo) GetByID(ctx context.Context, id int64) (*domain.FixedIncome, error) {
	in := &domain.FixedIncome{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, source, income_date, created_at FROM fixed_incomes WHERE id = ?`, id,
	).Scan(&in.ID, &in.UserID, &in.Amount, &in.Source, &in.IncomeDate, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get fixed income: %w", err)
	}
	return in, nil
}

func (r *incomeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.FixedIncome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, source, income_date, created_at
		 FROM fixed_incomes WHERE user_id = ? ORDER BY income_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list fixed incomes: %w", err)
	}
	defer rows.Close()

	var incomes []domain.FixedIncome
	for rows.Next() {
		var in domain.FixedIncome
		if err := rows.Scan(&in.ID, &in.UserID, &in.Amount, &in.Source, &in.IncomeDate, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fixed income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

func (r *incomeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fixed income: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}

// expenseRepo implements domain.FixedExpenseRepository using SQLite.
type expenseRepo struct {
	db *sql.DB
}

func (r *expenseRepo) Create(ctx context.Context, ex *domain.FixedExpense) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO fixed_expenses (user_id, amount, category, expense_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		ex.UserID, ex.Amount, ex.Category, ex.ExpenseDate.UTC(), now,
	)
	if err != nil {
		return fmt.Errorf("insert fixed expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	ex.ID = id
	ex.CreatedAt = now
	return nil
}

func (r *expenseRepo) GetByID(ctx context.Context, id int64) (*domain.FixedExpense, error) {
	ex := &domain.FixedExpense{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount, category, expense_date, created_at FROM fixed_expenses WHERE id = ?`, id,
	).Scan(&ex.ID, &ex.UserID, &ex.Amount, &ex.Category, &ex.ExpenseDate, &ex.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get fixed expense: %w", err)
	}
	return ex, nil
}

func (r *expenseRepo) ListByUser(ctx context.Context, userID int64) ([]domain.FixedExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount, category, expense_date, created_at
		 FROM fixed_expenses WHERE user_id = ? ORDER BY expense_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.FixedExpense
	for rows.Next() {
		var ex domain.FixedExpense
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Amount, &ex.Category, &ex.ExpenseDate, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fixed expense: %w", err)
		}
		expenses = append(expenses, ex)
	}
	return expenses, rows.Err()
}

func (r *expenseRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fixed expense: %w", err)
	}
	return rowsAffectedOrNotFound(res)
}
