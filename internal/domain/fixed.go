package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FixedIncome is a recurring income entry that belongs to one user.
type FixedIncome struct {
	ID         int64
	UserID     int64
	Amount     decimal.Decimal
	Source     string
	IncomeDate time.Time
	CreatedAt  time.Time
}

// FixedExpense is a recurring expense entry that belongs to one user.
type FixedExpense struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Category    string
	ExpenseDate time.Time
	CreatedAt   time.Time
}

type FixedIncomeRepository interface {
	Create(ctx context.Context, income *FixedIncome) error
	GetByID(ctx context.Context, id int64) (*FixedIncome, error)
	ListByUser(ctx context.Context, userID int64) ([]FixedIncome, error)
	Delete(ctx context.Context, id int64) error
}

type FixedExpenseRepository interface {
	Create(ctx context.Context, expense *FixedExpense) error
	GetByID(ctx context.Context, id int64) (*FixedExpense, error)
	ListByUser(ctx context.Context, userID int64) ([]FixedExpense, error)
	Delete(ctx context.Context, id int64) error
}
