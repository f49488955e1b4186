package service

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/shopspring/decimal"
)

// FixedEntryService manages recurring incomes and expenses. Entries are
// always created for the caller and are private to their owner.
type FixedEntryService struct {
	incomes  domain.FixedIncomeRepository
	expenses domain.FixedExpenseRepository
	guard    *AccessGuard
}

// NewFixedEntryService creates a new FixedEntryService.
func NewFixedEntryService(incomes domain.FixedIncomeRepository, expenses domain.FixedExpenseRepository, guard *AccessGuard) *FixedEntryService {
	return &FixedEntryService{incomes: incomes, expenses: expenses, guard: guard}
}

func (s *FixedEntryService) CreateIncome(ctx context.Context, p domain.Principal, in *domain.FixedIncome) error {
	caller, err := s.guard.Caller(ctx, p)
	if err != nil {
		return err
	}
	if err := validateEntry(in.Amount, &in.Source, &in.IncomeDate); err != nil {
		return err
	}
	in.UserID = caller.ID
	if err := s.incomes.Create(ctx, in); err != nil {
		return fmt.Errorf("create fixed income: %w", err)
	}
	return nil
}

func (s *FixedEntryService) ListIncomes(ctx context.Context, p domain.Principal) ([]domain.FixedIncome, error) {
	caller, err := s.guard.Caller(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.incomes.ListByUser(ctx, caller.ID)
}

func (s *FixedEntryService) GetIncome(ctx context.Context, p domain.Principal, id int64) (*domain.FixedIncome, error) {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceFixedIncome, id); err != nil {
		return nil, err
	}
	return s.incomes.GetByID(ctx, id)
}

func (s *FixedEntryService) DeleteIncome(ctx context.Context, p domain.Principal, id int64) error {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceFixedIncome, id); err != nil {
		return err
	}
	return s.incomes.Delete(ctx, id)
}

func (s *FixedEntryService) CreateExpense(ctx context.Context, p domain.Principal, ex *domain.FixedExpense) error {
	caller, err := s.guard.Caller(ctx, p)
	if err != nil {
		return err
	}
	if err := validateEntry(ex.Amount, &ex.Category, &ex.ExpenseDate); err != nil {
		return err
	}
	ex.UserID = caller.ID
	if err := s.expenses.Create(ctx, ex); err != nil {
		return fmt.Errorf("create fixed expense: %w", err)
	}
	return nil
}

func (s *FixedEntryService) ListExpenses(ctx context.Context, p domain.Principal) ([]domain.FixedExpense, error) {
	caller, err := s.guard.Caller(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.expenses.ListByUser(ctx, caller.ID)
}

func (s *FixedEntryService) GetExpense(ctx context.Context, p domain.Principal, id int64) (*domain.FixedExpense, error) {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceFixedExpense, id); err != nil {
		return nil, err
	}
	return s.expenses.GetByID(ctx, id)
}

func (s *FixedEntryService) DeleteExpense(ctx context.Context, p domain.Principal, id int64) error {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceFixedExpense, id); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, id)
}

// validateEntry checks the fields shared by incomes and expenses and
// defaults a zero date to now.
func validateEntry(amount decimal.Decimal, label *string, date *time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidInput)
	}
	if err := validation.Validate(*label, validation.Required, validation.Length(1, 100)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if date.IsZero() {
		*date = time.Now().UTC()
	}
	return nil
}
