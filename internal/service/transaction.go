package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionService manages account movements. A transaction is owned by
// the owner of its bank account.
type TransactionService struct {
	txs      domain.TransactionRepository
	accounts domain.BankAccountRepository
	guard    *AccessGuard
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txs domain.TransactionRepository, accounts domain.BankAccountRepository, guard *AccessGuard) *TransactionService {
	return &TransactionService{txs: txs, accounts: accounts, guard: guard}
}

// TransactionPatch carries a partial update; nil fields are left unchanged.
// Type and account are fixed at creation.
type TransactionPatch struct {
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
	Category    *string
	ReceiptPath *string
}

// Create records a movement on an account the caller owns (any account for
// an ADMIN).
func (s *TransactionService) Create(ctx context.Context, p domain.Principal, t *domain.Transaction) error {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceBankAccount, t.BankAccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: bank account %d does not exist", domain.ErrInvalidInput, t.BankAccountID)
		}
		return err
	}
	account, err := s.accounts.GetByID(ctx, t.BankAccountID)
	if err != nil {
		return err
	}
	if account.Audit.Deleted {
		return fmt.Errorf("%w: bank account %d is deleted", domain.ErrInvalidInput, t.BankAccountID)
	}

	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	if err := validateTransaction(t); err != nil {
		return err
	}

	t.Audit = domain.Audit{CreatedBy: p.Email}
	if err := s.txs.Create(ctx, t); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Transaction, error) {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceTransaction, id); err != nil {
		return nil, err
	}
	t, err := s.txs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Audit.Deleted {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// ListByAccount lists live movements on an account, optionally filtered by
// type.
func (s *TransactionService) ListByAccount(ctx context.Context, p domain.Principal, accountID int64, txType domain.TransactionType) ([]domain.Transaction, error) {
	if txType != "" && !txType.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidInput, txType)
	}
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceBankAccount, accountID); err != nil {
		return nil, err
	}
	return s.txs.ListByAccount(ctx, accountID, txType)
}

// ListByUser lists every live movement across userID's accounts.
func (s *TransactionService) ListByUser(ctx context.Context, p domain.Principal, userID int64) ([]domain.Transaction, error) {
	if err := s.guard.RequireSelf(ctx, p, userID); err != nil {
		return nil, err
	}
	return s.txs.ListByOwner(ctx, userID)
}

func (s *TransactionService) Update(ctx context.Context, p domain.Principal, id int64, patch TransactionPatch) (*domain.Transaction, error) {
	t, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.ReceiptPath != nil {
		t.ReceiptPath = *patch.ReceiptPath
	}
	if err := validateTransaction(t); err != nil {
		return nil, err
	}

	t.Audit.UpdatedBy = p.Email
	if err := s.txs.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	return s.txs.SoftDelete(ctx, id, p.Email)
}

func validateTransaction(t *domain.Transaction) error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", domain.ErrInvalidInput)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidInput)
	}
	err := validation.ValidateStruct(t,
		validation.Field(&t.Description, validation.Length(0, 255)),
		validation.Field(&t.Category, validation.Length(0, 50)),
		validation.Field(&t.ReceiptPath, validation.Length(0, 255)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
