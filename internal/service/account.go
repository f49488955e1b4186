package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService manages bank accounts. Every read or write of a single
// account passes the ownership guard.
type AccountService struct {
	accounts domain.BankAccountRepository
	banks    domain.BankRepository
	guard    *AccessGuard
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts domain.BankAccountRepository, banks domain.BankRepository, guard *AccessGuard) *AccountService {
	return &AccountService{accounts: accounts, banks: banks, guard: guard}
}

// AccountPatch carries the fields of a partial account update; nil fields
// are left unchanged.
type AccountPatch struct {
	AccountNumber *string
	Description   *string
	Balance       *decimal.Decimal
	AccountType   *domain.AccountType
	BankID        *int64
	OwnerID       *int64
}

// Create opens an account. A USER always opens it for itself; an ADMIN may
// name any owner, defaulting to itself.
func (s *AccountService) Create(ctx context.Context, p domain.Principal, a *domain.BankAccount) error {
	caller, err := s.guard.Caller(ctx, p)
	if err != nil {
		return err
	}
	if a.OwnerID == 0 {
		a.OwnerID = caller.ID
	}
	if !p.IsAdmin() && a.OwnerID != caller.ID {
		return fmt.Errorf("%w: cannot open an account for another user", domain.ErrForbidden)
	}
	if err := s.validate(ctx, a); err != nil {
		return err
	}

	a.Audit = domain.Audit{CreatedBy: p.Email}
	if err := s.accounts.Create(ctx, a); err != nil {
		return fmt.Errorf("create bank account: %w", err)
	}
	return nil
}

// Get returns a live account owned by p (or any account for an ADMIN).
func (s *AccountService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.BankAccount, error) {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceBankAccount, id); err != nil {
		return nil, err
	}
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Audit.Deleted {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.BankAccount, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) ListByBank(ctx context.Context, bankID int64) ([]domain.BankAccount, error) {
	return s.accounts.ListByBank(ctx, bankID)
}

// ListByOwner lists ownerID's accounts; a USER may only list its own.
func (s *AccountService) ListByOwner(ctx context.Context, p domain.Principal, ownerID int64) ([]domain.BankAccount, error) {
	if err := s.guard.RequireSelf(ctx, p, ownerID); err != nil {
		return nil, err
	}
	return s.accounts.ListByOwner(ctx, ownerID)
}

// Update applies patch. Reassigning the owner is an ADMIN-only change.
func (s *AccountService) Update(ctx context.Context, p domain.Principal, id int64, patch AccountPatch) (*domain.BankAccount, error) {
	a, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if patch.OwnerID != nil && *patch.OwnerID != a.OwnerID {
		if !p.IsAdmin() {
			return nil, fmt.Errorf("%w: cannot transfer an account", domain.ErrForbidden)
		}
		a.OwnerID = *patch.OwnerID
	}
	if patch.AccountNumber != nil {
		a.AccountNumber = *patch.AccountNumber
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Balance != nil {
		a.Balance = *patch.Balance
	}
	if patch.AccountType != nil {
		a.AccountType = *patch.AccountType
	}
	if patch.BankID != nil {
		a.BankID = *patch.BankID
	}
	if err := s.validate(ctx, a); err != nil {
		return nil, err
	}

	a.Audit.UpdatedBy = p.Email
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update bank account: %w", err)
	}
	return a, nil
}

// Delete soft-deletes the account.
func (s *AccountService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if err := s.guard.RequireOwner(ctx, p, domain.ResourceBankAccount, id); err != nil {
		return err
	}
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Audit.Deleted {
		return domain.ErrAlreadyDeleted
	}
	return s.accounts.SoftDelete(ctx, id, p.Email)
}

// Restore undoes a soft delete. The route table limits it to ADMIN.
func (s *AccountService) Restore(ctx context.Context, p domain.Principal, id int64) error {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.Audit.Deleted {
		return domain.ErrNotDeleted
	}
	return s.accounts.Restore(ctx, id, p.Email)
}

func (s *AccountService) validate(ctx context.Context, a *domain.BankAccount) error {
	err := validation.ValidateStruct(a,
		validation.Field(&a.AccountNumber, validation.Required, validation.Length(4, 34)),
		validation.Field(&a.Description, validation.Length(0, 255)),
		validation.Field(&a.AccountType, validation.Required, validation.In(
			domain.AccountTypeSavings, domain.AccountTypeChecking, domain.AccountTypeCredit)),
		validation.Field(&a.BankID, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	bank, err := s.banks.GetByID(ctx, a.BankID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && bank.Deleted) {
		return fmt.Errorf("%w: bank %d does not exist", domain.ErrInvalidInput, a.BankID)
	}
	return err
}
