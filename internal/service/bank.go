package service

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/msomdec/finledger/internal/domain"
)

// BankService manages the shared bank catalogue. Banks have no owner, so
// only the route-level role gate applies.
type BankService struct {
	banks domain.BankRepository
}

// NewBankService creates a new BankService.
func NewBankService(banks domain.BankRepository) *BankService {
	return &BankService{banks: banks}
}

func (s *BankService) List(ctx context.Context) ([]domain.Bank, error) {
	return s.banks.List(ctx)
}

// Get returns a live bank; soft-deleted banks read as not found.
func (s *BankService) Get(ctx context.Context, id int64) (*domain.Bank, error) {
	b, err := s.banks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Deleted {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *BankService) Create(ctx context.Context, bank *domain.Bank) error {
	if err := validateBank(bank); err != nil {
		return err
	}
	if err := s.banks.Create(ctx, bank); err != nil {
		return fmt.Errorf("create bank: %w", err)
	}
	return nil
}

func (s *BankService) Update(ctx context.Context, bank *domain.Bank) error {
	if _, err := s.Get(ctx, bank.ID); err != nil {
		return err
	}
	if err := validateBank(bank); err != nil {
		return err
	}
	if err := s.banks.Update(ctx, bank); err != nil {
		return fmt.Errorf("update bank: %w", err)
	}
	return nil
}

func (s *BankService) Delete(ctx context.Context, id int64) error {
	b, err := s.banks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Deleted {
		return domain.ErrAlreadyDeleted
	}
	return s.banks.SetDeleted(ctx, id, true)
}

func (s *BankService) Restore(ctx context.Context, id int64) error {
	b, err := s.banks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.Deleted {
		return domain.ErrNotDeleted
	}
	return s.banks.SetDeleted(ctx, id, false)
}

func validateBank(b *domain.Bank) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Country = strings.TrimSpace(b.Country)
	err := validation.ValidateStruct(b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&b.Country, validation.Required, validation.Length(2, 60)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
