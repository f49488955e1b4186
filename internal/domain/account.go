package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeCredit   AccountType = "CREDIT"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeCredit:
		return true
	}
	return false
}

// BankAccount is an account held by one user at one bank.
type BankAccount struct {
	ID            int64
	AccountNumber string
	Description   string
	Balance       decimal.Decimal
	AccountType   AccountType
	BankID        int64
	OwnerID       int64
	Audit         Audit
}

// Audit carries who/when stamps for soft-deletable records. The *By fields
// hold the caller's email.
type Audit struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt *time.Time
	UpdatedBy string
	Deleted   bool
	DeletedAt *time.Time
	DeletedBy string
}

type BankAccountRepository interface {
	Create(ctx context.Context, account *BankAccount) error
	GetByID(ctx context.Context, id int64) (*BankAccount, error)
	List(ctx context.Context) ([]BankAccount, error)
	ListByBank(ctx context.Context, bankID int64) ([]BankAccount, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]BankAccount, error)
	Update(ctx context.Context, account *BankAccount) error
	SoftDelete(ctx context.Context, id int64, by string) error
	Restore(ctx context.Context, id int64, by string) error
}
