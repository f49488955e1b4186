package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a movement on a bank account. Its owner is the owner of
// the account.
type Transaction struct {
	ID            int64
	BankAccountID int64
	Type          TransactionType
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	Category      string
	ReceiptPath   string
	Audit         Audit
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	ListByAccount(ctx context.Context, accountID int64, txType TransactionType) ([]Transaction, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	SoftDelete(ctx context.Context, id int64, by string) error
}
