package domain

import "context"

// ResourceKind names a record type whose rows belong to a single user.
type ResourceKind string

const (
	ResourceBankAccount  ResourceKind = "bank_account"
	ResourceFixedIncome  ResourceKind = "fixed_income"
	ResourceFixedExpense ResourceKind = "fixed_expense"
	ResourceTransaction  ResourceKind = "transaction"
)

// OwnershipLookup resolves the user that owns a record. Implementations
// return ErrNotFound for unknown ids.
type OwnershipLookup interface {
	OwnerOf(ctx context.Context, kind ResourceKind, id int64) (int64, error)
}
