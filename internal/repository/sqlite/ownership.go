package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/finledger/internal/domain"
)

// ownershipLookup answers "who owns record id of kind" straight from the
// owning tables. Transactions inherit the owner of their bank account.
type ownershipLookup struct {
	db *sql.DB
}

var ownerQueries = map[domain.ResourceKind]string{
	domain.ResourceBankAccount:  `SELECT user_id FROM bank_accounts WHERE id = ?`,
	domain.ResourceFixedIncome:  `SELECT user_id FROM fixed_incomes WHERE id = ?`,
	domain.ResourceFixedExpense: `SELECT user_id FROM fixed_expenses WHERE id = ?`,
	domain.ResourceTransaction: `SELECT a.user_id FROM transactions t
		JOIN bank_accounts a ON a.id = t.bank_account_id WHERE t.id = ?`,
}

func (l *ownershipLookup) OwnerOf(ctx context.Context, kind domain.ResourceKind, id int64) (int64, error) {
	q, ok := ownerQueries[kind]
	if !ok {
		return 0, fmt.Errorf("owner lookup: unsupported resource kind %q", kind)
	}

	var owner int64
	if err := l.db.QueryRowContext(ctx, q, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("owner of %s %d: %w", kind, id, err)
	}
	return owner, nil
}
