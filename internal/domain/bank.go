package domain

import (
	"context"
	"time"
)

// Bank is a financial institution. Banks are shared reference data and have
// no owning user.
type Bank struct {
	ID        int64
	Name      string
	Country   string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BankRepository interface {
	Create(ctx context.Context, bank *Bank) error
	GetByID(ctx context.Context, id int64) (*Bank, error)
	List(ctx context.Context) ([]Bank, error)
	Update(ctx context.Context, bank *Bank) error
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}
