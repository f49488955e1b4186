package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/finledger/internal/domain"
)

// AccessGuard applies the fine-grained ownership rule that sits behind the
// route-level role gate: a USER may act only on records it owns, an ADMIN
// may act on any record.
type AccessGuard struct {
	users  domain.UserRepository
	owners domain.OwnershipLookup
}

// NewAccessGuard creates a new AccessGuard.
func NewAccessGuard(users domain.UserRepository, owners domain.OwnershipLookup) *AccessGuard {
	return &AccessGuard{users: users, owners: owners}
}

// Caller resolves the identity behind p. An anonymous principal, or one
// whose account no longer exists, is unauthenticated.
func (g *AccessGuard) Caller(ctx context.Context, p domain.Principal) (*domain.User, error) {
	if p.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	user, err := g.users.GetByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	return user, nil
}

// RequireOwner returns nil when p may act on record id of kind. Unknown
// records yield domain.ErrNotFound, foreign ones domain.ErrForbidden.
func (g *AccessGuard) RequireOwner(ctx context.Context, p domain.Principal, kind domain.ResourceKind, id int64) error {
	if p.Anonymous() {
		return domain.ErrUnauthenticated
	}

	owner, err := g.owners.OwnerOf(ctx, kind, id)
	if err != nil {
		return err
	}
	if p.IsAdmin() {
		return nil
	}

	caller, err := g.Caller(ctx, p)
	if err != nil {
		return err
	}
	if caller.ID != owner {
		return fmt.Errorf("%w: %s %d belongs to another user", domain.ErrForbidden, kind, id)
	}
	return nil
}

// RequireSelf returns nil when p is the user userID or an ADMIN.
func (g *AccessGuard) RequireSelf(ctx context.Context, p domain.Principal, userID int64) error {
	if p.Anonymous() {
		return domain.ErrUnauthenticated
	}
	if p.IsAdmin() {
		return nil
	}
	caller, err := g.Caller(ctx, p)
	if err != nil {
		return err
	}
	if caller.ID != userID {
		return fmt.Errorf("%w: records of user %d", domain.ErrForbidden, userID)
	}
	return nil
}
