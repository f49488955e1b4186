package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// AuthorityPrefix prefixes every role string carried in a token.
const AuthorityPrefix = "ROLE_"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Authority returns the wire form of the role, e.g. "ROLE_ADMIN".
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

// ParseRole accepts both the bare ("USER") and the wire ("ROLE_USER") form.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimPrefix(s, AuthorityPrefix))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// User represents a registered identity. The ID never changes after creation.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users. Create must
// return ErrEmailAlreadyRegistered when the store's unique constraint on
// email rejects the insert.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// Delete removes the user. It returns ErrNotFound for an unknown id and
	// ErrInUse while records still reference the user.
	Delete(ctx context.Context, id int64) error
}
