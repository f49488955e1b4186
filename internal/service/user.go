package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/finledger/internal/domain"
)

// UserService manages identities on behalf of an ADMIN. Me is open to any
// authenticated caller.
type UserService struct {
	users    domain.UserRepository
	guard    *AccessGuard
	verifier CredentialVerifier
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, guard *AccessGuard, verifier CredentialVerifier) *UserService {
	return &UserService{users: users, guard: guard, verifier: verifier}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create stores a new identity with the given role. Unlike registration it
// issues no token.
func (s *UserService) Create(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user, err := createIdentity(ctx, s.users, s.verifier, in)
	if err != nil {
		return nil, err
	}
	slog.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Delete removes the identity. Tokens already issued to it stop
// authorizing ownership-scoped calls because the caller no longer resolves.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", id)
	return nil
}

// Me returns the identity behind p.
func (s *UserService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.guard.Caller(ctx, p)
}

// createIdentity validates in, hashes the password and inserts the user.
// A duplicate email yields domain.ErrEmailAlreadyRegistered; the store's
// unique index backs up the pre-check under concurrent inserts.
func createIdentity(ctx context.Context, users domain.UserRepository, verifier CredentialVerifier, in RegisterInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := verifier.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
