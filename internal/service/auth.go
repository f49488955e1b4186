package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/msomdec/finledger/internal/domain"
)

// RegisterInput is the data accepted by AuthService.Register.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        domain.Role
}

func (in RegisterInput) validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		// bcrypt rejects inputs longer than 72 bytes.
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&in.DisplayName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Role, validation.Required, validation.In(domain.RoleAdmin, domain.RoleUser)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// AuthService handles registration and login. It is the only component
// that issues tokens.
type AuthService struct {
	users     domain.UserRepository
	tokens    *TokenCodec
	verifier  CredentialVerifier
	now       func() time.Time
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenCodec, verifier CredentialVerifier) *AuthService {
	s := &AuthService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		now:      time.Now,
	}
	// Compared against on unknown emails so both failure paths cost one hash check.
	if h, err := verifier.Hash("finledger-unknown-user"); err == nil {
		s.dummyHash = h
	}
	return s
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.verifier.Verify(password, s.dummyHash)
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !s.verifier.Verify(password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return "", err
	}
	slog.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Register creates a new identity and returns a token for it. A duplicate
// email yields domain.ErrEmailAlreadyRegistered and creates nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, *domain.User, error) {
	user, err := createIdentity(ctx, s.users, s.verifier, in)
	if err != nil {
		return "", nil, err
	}
	slog.Info("user registered", "user_id", user.ID, "role", user.Role)

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	token, err := s.tokens.Encode(user.Email, []string{string(user.Role)}, s.now())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
