package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrForbidden              = errors.New("forbidden")
	ErrAlreadyExists          = errors.New("already exists")
	ErrAlreadyDeleted         = errors.New("already deleted")
	ErrNotDeleted             = errors.New("not deleted")
	ErrInUse                  = errors.New("still referenced by other records")
	ErrRateLimited            = errors.New("too many requests")

	// Token errors. These never leave the request authenticator.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidKey       = errors.New("invalid signing key")
)
