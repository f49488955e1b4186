package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/finledger/internal/domain"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 3600 * time.Second

// minKeyBytes matches the HMAC-SHA-256 block strength requirement.
const minKeyBytes = 32

// Claims is the payload of a bearer token. Roles are stored in their
// "ROLE_"-prefixed wire form.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// GrantedRoles converts the wire role strings back to domain roles,
// dropping any the service does not know.
func (c *Claims) GrantedRoles() []domain.Role {
	roles := make([]domain.Role, 0, len(c.Roles))
	for _, s := range c.Roles {
		if r, ok := domain.ParseRole(s); ok && !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// TokenCodec issues and verifies HS256-signed bearer tokens. It is immutable
// after construction and safe for concurrent use.
type TokenCodec struct {
	key []byte
	now func() time.Time
}

// TokenOption customizes a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec decodes the base64 signing secret. A missing, undecodable or
// short secret yields domain.ErrInvalidKey; callers treat that as fatal.
func NewTokenCodec(base64Secret string, opts ...TokenOption) (*TokenCodec, error) {
	secret := strings.TrimSpace(base64Secret)
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", domain.ErrInvalidKey)
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid base64: %v", domain.ErrInvalidKey, err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("%w: secret decodes to %d bytes, need at least %d", domain.ErrInvalidKey, len(key), minKeyBytes)
	}

	c := &TokenCodec{key: key, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode signs a token for subject carrying roles, issued at now and
// expiring TokenLifetime later. Roles already in wire form are not
// prefixed again.
func (c *TokenCodec) Encode(subject string, roles []string, now time.Time) (string, error) {
	claims := &Claims{
		Roles: authorities(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Decode verifies the signature of token and returns its claims. It does
// not check expiry. The signature is checked before the payload is parsed,
// so any change to header or payload surfaces as domain.ErrInvalidSignature.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, domain.ErrMalformedToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		// Non-canonical base64 (stray padding bits) is rejected rather than
		// decoded to the same bytes.
		jwt.WithStrictDecoding(),
	)

	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	signingString := parts[0] + "." + parts[1]
	if err := jwt.SigningMethodHS256.Verify(signingString, sig, c.key); err != nil {
		return nil, domain.ErrInvalidSignature
	}

	claims := &Claims{}
	_, err = parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, domain.ErrInvalidSignature
		}
		return nil, domain.ErrMalformedToken
	}
	if claims.ExpiresAt == nil {
		return nil, domain.ErrMalformedToken
	}
	return claims, nil
}

// IsExpired reports whether the current time has reached claims' expiry.
// The expiry instant itself counts as expired.
func (c *TokenCodec) IsExpired(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !c.now().Before(claims.ExpiresAt.Time)
}

// IsValid reports whether token verifies, belongs to expectedSubject and
// has not expired. Decode failures yield false.
func (c *TokenCodec) IsValid(token, expectedSubject string) bool {
	claims, err := c.Decode(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && !c.IsExpired(claims)
}

// authorities prefixes each role with "ROLE_" exactly once, dropping
// blanks and duplicates while keeping order.
func authorities(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, domain.AuthorityPrefix) {
			r = domain.AuthorityPrefix + r
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
