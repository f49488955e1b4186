package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/repository/sqlite"
	"github.com/msomdec/finledger/internal/service"
	"github.com/shopspring/decimal"
)

// base64 of a 32-byte key.
const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestCodec(t *testing.T, opts ...service.TokenOption) *service.TokenCodec {
	t.Helper()
	codec, err := service.NewTokenCodec(testSecret, opts...)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Cost 4 keeps the tests fast.
	auth := service.NewAuthService(db.Users(), newTestCodec(t), service.NewBcryptVerifier(4))
	return auth, db
}

func createUser(t *testing.T, db *sqlite.DB, email string, role domain.Role) (*domain.User, domain.Principal) {
	t.Helper()
	u := &domain.User{Email: email, DisplayName: email, PasswordHash: "hash", Role: role}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u, domain.Principal{Email: email, Roles: []domain.Role{role}}
}

func createBank(t *testing.T, db *sqlite.DB, name string) *domain.Bank {
	t.Helper()
	b := &domain.Bank{Name: name, Country: "PE"}
	if err := db.Banks().Create(context.Background(), b); err != nil {
		t.Fatalf("create bank %s: %v", name, err)
	}
	return b
}

func createAccount(t *testing.T, db *sqlite.DB, number string, bankID, ownerID int64) *domain.BankAccount {
	t.Helper()
	a := &domain.BankAccount{
		AccountNumber: number,
		Balance:       decimal.NewFromInt(100),
		AccountType:   domain.AccountTypeChecking,
		BankID:        bankID,
		OwnerID:       ownerID,
	}
	if err := db.Accounts().Create(context.Background(), a); err != nil {
		t.Fatalf("create account %s: %v", number, err)
	}
	return a
}

func newGuard(db *sqlite.DB) *service.AccessGuard {
	return service.NewAccessGuard(db.Users(), db.Ownership())
}
