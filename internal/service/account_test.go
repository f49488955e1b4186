package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
	"github.com/shopspring/decimal"
)

func TestAccountService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAccountService(db.Accounts(), db.Banks(), newGuard(db))
	ctx := context.Background()

	alice, asAlice := createUser(t, db, "alice@example.com", domain.RoleUser)
	bob, _ := createUser(t, db, "bob@example.com", domain.RoleUser)
	_, asAdmin := createUser(t, db, "admin@example.com", domain.RoleAdmin)
	bank := createBank(t, db, "Banco Uno")

	a := &domain.BankAccount{
		AccountNumber: "1234-5678",
		Balance:       decimal.RequireFromString("250.10"),
		AccountType:   domain.AccountTypeSavings,
		BankID:        bank.ID,
	}
	if err := svc.Create(ctx, asAlice, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.OwnerID != alice.ID {
		t.Fatalf("owner = %d, want caller %d", a.OwnerID, alice.ID)
	}
	if a.Audit.CreatedBy != "alice@example.com" {
		t.Fatalf("created_by = %q", a.Audit.CreatedBy)
	}

	forBob := &domain.BankAccount{AccountNumber: "2222-0000", AccountType: domain.AccountTypeChecking, BankID: bank.ID, OwnerID: bob.ID}
	if err := svc.Create(ctx, asAlice, forBob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("USER opening for another: expected ErrForbidden, got %v", err)
	}
	if err := svc.Create(ctx, asAdmin, forBob); err != nil {
		t.Fatalf("ADMIN opening for another: %v", err)
	}

	got, err := svc.Get(ctx, asAlice, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Balance.Equal(decimal.RequireFromString("250.10")) {
		t.Fatalf("balance = %s", got.Balance)
	}
}

func TestAccountService_Create_Invalid(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAccountService(db.Accounts(), db.Banks(), newGuard(db))
	banks := service.NewBankService(db.Banks())
	ctx := context.Background()

	_, asAlice := createUser(t, db, "alice@example.com", domain.RoleUser)
	bank := createBank(t, db, "Banco Uno")
	closed := createBank(t, db, "Banco Cerrado")
	if err := banks.Delete(ctx, closed.ID); err != nil {
		t.Fatalf("delete bank: %v", err)
	}

	tests := []struct {
		name string
		a    domain.BankAccount
	}{
		{"missing number", domain.BankAccount{AccountType: domain.AccountTypeSavings, BankID: bank.ID}},
		{"bad type", domain.BankAccount{AccountNumber: "1234-5678", AccountType: "GOLD", BankID: bank.ID}},
		{"unknown bank", domain.BankAccount{AccountNumber: "1234-5678", AccountType: domain.AccountTypeSavings, BankID: 999}},
		{"deleted bank", domain.BankAccount{AccountNumber: "1234-5678", AccountType: domain.AccountTypeSavings, BankID: closed.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.a
			if err := svc.Create(ctx, asAlice, &a); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAccountService_Ownership(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAccountService(db.Accounts(), db.Banks(), newGuard(db))
	ctx := context.Background()

	alice, asAlice := createUser(t, db, "alice@example.com", domain.RoleUser)
	bob, asBob := createUser(t, db, "bob@example.com", domain.RoleUser)
	_, asAdmin := createUser(t, db, "admin@example.com", domain.RoleAdmin)
	bank := createBank(t, db, "Banco Uno")
	account := createAccount(t, db, "0001-0001", bank.ID, alice.ID)

	if _, err := svc.Get(ctx, asBob, account.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Get as other: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, asAdmin, account.ID); err != nil {
		t.Fatalf("Get as admin: %v", err)
	}

	desc := "hijacked"
	if _, err := svc.Update(ctx, asBob, account.ID, service.AccountPatch{Description: &desc}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update as other: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, asBob, account.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete as other: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.ListByOwner(ctx, asBob, alice.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("ListByOwner as other: expected ErrForbidden, got %v", err)
	}
	list, err := svc.ListByOwner(ctx, asAlice, alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 account, got %d", len(list))
	}

	if _, err := svc.Update(ctx, asAlice, account.ID, service.AccountPatch{OwnerID: &bob.ID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("transfer as owner: expected ErrForbidden, got %v", err)
	}
	moved, err := svc.Update(ctx, asAdmin, account.ID, service.AccountPatch{OwnerID: &bob.ID})
	if err != nil {
		t.Fatalf("transfer as admin: %v", err)
	}
	if moved.OwnerID != bob.ID {
		t.Fatalf("owner = %d, want %d", moved.OwnerID, bob.ID)
	}
}

func TestAccountService_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAccountService(db.Accounts(), db.Banks(), newGuard(db))
	ctx := context.Background()

	alice, asAlice := createUser(t, db, "alice@example.com", domain.RoleUser)
	_, asAdmin := createUser(t, db, "admin@example.com", domain.RoleAdmin)
	bank := createBank(t, db, "Banco Uno")
	account := createAccount(t, db, "0001-0001", bank.ID, alice.ID)

	balance := decimal.RequireFromString("99.99")
	updated, err := svc.Update(ctx, asAlice, account.ID, service.AccountPatch{Balance: &balance})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Balance.Equal(balance) {
		t.Fatalf("balance = %s", updated.Balance)
	}
	if updated.Audit.UpdatedBy != "alice@example.com" {
		t.Fatalf("updated_by = %q", updated.Audit.UpdatedBy)
	}

	if err := svc.Delete(ctx, asAlice, account.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, asAlice, account.ID); !errors.Is(err, domain.ErrAlreadyDeleted) {
		t.Fatalf("second Delete: expected ErrAlreadyDeleted, got %v", err)
	}
	if _, err := svc.Get(ctx, asAlice, account.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get deleted: expected ErrNotFound, got %v", err)
	}

	if err := svc.Restore(ctx, asAdmin, account.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := svc.Restore(ctx, asAdmin, account.ID); !errors.Is(err, domain.ErrNotDeleted) {
		t.Fatalf("second Restore: expected ErrNotDeleted, got %v", err)
	}
	if _, err := svc.Get(ctx, asAlice, account.ID); err != nil {
		t.Fatalf("Get restored: %v", err)
	}
}
