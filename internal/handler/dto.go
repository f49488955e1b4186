package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
	"github.com/shopspring/decimal"
)

const dateLayout = time.DateOnly

// Date is a calendar day on the wire ("2006-01-02"). Full RFC 3339
// timestamps are accepted on input.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("date %q must be YYYY-MM-DD or RFC 3339", s)
}

// UserDTO is the JSON representation of a user. The password hash never
// leaves the service.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// TokenDTO carries a freshly issued bearer token.
type TokenDTO struct {
	Token string `json:"token"`
}

type BankDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toBankDTO(b *domain.Bank) BankDTO {
	return BankDTO{
		ID:        b.ID,
		Name:      b.Name,
		Country:   b.Country,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBankDTOs(banks []domain.Bank) []BankDTO {
	dtos := make([]BankDTO, len(banks))
	for i := range banks {
		dtos[i] = toBankDTO(&banks[i])
	}
	return dtos
}

type bankRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// AuditDTO exposes who touched a record and when.
type AuditDTO struct {
	CreatedAt string  `json:"createdAt"`
	CreatedBy string  `json:"createdBy"`
	UpdatedAt *string `json:"updatedAt"`
	UpdatedBy string  `json:"updatedBy,omitempty"`
}

func toAuditDTO(a domain.Audit) AuditDTO {
	dto := AuditDTO{
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		CreatedBy: a.CreatedBy,
		UpdatedBy: a.UpdatedBy,
	}
	if a.UpdatedAt != nil {
		s := a.UpdatedAt.Format(time.RFC3339)
		dto.UpdatedAt = &s
	}
	return dto
}

type BankAccountDTO struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	Description   string          `json:"description"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   string          `json:"accountType"`
	BankID        int64           `json:"bankId"`
	OwnerID       int64           `json:"ownerId"`
	Audit         AuditDTO        `json:"audit"`
}

func toAccountDTO(a *domain.BankAccount) BankAccountDTO {
	return BankAccountDTO{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Description:   a.Description,
		Balance:       a.Balance,
		AccountType:   string(a.AccountType),
		BankID:        a.BankID,
		OwnerID:       a.OwnerID,
		Audit:         toAuditDTO(a.Audit),
	}
}

func toAccountDTOs(accounts []domain.BankAccount) []BankAccountDTO {
	dtos := make([]BankAccountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	return dtos
}

// accountRequest is used for both create and update; on update absent
// fields are left unchanged.
type accountRequest struct {
	AccountNumber *string          `json:"accountNumber"`
	Description   *string          `json:"description"`
	Balance       *decimal.Decimal `json:"balance"`
	AccountType   *string          `json:"accountType"`
	BankID        *int64           `json:"bankId"`
	OwnerID       *int64           `json:"ownerId"`
}

func (req accountRequest) account() *domain.BankAccount {
	a := &domain.BankAccount{}
	if req.AccountNumber != nil {
		a.AccountNumber = *req.AccountNumber
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Balance != nil {
		a.Balance = *req.Balance
	}
	if req.AccountType != nil {
		a.AccountType = domain.AccountType(*req.AccountType)
	}
	if req.BankID != nil {
		a.BankID = *req.BankID
	}
	if req.OwnerID != nil {
		a.OwnerID = *req.OwnerID
	}
	return a
}

type FixedIncomeDTO struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	Source     string          `json:"source"`
	IncomeDate Date            `json:"incomeDate"`
}

func toIncomeDTO(in *domain.FixedIncome) FixedIncomeDTO {
	return FixedIncomeDTO{
		ID:         in.ID,
		UserID:     in.UserID,
		Amount:     in.Amount,
		Source:     in.Source,
		IncomeDate: Date{in.IncomeDate},
	}
}

func toIncomeDTOs(incomes []domain.FixedIncome) []FixedIncomeDTO {
	dtos := make([]FixedIncomeDTO, len(incomes))
	for i := range incomes {
		dtos[i] = toIncomeDTO(&incomes[i])
	}
	return dtos
}

type incomeRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Source     string          `json:"source"`
	IncomeDate Date            `json:"incomeDate"`
}

type FixedExpenseDTO struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	ExpenseDate Date            `json:"expenseDate"`
}

func toExpenseDTO(ex *domain.FixedExpense) FixedExpenseDTO {
	return FixedExpenseDTO{
		ID:          ex.ID,
		UserID:      ex.UserID,
		Amount:      ex.Amount,
		Category:    ex.Category,
		ExpenseDate: Date{ex.ExpenseDate},
	}
}

func toExpenseDTOs(expenses []domain.FixedExpense) []FixedExpenseDTO {
	dtos := make([]FixedExpenseDTO, len(expenses))
	for i := range expenses {
		dtos[i] = toExpenseDTO(&expenses[i])
	}
	return dtos
}

type expenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	ExpenseDate Date            `json:"expenseDate"`
}

type TransactionDTO struct {
	ID            int64           `json:"id"`
	BankAccountID int64           `json:"bankAccountId"`
	Type          string          `json:"transactionType"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"transactionDate"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	ReceiptPath   string          `json:"receiptPath,omitempty"`
	Audit         AuditDTO        `json:"audit"`
}

func toTransactionDTO(t *domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:            t.ID,
		BankAccountID: t.BankAccountID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Date:          t.Date.Format(time.RFC3339),
		Description:   t.Description,
		Category:      t.Category,
		ReceiptPath:   t.ReceiptPath,
		Audit:         toAuditDTO(t.Audit),
	}
}

func toTransactionDTOs(txs []domain.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i := range txs {
		dtos[i] = toTransactionDTO(&txs[i])
	}
	return dtos
}

type transactionRequest struct {
	BankAccountID int64           `json:"bankAccountId"`
	Type          string          `json:"transactionType"`
	Amount        decimal.Decimal `json:"amount"`
	Date          *Date           `json:"transactionDate"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	ReceiptPath   string          `json:"receiptPath"`
}

type transactionPatchRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Date        *Date            `json:"transactionDate"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	ReceiptPath *string          `json:"receiptPath"`
}

// identityRequest is the body of POST /auth/register and POST /users.
type identityRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// input accepts the role in either "USER" or "ROLE_USER" form. Anything
// else is passed through and rejected by validation.
func (req identityRequest) input() service.RegisterInput {
	in := service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        domain.Role(req.Role),
	}
	if role, ok := domain.ParseRole(req.Role); ok {
		in.Role = role
	}
	return in
}
