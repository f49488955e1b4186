package handler_test

import (
	"net/http"
	"slices"
	"strconv"
	"testing"
)

func TestIntegration_RoleScenario(t *testing.T) {
	env := newTestEnv(t)

	token := env.register(t, "alice@example.com", "secret123", "USER")

	// USER-only endpoint with the token.
	status, env1 := env.do(t, http.MethodGet, "/fixed-incomes", token, nil)
	if status != http.StatusOK {
		t.Fatalf("GET /fixed-incomes with token: expected 200, got %d (%s)", status, env1.Message)
	}
	if env1.Count == nil || *env1.Count != 0 {
		t.Fatalf("expected count 0, got %v", env1.Count)
	}

	// Same endpoint, no header.
	if status, _ := env.do(t, http.MethodGet, "/fixed-incomes", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("GET /fixed-incomes without token: expected 401, got %d", status)
	}

	// ADMIN-only endpoint with a USER token.
	if status, _ := env.do(t, http.MethodGet, "/users", token, nil); status != http.StatusForbidden {
		t.Fatalf("GET /users as USER: expected 403, got %d", status)
	}
}

func TestIntegration_PublicRouteWithoutHeader(t *testing.T) {
	env := newTestEnv(t)

	status, resp := env.do(t, http.MethodGet, "/auth/test", "", nil)
	if status != http.StatusOK {
		t.Fatalf("GET /auth/test: expected 200, got %d", status)
	}
	if resp.Message == "" {
		t.Fatal("expected a message")
	}

	if status, _ := env.do(t, http.MethodGet, "/me", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("GET /me without token: expected 401, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/me", "not-a-token", nil); status != http.StatusUnauthorized {
		t.Fatalf("GET /me with junk token: expected 401, got %d", status)
	}
}

func TestIntegration_LoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "bob@example.com", "password123", "")

	status, resp := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	var tok struct {
		Token string `json:"token"`
	}
	decodeData(t, resp, &tok)

	status, resp = env.do(t, http.MethodGet, "/me", tok.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("GET /me: expected 200, got %d", status)
	}
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeData(t, resp, &me)
	if me.Email != "bob@example.com" || me.Role != "USER" {
		t.Fatalf("unexpected identity: %+v", me)
	}
}

func TestIntegration_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "carol@example.com", "password123", "USER")

	wrong, wrongResp := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "carol@example.com", "password": "badpassword",
	})
	unknown, unknownResp := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	if wrong != http.StatusUnauthorized || unknown != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrong, unknown)
	}
	if wrongResp.Message != unknownResp.Message {
		t.Fatalf("failure messages must not differ: %q vs %q", wrongResp.Message, unknownResp.Message)
	}
}

func TestIntegration_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dup@example.com", "password123", "USER")

	status, resp := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "dup@example.com", "password": "password456", "displayName": "Dup",
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if len(resp.Data) != 0 && string(resp.Data) != "null" {
		t.Fatalf("duplicate registration must not return a token, got %s", resp.Data)
	}
}

func TestIntegration_RegisterInvalid(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "password123", "displayName": "X",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestIntegration_LoginRateLimited(t *testing.T) {
	env := newTestEnvWithBurst(t, 2)
	body := map[string]string{"email": "x@example.com", "password": "whatever1"}

	for i := 0; i < 2; i++ {
		if status, _ := env.do(t, http.MethodPost, "/auth/login", "", body); status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, status)
		}
	}
	if status, _ := env.do(t, http.MethodPost, "/auth/login", "", body); status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
}

func TestIntegration_LoginRateLimitIgnoresForwardedHeaders(t *testing.T) {
	env := newTestEnvWithBurst(t, 2)
	body := map[string]string{"email": "x@example.com", "password": "whatever1"}

	var statuses []int
	for i := 0; i < 6; i++ {
		ip := "203.0.113." + strconv.Itoa(i+1)
		header := http.Header{}
		header.Set("X-Forwarded-For", ip)
		header.Set("X-Real-IP", ip)
		header.Set("True-Client-IP", ip)
		status, _ := env.doWithHeader(t, http.MethodPost, "/auth/login", "", body, header)
		statuses = append(statuses, status)
	}
	want := []int{401, 401, 429, 429, 429, 429}
	if !slices.Equal(statuses, want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
}

func TestIntegration_AdminManagesUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123", "ADMIN")
	alice := env.register(t, "alice@example.com", "password123", "USER")

	newUser := map[string]string{
		"email":       "carol@example.com",
		"password":    "password123",
		"displayName": "Carol",
		"role":        "ROLE_ADMIN",
	}
	if status, _ := env.do(t, http.MethodPost, "/users", alice, newUser); status != http.StatusForbidden {
		t.Fatalf("POST /users as USER: expected 403, got %d", status)
	}
	status, resp := env.do(t, http.MethodPost, "/users", admin, newUser)
	if status != http.StatusCreated {
		t.Fatalf("POST /users: expected 201, got %d (%s)", status, resp.Message)
	}
	var carol struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeData(t, resp, &carol)
	if carol.Email != "carol@example.com" || carol.Role != "ADMIN" {
		t.Fatalf("unexpected user %+v", carol)
	}
	if status, _ := env.do(t, http.MethodPost, "/users", admin, newUser); status != http.StatusConflict {
		t.Fatalf("duplicate POST /users: expected 409, got %d", status)
	}

	// The created identity can log in with its password.
	status, _ = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "carol@example.com", "password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login as created user: expected 200, got %d", status)
	}

	carolPath := "/users/" + strconv.FormatInt(carol.ID, 10)
	if status, _ := env.do(t, http.MethodDelete, carolPath, alice, nil); status != http.StatusForbidden {
		t.Fatalf("DELETE /users as USER: expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodDelete, carolPath, admin, nil); status != http.StatusOK {
		t.Fatalf("DELETE /users: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, carolPath, admin, nil); status != http.StatusNotFound {
		t.Fatalf("GET deleted user: expected 404, got %d", status)
	}
	if status, _ := env.do(t, http.MethodDelete, carolPath, admin, nil); status != http.StatusNotFound {
		t.Fatalf("DELETE deleted user: expected 404, got %d", status)
	}
}

func TestIntegration_DeletedUserTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123", "ADMIN")
	dave := env.register(t, "dave@example.com", "password123", "USER")

	status, resp := env.do(t, http.MethodGet, "/me", dave, nil)
	if status != http.StatusOK {
		t.Fatalf("GET /me: expected 200, got %d", status)
	}
	var me struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &me)
	ownPath := "/transactions/user/" + strconv.FormatInt(me.ID, 10)
	if status, _ := env.do(t, http.MethodGet, ownPath, dave, nil); status != http.StatusOK {
		t.Fatalf("own transactions: expected 200, got %d", status)
	}

	if status, _ := env.do(t, http.MethodDelete, "/users/"+strconv.FormatInt(me.ID, 10), admin, nil); status != http.StatusOK {
		t.Fatalf("DELETE /users: expected 200, got %d", status)
	}

	// The token is still correctly signed and unexpired, but its subject
	// no longer resolves.
	if !env.tokens.IsValid(dave, "dave@example.com") {
		t.Fatal("token should still verify")
	}
	if status, _ := env.do(t, http.MethodGet, ownPath, dave, nil); status != http.StatusUnauthorized {
		t.Fatalf("own transactions after delete: expected 401, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/me", dave, nil); status != http.StatusUnauthorized {
		t.Fatalf("GET /me after delete: expected 401, got %d", status)
	}
}

func TestIntegration_DeleteUserWithRecords(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123", "ADMIN")
	erin := env.register(t, "erin@example.com", "password123", "USER")

	status, resp := env.do(t, http.MethodPost, "/fixed-incomes", erin, map[string]any{
		"amount": "1000", "source": "salary", "incomeDate": "2024-01-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("POST /fixed-incomes: expected 201, got %d (%s)", status, resp.Message)
	}
	_, resp = env.do(t, http.MethodGet, "/me", erin, nil)
	var me struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &me)

	if status, _ := env.do(t, http.MethodDelete, "/users/"+strconv.FormatInt(me.ID, 10), admin, nil); status != http.StatusConflict {
		t.Fatalf("DELETE user owning records: expected 409, got %d", status)
	}
}

func TestIntegration_OwnershipAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "admin@example.com", "password123", "ADMIN")
	alice := env.register(t, "alice@example.com", "password123", "USER")
	bob := env.register(t, "bob@example.com", "password123", "USER")

	// Banks are admin-managed.
	if status, _ := env.do(t, http.MethodPost, "/banks", alice, map[string]string{"name": "Banco Uno", "country": "PE"}); status != http.StatusForbidden {
		t.Fatalf("POST /banks as USER: expected 403, got %d", status)
	}
	status, resp := env.do(t, http.MethodPost, "/banks", admin, map[string]string{"name": "Banco Uno", "country": "PE"})
	if status != http.StatusCreated {
		t.Fatalf("POST /banks as ADMIN: expected 201, got %d (%s)", status, resp.Message)
	}
	var bank struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &bank)

	status, resp = env.do(t, http.MethodPost, "/bank-accounts", alice, map[string]any{
		"accountNumber": "0011-2233",
		"balance":       "150.50",
		"accountType":   "SAVINGS",
		"bankId":        bank.ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("POST /bank-accounts: expected 201, got %d (%s)", status, resp.Message)
	}
	var account struct {
		ID      int64  `json:"id"`
		Balance string `json:"balance"`
	}
	decodeData(t, resp, &account)
	if account.Balance != "150.5" {
		t.Fatalf("balance = %q", account.Balance)
	}
	accountPath := "/bank-accounts/" + strconv.FormatInt(account.ID, 10)

	if status, _ := env.do(t, http.MethodGet, accountPath, alice, nil); status != http.StatusOK {
		t.Fatalf("owner GET: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, accountPath, bob, nil); status != http.StatusForbidden {
		t.Fatalf("other USER GET: expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, accountPath, admin, nil); status != http.StatusOK {
		t.Fatalf("ADMIN GET: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/bank-accounts/999", alice, nil); status != http.StatusNotFound {
		t.Fatalf("unknown account: expected 404, got %d", status)
	}

	status, resp = env.do(t, http.MethodPost, "/transactions", alice, map[string]any{
		"bankAccountId":   account.ID,
		"transactionType": "EXPENSE",
		"amount":          "19.99",
		"transactionDate": "2024-03-01",
		"category":        "groceries",
	})
	if status != http.StatusCreated {
		t.Fatalf("POST /transactions: expected 201, got %d (%s)", status, resp.Message)
	}
	if status, _ := env.do(t, http.MethodPost, "/transactions", bob, map[string]any{
		"bankAccountId": account.ID, "transactionType": "EXPENSE", "amount": "5",
	}); status != http.StatusForbidden {
		t.Fatalf("POST /transactions on foreign account: expected 403, got %d", status)
	}

	status, resp = env.do(t, http.MethodGet, "/transactions/bank-account/"+strconv.FormatInt(account.ID, 10)+"/type/EXPENSE", alice, nil)
	if status != http.StatusOK {
		t.Fatalf("list by account: expected 200, got %d", status)
	}
	if resp.Count == nil || *resp.Count != 1 {
		t.Fatalf("expected 1 transaction, got %v", resp.Count)
	}
	if status, _ := env.do(t, http.MethodGet, "/transactions/bank-account/"+strconv.FormatInt(account.ID, 10), alice, nil); status != http.StatusOK {
		t.Fatalf("list by account without type: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/transactions/bank-account/"+strconv.FormatInt(account.ID, 10)+"/type/BOGUS", alice, nil); status != http.StatusBadRequest {
		t.Fatalf("unknown transaction type: expected 400, got %d", status)
	}

	if status, _ := env.do(t, http.MethodDelete, accountPath, bob, nil); status != http.StatusForbidden {
		t.Fatalf("other USER DELETE: expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodDelete, accountPath, alice, nil); status != http.StatusOK {
		t.Fatalf("owner DELETE: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPut, accountPath+"/restore", alice, nil); status != http.StatusForbidden {
		t.Fatalf("USER restore: expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPut, accountPath+"/restore", admin, nil); status != http.StatusOK {
		t.Fatalf("ADMIN restore: expected 200, got %d", status)
	}
}

func TestIntegration_FixedEntries(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "password123", "USER")
	bob := env.register(t, "bob@example.com", "password123", "USER")
	admin := env.register(t, "admin@example.com", "password123", "ADMIN")

	status, resp := env.do(t, http.MethodPost, "/fixed-expenses", alice, map[string]any{
		"amount": "800", "category": "rent", "expenseDate": "2024-02-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("POST /fixed-expenses: expected 201, got %d (%s)", status, resp.Message)
	}
	var ex struct {
		ID          int64  `json:"id"`
		ExpenseDate string `json:"expenseDate"`
	}
	decodeData(t, resp, &ex)
	if ex.ExpenseDate != "2024-02-01" {
		t.Fatalf("expenseDate = %q", ex.ExpenseDate)
	}
	path := "/fixed-expenses/" + strconv.FormatInt(ex.ID, 10)

	if status, _ := env.do(t, http.MethodGet, path, bob, nil); status != http.StatusForbidden {
		t.Fatalf("other USER GET: expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, path, admin, nil); status != http.StatusOK {
		t.Fatalf("ADMIN GET: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/fixed-expenses", admin, nil); status != http.StatusForbidden {
		t.Fatalf("ADMIN list (USER-only route): expected 403, got %d", status)
	}
	if status, _ := env.do(t, http.MethodDelete, path, alice, nil); status != http.StatusOK {
		t.Fatalf("owner DELETE: expected 200, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, path, alice, nil); status != http.StatusNotFound {
		t.Fatalf("GET deleted: expected 404, got %d", status)
	}
}

func TestIntegration_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "password123", "USER")

	if status, _ := env.do(t, http.MethodGet, "/bank-accounts/abc", alice, nil); status != http.StatusBadRequest {
		t.Fatalf("non-numeric id: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodPost, "/fixed-incomes", alice, map[string]any{"unknown": 1}); status != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/no-such-route", alice, nil); status != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", status)
	}
}
