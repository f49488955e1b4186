package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/finledger/internal/handler"
	"github.com/msomdec/finledger/internal/repository/sqlite"
	"github.com/msomdec/finledger/internal/service"
)

// base64 of a 32-byte key.
const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

type testEnv struct {
	srv    *httptest.Server
	db     *sqlite.DB
	tokens *service.TokenCodec
	auth   *service.AuthService
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestServices(t *testing.T, db *sqlite.DB, loginBurst int) handler.Services {
	t.Helper()
	tokens, err := service.NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	guard := service.NewAccessGuard(db.Users(), db.Ownership())
	// One attempt per minute keeps refill out of the way of burst tests.
	verifier := service.NewBcryptVerifier(4)
	limiter := service.NewLoginLimiter(1, loginBurst)
	t.Cleanup(limiter.Stop)

	return handler.Services{
		Database:     db,
		Auth:         service.NewAuthService(db.Users(), tokens, verifier),
		Tokens:       tokens,
		Identities:   db.Users(),
		Users:        service.NewUserService(db.Users(), guard, verifier),
		Banks:        service.NewBankService(db.Banks()),
		Accounts:     service.NewAccountService(db.Accounts(), db.Banks(), guard),
		FixedEntries: service.NewFixedEntryService(db.Incomes(), db.Expenses(), guard),
		Transactions: service.NewTransactionService(db.Transactions(), db.Accounts(), guard),
		LoginLimiter: limiter,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithBurst(t, 1000)
}

func newTestEnvWithBurst(t *testing.T, loginBurst int) *testEnv {
	t.Helper()
	db := newTestDB(t)
	s := newTestServices(t, db, loginBurst)

	srv := httptest.NewServer(handler.NewRouter(s, handler.Routes()))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, db: db, tokens: s.Tokens, auth: s.Auth}
}

type apiResponse struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Count      *int            `json:"count"`
}

// do sends body as JSON with an optional bearer token and decodes the
// response envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, apiResponse) {
	t.Helper()
	return e.doWithHeader(t, method, path, token, body, nil)
}

// doWithHeader is do with extra request headers.
func (e *testEnv) doWithHeader(t *testing.T, method, path, token string, body any, header http.Header) (int, apiResponse) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	if env.StatusCode != resp.StatusCode {
		t.Fatalf("%s %s: envelope statusCode %d != HTTP %d", method, path, env.StatusCode, resp.StatusCode)
	}
	return resp.StatusCode, env
}

// register creates an identity through the API and returns its token.
func (e *testEnv) register(t *testing.T, email, password, role string) string {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":       email,
		"password":    password,
		"displayName": email,
		"role":        role,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", email, status, env.Message)
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &tok); err != nil || tok.Token == "" {
		t.Fatalf("register %s: missing token: %v", email, err)
	}
	return tok.Token
}

func decodeData(t *testing.T, env apiResponse, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
