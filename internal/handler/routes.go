package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
)

// Services bundles what the router needs to serve every endpoint.
type Services struct {
	Database     domain.Database
	Auth         *service.AuthService
	Tokens       *service.TokenCodec
	Identities   domain.UserRepository
	Users        *service.UserService
	Banks        *service.BankService
	Accounts     *service.AccountService
	FixedEntries *service.FixedEntryService
	Transactions *service.TransactionService
	LoginLimiter *service.LoginLimiter
}

// NewRouter builds the HTTP handler. Every request is authenticated when a
// token is present, then checked against routes before reaching a handler.
func NewRouter(s Services, routes *RouteTable) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(NewAuthenticator(s.Tokens, s.Identities, routes).Middleware)
	r.Use(routes.Authorize)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Resource not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/healthz", HandleHealthz(s.Database))

	auth := NewAuthHandler(s.Auth)
	r.Route("/auth", func(r chi.Router) {
		r.With(RateLimit(s.LoginLimiter)).Post("/login", auth.HandleLogin)
		r.With(RateLimit(s.LoginLimiter)).Post("/register", auth.HandleRegister)
		r.Get("/test", auth.HandleTest)
	})

	users := NewUserHandler(s.Users)
	r.Get("/me", users.HandleMe)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.HandleList)
		r.Post("/", users.HandleCreate)
		r.Get("/{id}", users.HandleGet)
		r.Delete("/{id}", users.HandleDelete)
	})

	banks := NewBankHandler(s.Banks)
	r.Route("/banks", func(r chi.Router) {
		r.Get("/", banks.HandleList)
		r.Post("/", banks.HandleCreate)
		r.Get("/{id}", banks.HandleGet)
		r.Put("/{id}", banks.HandleUpdate)
		r.Delete("/{id}", banks.HandleDelete)
		r.Patch("/{id}/restore", banks.HandleRestore)
	})

	accounts := NewAccountHandler(s.Accounts)
	r.Route("/bank-accounts", func(r chi.Router) {
		r.Get("/", accounts.HandleList)
		r.Post("/", accounts.HandleCreate)
		r.Get("/bank/{bankId}", accounts.HandleListByBank)
		r.Get("/owner/{ownerId}", accounts.HandleListByOwner)
		r.Get("/{id}", accounts.HandleGet)
		r.Put("/{id}", accounts.HandleUpdate)
		r.Delete("/{id}", accounts.HandleDelete)
		r.Put("/{id}/restore", accounts.HandleRestore)
	})

	txs := NewTransactionHandler(s.Transactions)
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", txs.HandleCreate)
		r.Get("/bank-account/{accountId}", txs.HandleListByAccount)
		r.Get("/bank-account/{accountId}/type/{type}", txs.HandleListByAccount)
		r.Get("/user/{userId}", txs.HandleListByUser)
		r.Get("/{id}", txs.HandleGet)
		r.Put("/{id}", txs.HandleUpdate)
		r.Delete("/{id}", txs.HandleDelete)
	})

	fixed := NewFixedEntryHandler(s.FixedEntries)
	r.Route("/fixed-incomes", func(r chi.Router) {
		r.Post("/", fixed.HandleCreateIncome)
		r.Get("/", fixed.HandleListIncomes)
		r.Get("/{id}", fixed.HandleGetIncome)
		r.Delete("/{id}", fixed.HandleDeleteIncome)
	})
	r.Route("/fixed-expenses", func(r chi.Router) {
		r.Post("/", fixed.HandleCreateExpense)
		r.Get("/", fixed.HandleListExpenses)
		r.Get("/{id}", fixed.HandleGetExpense)
		r.Delete("/{id}", fixed.HandleDeleteExpense)
	})

	return r
}
