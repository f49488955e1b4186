package handler

import (
	"net/http"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
)

// AccountHandler serves bank accounts. Role gating happens in the route
// table; ownership is enforced by the service.
type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GET /bank-accounts
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Bank accounts retrieved.", toAccountDTOs(accounts))
}

// GET /bank-accounts/bank/{bankId}
func (h *AccountHandler) HandleListByBank(w http.ResponseWriter, r *http.Request) {
	bankID, err := idParam(r, "bankId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	accounts, err := h.accounts.ListByBank(r.Context(), bankID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Bank accounts retrieved.", toAccountDTOs(accounts))
}

// GET /bank-accounts/owner/{ownerId}
func (h *AccountHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := idParam(r, "ownerId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	accounts, err := h.accounts.ListByOwner(r.Context(), principal(r), ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Bank accounts retrieved.", toAccountDTOs(accounts))
}

// GET /bank-accounts/{id}
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	account, err := h.accounts.Get(r.Context(), principal(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank account retrieved.", toAccountDTO(account))
}

// POST /bank-accounts
func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	account := req.account()
	if err := h.accounts.Create(r.Context(), principal(r), account); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Bank account created.", toAccountDTO(account))
}

// PUT /bank-accounts/{id}
func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req accountRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	patch := service.AccountPatch{
		AccountNumber: req.AccountNumber,
		Description:   req.Description,
		Balance:       req.Balance,
		BankID:        req.BankID,
		OwnerID:       req.OwnerID,
	}
	if req.AccountType != nil {
		t := domain.AccountType(*req.AccountType)
		patch.AccountType = &t
	}

	account, err := h.accounts.Update(r.Context(), principal(r), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank account updated.", toAccountDTO(account))
}

// DELETE /bank-accounts/{id}
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.accounts.Delete(r.Context(), principal(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank account deleted.", nil)
}

// PUT /bank-accounts/{id}/restore
func (h *AccountHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.accounts.Restore(r.Context(), principal(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank account restored.", nil)
}
