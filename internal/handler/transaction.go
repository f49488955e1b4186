package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
)

// TransactionHandler serves account movements.
type TransactionHandler struct {
	txs *service.TransactionService
}

func NewTransactionHandler(txs *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txs: txs}
}

// POST /transactions
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	t := &domain.Transaction{
		BankAccountID: req.BankAccountID,
		Type:          domain.TransactionType(req.Type),
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		ReceiptPath:   req.ReceiptPath,
	}
	if req.Date != nil {
		t.Date = req.Date.Time
	}
	if err := h.txs.Create(r.Context(), principal(r), t); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Transaction created.", toTransactionDTO(t))
}

// GET /transactions/{id}
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	t, err := h.txs.Get(r.Context(), principal(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Transaction retrieved.", toTransactionDTO(t))
}

// GET /transactions/bank-account/{accountId}
// GET /transactions/bank-account/{accountId}/type/{type}
func (h *TransactionHandler) HandleListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := idParam(r, "accountId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	txType := domain.TransactionType(chi.URLParam(r, "type"))
	txs, err := h.txs.ListByAccount(r.Context(), principal(r), accountID, txType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Transactions retrieved.", toTransactionDTOs(txs))
}

// GET /transactions/user/{userId}
func (h *TransactionHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	txs, err := h.txs.ListByUser(r.Context(), principal(r), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Transactions retrieved.", toTransactionDTOs(txs))
}

// PUT /transactions/{id}
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req transactionPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	patch := service.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		ReceiptPath: req.ReceiptPath,
	}
	if req.Date != nil {
		d := req.Date.Time
		patch.Date = &d
	}

	t, err := h.txs.Update(r.Context(), principal(r), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Transaction updated.", toTransactionDTO(t))
}

// DELETE /transactions/{id}
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.txs.Delete(r.Context(), principal(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Transaction deleted.", nil)
}
