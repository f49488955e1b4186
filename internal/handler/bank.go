package handler

import (
	"net/http"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
)

// BankHandler serves the bank catalogue.
type BankHandler struct {
	banks *service.BankService
}

func NewBankHandler(banks *service.BankService) *BankHandler {
	return &BankHandler{banks: banks}
}

// GET /banks
func (h *BankHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	banks, err := h.banks.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Banks retrieved.", toBankDTOs(banks))
}

// GET /banks/{id}
func (h *BankHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	bank, err := h.banks.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank retrieved.", toBankDTO(bank))
}

// POST /banks
func (h *BankHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req bankRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	bank := &domain.Bank{Name: req.Name, Country: req.Country}
	if err := h.banks.Create(r.Context(), bank); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Bank created.", toBankDTO(bank))
}

// PUT /banks/{id}
func (h *BankHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req bankRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	bank := &domain.Bank{ID: id, Name: req.Name, Country: req.Country}
	if err := h.banks.Update(r.Context(), bank); err != nil {
		writeServiceError(w, r, err)
		return
	}
	updated, err := h.banks.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank updated.", toBankDTO(updated))
}

// DELETE /banks/{id}
func (h *BankHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.banks.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank deleted.", nil)
}

// PATCH /banks/{id}/restore
func (h *BankHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.banks.Restore(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bank restored.", nil)
}
