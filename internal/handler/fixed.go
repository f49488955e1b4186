package handler

import (
	"net/http"

	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
)

// FixedEntryHandler serves recurring incomes and expenses.
type FixedEntryHandler struct {
	entries *service.FixedEntryService
}

func NewFixedEntryHandler(entries *service.FixedEntryService) *FixedEntryHandler {
	return &FixedEntryHandler{entries: entries}
}

// POST /fixed-incomes
func (h *FixedEntryHandler) HandleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	in := &domain.FixedIncome{Amount: req.Amount, Source: req.Source, IncomeDate: req.IncomeDate.Time}
	if err := h.entries.CreateIncome(r.Context(), principal(r), in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Fixed income created.", toIncomeDTO(in))
}

// GET /fixed-incomes
func (h *FixedEntryHandler) HandleListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.entries.ListIncomes(r.Context(), principal(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Fixed incomes retrieved.", toIncomeDTOs(incomes))
}

// GET /fixed-incomes/{id}
func (h *FixedEntryHandler) HandleGetIncome(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	in, err := h.entries.GetIncome(r.Context(), principal(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Fixed income retrieved.", toIncomeDTO(in))
}

// DELETE /fixed-incomes/{id}
func (h *FixedEntryHandler) HandleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.entries.DeleteIncome(r.Context(), principal(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Fixed income deleted.", nil)
}

// POST /fixed-expenses
func (h *FixedEntryHandler) HandleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	ex := &domain.FixedExpense{Amount: req.Amount, Category: req.Category, ExpenseDate: req.ExpenseDate.Time}
	if err := h.entries.CreateExpense(r.Context(), principal(r), ex); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Fixed expense created.", toExpenseDTO(ex))
}

// GET /fixed-expenses
func (h *FixedEntryHandler) HandleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.entries.ListExpenses(r.Context(), principal(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeList(w, "Fixed expenses retrieved.", toExpenseDTOs(expenses))
}

// GET /fixed-expenses/{id}
func (h *FixedEntryHandler) HandleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ex, err := h.entries.GetExpense(r.Context(), principal(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Fixed expense retrieved.", toExpenseDTO(ex))
}

// DELETE /fixed-expenses/{id}
func (h *FixedEntryHandler) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.entries.DeleteExpense(r.Context(), principal(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Fixed expense deleted.", nil)
}
