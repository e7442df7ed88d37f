package http

import (
	"net/http"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := s.ledger.Expenses()
	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = newExpenseResponse(e)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	e, err := s.ledger.AddExpense(r.Context(), fields)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newExpenseResponse(e))
}

// handleDeleteExpense is idempotent: an unknown id still answers 204.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.ledger.DeleteExpense(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecategorizeExpense(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if _, err := s.ledger.RecategorizeExpense(r.Context(), r.PathValue("id"), category); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes := s.ledger.Incomes()
	out := make([]incomeResponse, len(incomes))
	for i, in := range incomes {
		out[i] = newIncomeResponse(in)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	in, err := s.ledger.AddIncome(r.Context(), fields)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newIncomeResponse(in))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.ledger.DeleteIncome(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
