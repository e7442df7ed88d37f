package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	out := make([]categoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse{Name: c, Color: c.Color()}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ref, err := parseReferenceDate(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date parameter: use YYYY-MM-DD")
		return
	}
	writeJSON(w, r, http.StatusOK, newSummaryResponse(s.ledger.Summary(ref)))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newBreakdownResponse(s.ledger.Breakdown()))
}
