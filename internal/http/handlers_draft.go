package http

import (
	"net/http"
)

func (s *Server) handleOpenDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusCreated, s.drafts.Open())
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.drafts.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

// handleDescribeDraft answers immediately; the suggestion, if any, shows up
// on a later GET once the debounce delay and the classifier call complete.
func (s *Server) handleDescribeDraft(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	d, err := s.drafts.Describe(r.PathValue("id"), sanitizeInput(req.Description))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleChooseDraftCategory(w http.ResponseWriter, r *http.Request) {
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
	d, err := s.drafts.Choose(r.PathValue("id"), category)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	amount, date, err := req.values()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	e, err := s.drafts.Submit(r.Context(), r.PathValue("id"), amount, date)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newExpenseResponse(e))
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	s.drafts.Discard(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
