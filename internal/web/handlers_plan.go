package web

import (
	"errors"
	"net/http"
	"time"
)

// planDate parses the date query parameter, defaulting to today (UTC) when
// absent.
func planDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid date: expected YYYY-MM-DD")
	}
	return t, nil
}

// handleGeneratePlan builds and persists the induction plan for a date.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	target, err := planDate(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	decisions, err := s.service.GeneratePlan(r.Context(), target)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"date":      target.Format("2006-01-02"),
		"decisions": decisions,
	})
}

// handleGetPlan returns the persisted plan for a date, optionally filtered by
// the assetId query parameter.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	target, err := planDate(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	decisions, err := s.service.Plan(r.Context(), target, r.URL.Query().Get("assetId"))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"date":      target.Format("2006-01-02"),
		"decisions": decisions,
	})
}
