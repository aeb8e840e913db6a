package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleGenerateAlerts runs the alert rules over the live maintenance feed
// and persists the findings.
func (s *Server) handleGenerateAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.GenerateAlerts(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

// handleListAlerts returns persisted alerts. Dismissed alerts are excluded
// unless includeDismissed=true.
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	includeDismissed, _ := strconv.ParseBool(r.URL.Query().Get("includeDismissed"))

	alerts, err := s.service.Alerts(r.Context(), includeDismissed)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"alerts": alerts})
}

// handleMarkAlertRead flags one alert as read.
func (s *Server) handleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, errors.New("invalid alert id"), http.StatusBadRequest)
		return
	}

	if err := s.service.MarkAlertRead(r.Context(), id); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "read"})
}

// handleDismissAlert hides one alert from default listings.
func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, errors.New("invalid alert id"), http.StatusBadRequest)
		return
	}

	if err := s.service.DismissAlert(r.Context(), id); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "dismissed"})
}
