package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetops/depot/internal/store"
)

// handleListAssets returns the persisted fleet roster.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.service.Assets(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"assets": assets})
}

// handleGetCertificates returns the certificates of one asset by serial number.
func (s *Server) handleGetCertificates(w http.ResponseWriter, r *http.Request) {
	serialNo := chi.URLParam(r, "serialNo")

	certs, err := s.service.AssetCertificates(r.Context(), serialNo)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"serialNo":     serialNo,
		"certificates": certs,
	})
}

// certificatePayload is the request body for replacing certificates.
type certificatePayload struct {
	Certificates []struct {
		Department string `json:"department"`
		ValidFrom  string `json:"validFrom"`
		ValidTo    string `json:"validTo"`
	} `json:"certificates"`
}

// handlePutCertificates replaces the full certificate set of one asset.
func (s *Server) handlePutCertificates(w http.ResponseWriter, r *http.Request) {
	serialNo := chi.URLParam(r, "serialNo")

	var payload certificatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	certs := make([]store.Certificate, 0, len(payload.Certificates))
	for i, c := range payload.Certificates {
		if c.Department == "" {
			s.respondError(w, r, errors.New("certificate "+strconv.Itoa(i)+": department is required"), http.StatusBadRequest)
			return
		}
		from, err := time.Parse("2006-01-02", c.ValidFrom)
		if err != nil {
			s.respondError(w, r, errors.New("invalid date in validFrom"), http.StatusBadRequest)
			return
		}
		to, err := time.Parse("2006-01-02", c.ValidTo)
		if err != nil {
			s.respondError(w, r, errors.New("invalid date in validTo"), http.StatusBadRequest)
			return
		}
		certs = append(certs, store.Certificate{Department: c.Department, ValidFrom: from, ValidTo: to})
	}

	if err := s.service.SetAssetCertificates(r.Context(), serialNo, certs); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"serialNo": serialNo,
		"count":    len(certs),
	})
}

// handleRecentLogs returns up to n recent log entries from the in-memory ring.
func (s *Server) handleRecentLogs(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	writeJSON(w, map[string]any{"entries": s.ring.Recent(n)})
}
