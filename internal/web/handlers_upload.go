package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetops/depot/internal/ingest"
)

// handleUpload accepts a multipart document upload and runs the cleaning
// pipeline on it.
//
// Form fields:
//
//	file    - the document (required)
//	kind    - source format: csv, excel, pdf (default: csv)
//	persist - "true" to write valid records to the store (default: false)
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, errors.New("file too large"), http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.Upload.MaxFileSize+1))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.Upload.MaxFileSize {
		s.respondError(w, r, errors.New("file too large"), http.StatusRequestEntityTooLarge)
		return
	}

	kind := ingest.ParseSourceKind(r.FormValue("kind"))
	persist, _ := strconv.ParseBool(r.FormValue("persist"))

	result, err := s.service.ProcessUpload(r.Context(), header.Filename, data, kind, persist)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, result)
}

// handleIngestionRows returns the audited raw rows of a past upload.
func (s *Server) handleIngestionRows(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		s.respondError(w, r, errors.New("invalid document id"), http.StatusBadRequest)
		return
	}

	rows, err := s.service.IngestionRows(r.Context(), documentID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"documentId": documentID,
		"rows":       rows,
	})
}
