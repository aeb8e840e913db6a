package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetops/depot/internal/ingest"
	"github.com/fleetops/depot/internal/store"
)

// classifySampleSize is how many leading rows the classifier inspects. The
// header plus a few data rows is enough to separate the canonical schemas.
const classifySampleSize = 5

// previewSize caps the cleaned-record preview returned to the uploader.
const previewSize = 10

// UploadResult is the full outcome of one processed upload.
type UploadResult struct {
	DocumentID uuid.UUID              `json:"documentId"`
	FileName   string                 `json:"fileName"`
	Kind       ingest.RowKind         `json:"detectedKind"`
	TotalRows  int                    `json:"totalRows"`
	Summary    ingest.Summary         `json:"processingSummary"`
	Preview    []PreviewRow           `json:"previewData,omitempty"`
	Insertion  *store.InsertionResult `json:"insertionResult,omitempty"`
	Message    string                 `json:"message,omitempty"`
}

// PreviewRow is one cleaned record rendered for the upload response.
type PreviewRow struct {
	RowIndex int            `json:"rowIndex"`
	Fields   map[string]any `json:"fields"`
	Errors   []string       `json:"errors,omitempty"`
}

// ProcessUpload runs the full pipeline on one uploaded document: parse,
// classify, clean, summarize, audit, and optionally persist. A parse failure
// aborts the upload; everything after parsing degrades per row.
func (s *Service) ProcessUpload(ctx context.Context, fileName string, data []byte, kind ingest.SourceKind, persist bool) (*UploadResult, error) {
	documentID := uuid.New()
	log := s.logger.With("documentId", documentID, "fileName", fileName, "sourceKind", kind)

	rows, err := ingest.ParseDocument(data, kind)
	if err != nil {
		log.Error("upload parse failed", "error", err)
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}

	if kind == ingest.SourcePDF {
		log.Info("pdf upload accepted without tabular extraction")
		return &UploadResult{
			DocumentID: documentID,
			FileName:   fileName,
			Kind:       ingest.KindGeneric,
			Summary:    ingest.BuildSummary(nil),
			Message:    "PDF stored; no tabular records extracted",
		}, nil
	}

	sample := rows
	if len(sample) > classifySampleSize {
		sample = sample[:classifySampleSize]
	}
	rowKind := ingest.Classify(sample)

	records := ingest.CleanRows(rows, rowKind)
	summary := ingest.BuildSummary(records)
	log.Info("upload cleaned",
		"detectedKind", rowKind,
		"totalRecords", summary.TotalRecords,
		"validRecords", summary.ValidRecords,
		"invalidRecords", summary.InvalidRecords,
	)

	// Audit is best effort: a failed audit write must not fail the upload.
	if err := s.store.RecordIngestion(ctx, documentID, records); err != nil {
		log.Warn("ingestion audit write failed", "error", err)
	}

	result := &UploadResult{
		DocumentID: documentID,
		FileName:   fileName,
		Kind:       rowKind,
		TotalRows:  len(records),
		Summary:    summary,
		Preview:    buildPreview(records),
	}

	if rowKind == ingest.KindMaintenance {
		s.setLiveMaintenance(validMaintenanceRows(records))
	}

	if persist {
		var ins store.InsertionResult
		switch rowKind {
		case ingest.KindMaintenance:
			ins = s.store.WriteMaintenanceRows(ctx, records)
		case ingest.KindTrainset:
			ins = s.store.WriteAssetRows(ctx, records)
		default:
			result.Message = "generic table classified; records not persisted"
			return result, nil
		}
		result.Insertion = &ins
		log.Info("upload persisted",
			"inserted", ins.InsertedCount,
			"skipped", ins.SkippedCount,
			"errors", len(ins.Errors),
		)
	}

	return result, nil
}

// IngestionRows returns the audited raw rows of a past upload.
func (s *Service) IngestionRows(ctx context.Context, documentID uuid.UUID) ([]store.IngestionRow, error) {
	return s.store.ListIngestionRows(ctx, documentID)
}

func buildPreview(records []ingest.CleanedRecord) []PreviewRow {
	n := len(records)
	if n > previewSize {
		n = previewSize
	}
	preview := make([]PreviewRow, 0, n)
	for _, rec := range records[:n] {
		preview = append(preview, PreviewRow{
			RowIndex: rec.Original.Index,
			Fields:   rec.Fields,
			Errors:   rec.Errors,
		})
	}
	return preview
}

func validMaintenanceRows(records []ingest.CleanedRecord) []ingest.MaintenanceRow {
	var rows []ingest.MaintenanceRow
	for _, rec := range records {
		if !rec.IsValid() {
			continue
		}
		if row, ok := rec.Maintenance(); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
