package store

// audit.go persists the raw rows of every upload so an ingestion run can be
// replayed and inspected after the fact, including the rows that validation
// rejected.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fleetops/depot/internal/ingest"
	"github.com/google/uuid"
)

// RecordIngestion writes one audit row per cleaned record under the given
// document id. Raw cells are stored as JSONB keyed by column position.
func (s *Store) RecordIngestion(ctx context.Context, documentID uuid.UUID, records []ingest.CleanedRecord) error {
	for _, rec := range records {
		raw, err := json.Marshal(rec.Original.Cells)
		if err != nil {
			return fmt.Errorf("marshal row %d: %w", rec.Original.Index, err)
		}
		errs := rec.Errors
		if errs == nil {
			errs = []string{}
		}
		_, err = s.pool.Exec(ctx, `
			INSERT INTO ingestion_rows (id, document_id, row_index, raw_column_data, detected_kind, is_valid, errors)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)`,
			documentID, rec.Original.Index, raw, string(rec.Kind), rec.IsValid(), errs)
		if err != nil {
			return fmt.Errorf("insert audit row %d: %w", rec.Original.Index, err)
		}
	}
	return nil
}

// ListIngestionRows returns the audited rows of one upload in file order.
func (s *Store) ListIngestionRows(ctx context.Context, documentID uuid.UUID) ([]IngestionRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, row_index, raw_column_data, detected_kind, is_valid, errors, created_at
		FROM ingestion_rows WHERE document_id = $1 ORDER BY row_index`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list ingestion rows: %w", err)
	}
	defer rows.Close()

	var audit []IngestionRow
	for rows.Next() {
		var r IngestionRow
		var raw []byte
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.RowIndex, &raw, &r.DetectedKind, &r.IsValid, &r.Errors, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ingestion row: %w", err)
		}
		if err := json.Unmarshal(raw, &r.RawColumns); err != nil {
			return nil, fmt.Errorf("unmarshal row %d: %w", r.RowIndex, err)
		}
		audit = append(audit, r)
	}
	return audit, rows.Err()
}
