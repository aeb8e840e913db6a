package store

// writer.go persists cleaned upload records. Each record is written in its
// own statement so one bad row never poisons the rest of the batch: failures
// are collected per record and the remainder proceeds.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fleetops/depot/internal/ingest"
)

// InsertionResult reports what a persistence pass actually wrote. Errors
// carries both validation errors of skipped records and write failures;
// Success reflects write failures only.
type InsertionResult struct {
	Success       bool             `json:"success"`
	InsertedCount int              `json:"insertedCount"`
	SkippedCount  int              `json:"skippedCount"`
	Errors        []string         `json:"errors,omitempty"`
	Details       InsertionDetails `json:"details"`
}

// InsertionDetails breaks inserted counts down by destination table.
type InsertionDetails struct {
	Assets             int `json:"assets"`
	MaintenanceRecords int `json:"maintenanceRecords"`
	Alerts             int `json:"alerts"`
}

// MapStatus folds the source file's maintenance status vocabulary into the
// canonical job statuses. Unknown values land on Open rather than failing:
// by the time a record reaches the writer it has already passed validation.
func MapStatus(source string) string {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "completed":
		return JobStatusClosed
	case "in progress":
		return JobStatusInProgress
	case "pending", "overdue":
		return JobStatusOpen
	default:
		return JobStatusOpen
	}
}

// WriteMaintenanceRows persists the valid maintenance records of a cleaned
// batch. Invalid records are skipped and counted, never written, with their
// validation errors surfaced in the result. An asset row
// is upserted for each referenced train so the maintenance record always has
// a parent, and rows whose source status is Overdue additionally synthesize a
// critical alert.
func (s *Store) WriteMaintenanceRows(ctx context.Context, records []ingest.CleanedRecord) InsertionResult {
	var res InsertionResult
	var failed int

	for _, rec := range records {
		if !rec.IsValid() {
			res.SkippedCount++
			res.Errors = append(res.Errors, skippedRowError(rec))
			continue
		}
		row, ok := rec.Maintenance()
		if !ok {
			res.SkippedCount++
			continue
		}

		if err := s.writeMaintenanceRow(ctx, row, &res.Details); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rec.Original.Index, err))
			res.SkippedCount++
			failed++
			continue
		}
		res.InsertedCount++
	}

	res.Success = failed == 0
	return res
}

func (s *Store) writeMaintenanceRow(ctx context.Context, row ingest.MaintenanceRow, details *InsertionDetails) error {
	assetID, err := s.upsertAsset(ctx, row.TrainID, "", nil, nil)
	if err != nil {
		return fmt.Errorf("upsert asset: %w", err)
	}
	details.Assets++

	_, err = s.pool.Exec(ctx, `
		INSERT INTO maintenance_records (id, asset_id, job_type, description, status, raised_date, next_due_date, remarks)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)`,
		assetID, row.MaintenanceType, row.Description, MapStatus(row.Status),
		pgDate(parseISO(row.RaisedDate)), pgDate(parseISO(row.NextDueDate)), pgText(row.Remarks),
	)
	if err != nil {
		return fmt.Errorf("insert maintenance record: %w", err)
	}
	details.MaintenanceRecords++

	if strings.EqualFold(row.Status, "Overdue") {
		if err := s.insertOverdueAlert(ctx, row); err != nil {
			return fmt.Errorf("insert overdue alert: %w", err)
		}
		details.Alerts++
	}
	return nil
}

// WriteAssetRows persists the valid trainset records of a cleaned batch,
// upserting on serial number so re-uploads refresh rather than duplicate.
func (s *Store) WriteAssetRows(ctx context.Context, records []ingest.CleanedRecord) InsertionResult {
	var res InsertionResult
	var failed int

	for _, rec := range records {
		if !rec.IsValid() {
			res.SkippedCount++
			res.Errors = append(res.Errors, skippedRowError(rec))
			continue
		}
		row, ok := rec.Asset()
		if !ok {
			res.SkippedCount++
			continue
		}

		if _, err := s.upsertAsset(ctx, row.SerialNo, row.Status, row.MileageKm, parseISO(row.LastServiceDate)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", rec.Original.Index, err))
			res.SkippedCount++
			failed++
			continue
		}
		res.Details.Assets++
		res.InsertedCount++
	}

	res.Success = failed == 0
	return res
}

// upsertAsset inserts or refreshes an asset keyed by serial number. The
// update merges with COALESCE so a sparse row (a maintenance upload knows
// only the train id) never blanks values a fuller upload already set.
func (s *Store) upsertAsset(ctx context.Context, serialNo, status string, mileageKm *float64, lastService *time.Time) (string, error) {
	st := status
	if st == "" {
		st = AssetStatusActive
	}

	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO assets (id, serial_no, status, mileage_km, last_service_date)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		ON CONFLICT (serial_no) DO UPDATE SET
			status            = CASE WHEN $5 THEN excluded.status ELSE assets.status END,
			mileage_km        = COALESCE(excluded.mileage_km, assets.mileage_km),
			last_service_date = COALESCE(excluded.last_service_date, assets.last_service_date),
			updated_at        = now()
		RETURNING id`,
		serialNo, st, pgFloat(mileageKm), pgDate(lastService), status != "",
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// skippedRowError renders an invalid record's validation errors for the
// insertion result. The preview only carries the first rows of a batch, so
// this is where later rows keep their per-row detail.
func skippedRowError(rec ingest.CleanedRecord) string {
	return fmt.Sprintf("row %d: %s", rec.Original.Index, strings.Join(rec.Errors, "; "))
}

// overdueAlertFor builds the critical alert synthesized for a source row
// whose status is Overdue, naming the maintenance type, due date, and
// remarks.
func overdueAlertFor(row ingest.MaintenanceRow) Alert {
	msg := fmt.Sprintf("%s for %s is marked overdue", row.MaintenanceType, row.TrainID)
	if row.NextDueDate != "" {
		msg = fmt.Sprintf("%s for %s was due on %s", row.MaintenanceType, row.TrainID, row.NextDueDate)
	}
	if row.Remarks != "" {
		msg += ". " + row.Remarks
	}
	return Alert{
		TrainID:  row.TrainID,
		Severity: "Critical",
		Title:    fmt.Sprintf("Overdue maintenance: %s", row.MaintenanceType),
		Message:  msg,
		Priority: 3,
	}
}

func (s *Store) insertOverdueAlert(ctx context.Context, row ingest.MaintenanceRow) error {
	a := overdueAlertFor(row)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (id, train_id, severity, title, message, priority)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)`,
		a.TrainID, a.Severity, a.Title, a.Message, a.Priority,
	)
	return err
}

func parseISO(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
