package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ListAssets returns every asset ordered by serial number.
func (s *Store) ListAssets(ctx context.Context) ([]Asset, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, serial_no, status, mileage_km, last_service_date, created_at, updated_at
		FROM assets ORDER BY serial_no`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		var mileage pgtype.Float8
		var lastService pgtype.Date
		if err := rows.Scan(&a.ID, &a.SerialNo, &a.Status, &mileage, &lastService, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.MileageKm = fromFloat(mileage)
		a.LastServiceDate = fromDate(lastService)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// GetAssetBySerial fetches one asset. Returns pgx.ErrNoRows when absent.
func (s *Store) GetAssetBySerial(ctx context.Context, serialNo string) (Asset, error) {
	var a Asset
	var mileage pgtype.Float8
	var lastService pgtype.Date
	err := s.pool.QueryRow(ctx, `
		SELECT id, serial_no, status, mileage_km, last_service_date, created_at, updated_at
		FROM assets WHERE serial_no = $1`, serialNo,
	).Scan(&a.ID, &a.SerialNo, &a.Status, &mileage, &lastService, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Asset{}, err
	}
	a.MileageKm = fromFloat(mileage)
	a.LastServiceDate = fromDate(lastService)
	return a, nil
}

// ListCertificates returns all certificates grouped by asset id.
func (s *Store) ListCertificates(ctx context.Context) (map[uuid.UUID][]Certificate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, asset_id, department, valid_from, valid_to
		FROM certificates ORDER BY asset_id, department`)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	certs := make(map[uuid.UUID][]Certificate)
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.ID, &c.AssetID, &c.Department, &c.ValidFrom, &c.ValidTo); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs[c.AssetID] = append(certs[c.AssetID], c)
	}
	return certs, rows.Err()
}

// ListAssetCertificates returns the certificates of one asset.
func (s *Store) ListAssetCertificates(ctx context.Context, assetID uuid.UUID) ([]Certificate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, asset_id, department, valid_from, valid_to
		FROM certificates WHERE asset_id = $1 ORDER BY department`, assetID)
	if err != nil {
		return nil, fmt.Errorf("list asset certificates: %w", err)
	}
	defer rows.Close()

	var certs []Certificate
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.ID, &c.AssetID, &c.Department, &c.ValidFrom, &c.ValidTo); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// ReplaceCertificates swaps the full certificate set of one asset inside a
// transaction, so a reader never observes a half-replaced set.
func (s *Store) ReplaceCertificates(ctx context.Context, assetID uuid.UUID, certs []Certificate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM certificates WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("clear certificates: %w", err)
	}
	for _, c := range certs {
		_, err := tx.Exec(ctx, `
			INSERT INTO certificates (id, asset_id, department, valid_from, valid_to)
			VALUES (gen_random_uuid(), $1, $2, $3, $4)`,
			assetID, c.Department, c.ValidFrom, c.ValidTo)
		if err != nil {
			return fmt.Errorf("insert certificate %s: %w", c.Department, err)
		}
	}
	return tx.Commit(ctx)
}

// ListOpenMaintenance returns non-closed maintenance records grouped by asset id.
func (s *Store) ListOpenMaintenance(ctx context.Context) (map[uuid.UUID][]MaintenanceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, asset_id, job_type, description, status, raised_date, next_due_date, remarks, created_at
		FROM maintenance_records WHERE status <> $1 ORDER BY asset_id, created_at`, JobStatusClosed)
	if err != nil {
		return nil, fmt.Errorf("list open maintenance: %w", err)
	}
	defer rows.Close()

	open := make(map[uuid.UUID][]MaintenanceRecord)
	for rows.Next() {
		var m MaintenanceRecord
		var raised, due pgtype.Date
		var remarks pgtype.Text
		if err := rows.Scan(&m.ID, &m.AssetID, &m.JobType, &m.Description, &m.Status, &raised, &due, &remarks, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan maintenance record: %w", err)
		}
		m.RaisedDate = fromDate(raised)
		m.NextDueDate = fromDate(due)
		m.Remarks = fromText(remarks)
		open[m.AssetID] = append(open[m.AssetID], m)
	}
	return open, rows.Err()
}

// InsertDecisions appends one planner run for the given date. The decision
// log is append-only: earlier runs for the same date stay persisted, and all
// rows of a run share one generated_at so readers can pick a run out whole.
// Writing the run in one transaction keeps rank a gapless total order within
// it.
func (s *Store) InsertDecisions(ctx context.Context, planDate time.Time, decisions []InductionDecision) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	generatedAt := time.Now().UTC()
	for _, d := range decisions {
		_, err := tx.Exec(ctx, `
			INSERT INTO induction_decisions (id, asset_id, serial_no, plan_date, generated_at, decision, reason, score, rank)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)`,
			d.AssetID, d.SerialNo, planDate, generatedAt, d.Decision, d.Reason, d.Score, d.Rank)
		if err != nil {
			return fmt.Errorf("insert decision %s: %w", d.AssetID, err)
		}
	}
	return tx.Commit(ctx)
}

// ListDecisions returns the newest persisted run for a date, optionally
// filtered to one asset, in rank order.
func (s *Store) ListDecisions(ctx context.Context, planDate time.Time, assetID string) ([]InductionDecision, error) {
	query := `
		SELECT id, asset_id, serial_no, plan_date, generated_at, decision, reason, score, rank, created_at
		FROM induction_decisions
		WHERE plan_date = $1
		  AND generated_at = (SELECT max(generated_at) FROM induction_decisions WHERE plan_date = $1)`
	args := []any{planDate}
	if assetID != "" {
		query += ` AND asset_id = $2`
		args = append(args, assetID)
	}
	query += ` ORDER BY rank`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []InductionDecision
	for rows.Next() {
		var d InductionDecision
		if err := rows.Scan(&d.ID, &d.AssetID, &d.SerialNo, &d.PlanDate, &d.GeneratedAt, &d.Decision, &d.Reason, &d.Score, &d.Rank, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// InsertAlerts persists a batch of generated alerts.
func (s *Store) InsertAlerts(ctx context.Context, alerts []Alert) error {
	for _, a := range alerts {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO alerts (id, train_id, severity, title, message, priority, days_overdue, days_until_due)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)`,
			a.TrainID, a.Severity, a.Title, a.Message, a.Priority, pgInt(a.DaysOverdue), pgInt(a.DaysUntilDue))
		if err != nil {
			return fmt.Errorf("insert alert for %s: %w", a.TrainID, err)
		}
	}
	return nil
}

// ListAlerts returns alerts newest first. Dismissed alerts are excluded
// unless includeDismissed is set.
func (s *Store) ListAlerts(ctx context.Context, includeDismissed bool) ([]Alert, error) {
	query := `
		SELECT id, train_id, severity, title, message, priority, days_overdue, days_until_due, read, dismissed, created_at, updated_at
		FROM alerts`
	if !includeDismissed {
		query += ` WHERE NOT dismissed`
	}
	query += ` ORDER BY priority DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var overdue, until pgtype.Int4
		if err := rows.Scan(&a.ID, &a.TrainID, &a.Severity, &a.Title, &a.Message, &a.Priority, &overdue, &until, &a.Read, &a.Dismissed, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.DaysOverdue = fromInt(overdue)
		a.DaysUntilDue = fromInt(until)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkAlertRead flags one alert as read.
func (s *Store) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE alerts SET read = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DismissAlert hides one alert from default listings.
func (s *Store) DismissAlert(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE alerts SET dismissed = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
