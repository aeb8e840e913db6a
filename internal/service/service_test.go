package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/depot/internal/ingest"
	"github.com/fleetops/depot/internal/store"
)

// fakeStore is an in-memory Store for exercising the service without a
// database.
type fakeStore struct {
	ingestion   map[uuid.UUID][]store.IngestionRow
	assets      []store.Asset
	certs       map[uuid.UUID][]store.Certificate
	open        map[uuid.UUID][]store.MaintenanceRecord
	decisionLog map[string][][]store.InductionDecision
	alerts      []store.Alert
	failAudit   bool
	writtenKind ingest.RowKind
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ingestion:   make(map[uuid.UUID][]store.IngestionRow),
		certs:       make(map[uuid.UUID][]store.Certificate),
		open:        make(map[uuid.UUID][]store.MaintenanceRecord),
		decisionLog: make(map[string][][]store.InductionDecision),
	}
}

func (f *fakeStore) WriteMaintenanceRows(_ context.Context, records []ingest.CleanedRecord) store.InsertionResult {
	f.writtenKind = ingest.KindMaintenance
	return countValid(records)
}

func (f *fakeStore) WriteAssetRows(_ context.Context, records []ingest.CleanedRecord) store.InsertionResult {
	f.writtenKind = ingest.KindTrainset
	return countValid(records)
}

func countValid(records []ingest.CleanedRecord) store.InsertionResult {
	res := store.InsertionResult{Success: true}
	for _, rec := range records {
		if rec.IsValid() {
			res.InsertedCount++
		} else {
			res.SkippedCount++
		}
	}
	return res
}

func (f *fakeStore) RecordIngestion(_ context.Context, documentID uuid.UUID, records []ingest.CleanedRecord) error {
	if f.failAudit {
		return context.DeadlineExceeded
	}
	rows := make([]store.IngestionRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, store.IngestionRow{
			DocumentID: documentID,
			RowIndex:   rec.Original.Index,
			RawColumns: rec.Original.Cells,
			IsValid:    rec.IsValid(),
			Errors:     rec.Errors,
		})
	}
	f.ingestion[documentID] = rows
	return nil
}

func (f *fakeStore) ListIngestionRows(_ context.Context, documentID uuid.UUID) ([]store.IngestionRow, error) {
	return f.ingestion[documentID], nil
}

func (f *fakeStore) ListAssets(context.Context) ([]store.Asset, error) { return f.assets, nil }

func (f *fakeStore) GetAssetBySerial(_ context.Context, serialNo string) (store.Asset, error) {
	for _, a := range f.assets {
		if a.SerialNo == serialNo {
			return a, nil
		}
	}
	return store.Asset{}, context.Canceled
}

func (f *fakeStore) ListCertificates(context.Context) (map[uuid.UUID][]store.Certificate, error) {
	return f.certs, nil
}

func (f *fakeStore) ListAssetCertificates(_ context.Context, assetID uuid.UUID) ([]store.Certificate, error) {
	return f.certs[assetID], nil
}

func (f *fakeStore) ReplaceCertificates(_ context.Context, assetID uuid.UUID, certs []store.Certificate) error {
	f.certs[assetID] = certs
	return nil
}

func (f *fakeStore) ListOpenMaintenance(context.Context) (map[uuid.UUID][]store.MaintenanceRecord, error) {
	return f.open, nil
}

// InsertDecisions appends a run, mirroring the append-only decision log.
func (f *fakeStore) InsertDecisions(_ context.Context, planDate time.Time, decisions []store.InductionDecision) error {
	key := planDate.Format("2006-01-02")
	f.decisionLog[key] = append(f.decisionLog[key], decisions)
	return nil
}

// ListDecisions returns the newest run for the date.
func (f *fakeStore) ListDecisions(_ context.Context, planDate time.Time, assetID string) ([]store.InductionDecision, error) {
	runs := f.decisionLog[planDate.Format("2006-01-02")]
	if len(runs) == 0 {
		return nil, nil
	}
	latest := runs[len(runs)-1]
	if assetID == "" {
		return latest, nil
	}
	var out []store.InductionDecision
	for _, d := range latest {
		if d.AssetID == assetID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertAlerts(_ context.Context, alerts []store.Alert) error {
	f.alerts = append(f.alerts, alerts...)
	return nil
}

func (f *fakeStore) ListAlerts(context.Context, bool) ([]store.Alert, error) {
	return f.alerts, nil
}

func (f *fakeStore) MarkAlertRead(context.Context, uuid.UUID) error { return nil }
func (f *fakeStore) DismissAlert(context.Context, uuid.UUID) error  { return nil }

func newTestService(f *fakeStore) *Service {
	svc := New(f, slog.Default())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

const maintenanceCSV = "Train ID,Maintenance Type,Description,Status,Raised Date,Next Due Date,Remarks\n" +
	"TS-101,Brake check,Quarterly inspection,Pending,2024-01-05,2024-06-05,\n" +
	",Engine overhaul,,Pending,,2024-06-01,\n"

func TestProcessUpload_MaintenanceCSV(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	result, err := svc.ProcessUpload(context.Background(), "maint.csv", []byte(maintenanceCSV), ingest.SourceCSV, true)
	if err != nil {
		t.Fatalf("ProcessUpload() error = %v", err)
	}

	if result.Kind != ingest.KindMaintenance {
		t.Errorf("Kind = %q, want maintenance", result.Kind)
	}
	if result.Summary.TotalRecords != 2 || result.Summary.ValidRecords != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if result.Insertion == nil || result.Insertion.InsertedCount != 1 {
		t.Errorf("insertion = %+v", result.Insertion)
	}
	if f.writtenKind != ingest.KindMaintenance {
		t.Errorf("writtenKind = %q, want maintenance", f.writtenKind)
	}
	if len(f.ingestion[result.DocumentID]) != 2 {
		t.Errorf("audited rows = %d, want 2", len(f.ingestion[result.DocumentID]))
	}

	// Live feed carries only the valid row.
	live := svc.LiveMaintenance()
	if len(live) != 1 || live[0].TrainID != "TS-101" {
		t.Errorf("live feed = %+v", live)
	}
}

func TestProcessUpload_NoPersist(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	result, err := svc.ProcessUpload(context.Background(), "maint.csv", []byte(maintenanceCSV), ingest.SourceCSV, false)
	if err != nil {
		t.Fatalf("ProcessUpload() error = %v", err)
	}
	if result.Insertion != nil {
		t.Errorf("Insertion = %+v, want nil without persist", result.Insertion)
	}
	if f.writtenKind != "" {
		t.Errorf("store written without persist: %q", f.writtenKind)
	}
	// Live feed updates even without persistence.
	if len(svc.LiveMaintenance()) != 1 {
		t.Error("live feed should update without persistence")
	}
}

func TestProcessUpload_AuditFailureIsNonFatal(t *testing.T) {
	f := newFakeStore()
	f.failAudit = true
	svc := newTestService(f)

	if _, err := svc.ProcessUpload(context.Background(), "maint.csv", []byte(maintenanceCSV), ingest.SourceCSV, false); err != nil {
		t.Fatalf("ProcessUpload() error = %v, want nil despite audit failure", err)
	}
}

func TestProcessUpload_PDF(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	result, err := svc.ProcessUpload(context.Background(), "report.pdf", []byte("%PDF-1.7"), ingest.SourcePDF, true)
	if err != nil {
		t.Fatalf("ProcessUpload() error = %v", err)
	}
	if result.Summary.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0", result.Summary.TotalRecords)
	}
	if result.Message == "" {
		t.Error("PDF result should carry an explanatory message")
	}
}

func TestProcessUpload_ParseFailureIsFatal(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	if _, err := svc.ProcessUpload(context.Background(), "bad.xlsx", []byte("not a workbook"), ingest.SourceExcel, false); err == nil {
		t.Fatal("expected error for unparseable workbook")
	}
}

func TestGeneratePlan_RanksAndPersists(t *testing.T) {
	f := newFakeStore()
	healthy := uuid.New()
	worn := uuid.New()
	mileage := 120000.0
	f.assets = []store.Asset{
		{ID: worn, SerialNo: "TS-202", Status: "Active", MileageKm: &mileage},
		{ID: healthy, SerialNo: "TS-201", Status: "Active"},
	}
	svc := newTestService(f)

	target := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	decisions, err := svc.GeneratePlan(context.Background(), target)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("decisions = %d, want 2", len(decisions))
	}
	if decisions[0].SerialNo != "TS-201" || decisions[0].Rank != 1 {
		t.Errorf("top decision = %+v, want TS-201 rank 1", decisions[0])
	}
	if decisions[1].Disposition != "Maintenance" {
		t.Errorf("worn asset disposition = %q, want Maintenance", decisions[1].Disposition)
	}

	persisted, err := svc.Plan(context.Background(), target, "")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(persisted) != 2 {
		t.Errorf("persisted = %d, want 2", len(persisted))
	}
}

func TestGeneratePlan_RegenerationKeepsEarlierRuns(t *testing.T) {
	f := newFakeStore()
	f.assets = []store.Asset{
		{ID: uuid.New(), SerialNo: "TS-401", Status: "Active"},
	}
	svc := newTestService(f)

	target := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.GeneratePlan(context.Background(), target); err != nil {
		t.Fatalf("first GeneratePlan() error = %v", err)
	}
	if _, err := svc.GeneratePlan(context.Background(), target); err != nil {
		t.Fatalf("second GeneratePlan() error = %v", err)
	}

	// Both runs stay in the log; the read path serves the newest one.
	runs := f.decisionLog[target.Format("2006-01-02")]
	if len(runs) != 2 {
		t.Fatalf("persisted runs = %d, want 2", len(runs))
	}

	persisted, err := svc.Plan(context.Background(), target, "")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(persisted) != 1 || persisted[0].SerialNo != "TS-401" {
		t.Errorf("latest run = %+v, want the single TS-401 decision", persisted)
	}
}

func TestGenerateAlerts_UsesLiveFeed(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	csv := "Train ID,Maintenance Type,Description,Status,Raised Date,Next Due Date,Remarks\n" +
		"TS-301,Axle check,,Pending,2024-01-01,2024-05-20,\n"
	if _, err := svc.ProcessUpload(context.Background(), "m.csv", []byte(csv), ingest.SourceCSV, false); err != nil {
		t.Fatalf("ProcessUpload() error = %v", err)
	}

	report, err := svc.GenerateAlerts(context.Background())
	if err != nil {
		t.Fatalf("GenerateAlerts() error = %v", err)
	}
	if len(report.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(report.Alerts))
	}
	if len(f.alerts) != 1 {
		t.Errorf("persisted alerts = %d, want 1", len(f.alerts))
	}
	if f.alerts[0].Severity != "Critical" {
		t.Errorf("persisted severity = %q, want Critical", f.alerts[0].Severity)
	}
}
