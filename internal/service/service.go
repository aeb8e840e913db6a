// Package service orchestrates the upload pipeline, the induction planner,
// and the alert generator over the store.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/depot/internal/ingest"
	"github.com/fleetops/depot/internal/store"
)

// Store is the persistence surface the service depends on. *store.Store
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	WriteMaintenanceRows(ctx context.Context, records []ingest.CleanedRecord) store.InsertionResult
	WriteAssetRows(ctx context.Context, records []ingest.CleanedRecord) store.InsertionResult
	RecordIngestion(ctx context.Context, documentID uuid.UUID, records []ingest.CleanedRecord) error
	ListIngestionRows(ctx context.Context, documentID uuid.UUID) ([]store.IngestionRow, error)

	ListAssets(ctx context.Context) ([]store.Asset, error)
	GetAssetBySerial(ctx context.Context, serialNo string) (store.Asset, error)
	ListCertificates(ctx context.Context) (map[uuid.UUID][]store.Certificate, error)
	ListAssetCertificates(ctx context.Context, assetID uuid.UUID) ([]store.Certificate, error)
	ReplaceCertificates(ctx context.Context, assetID uuid.UUID, certs []store.Certificate) error
	ListOpenMaintenance(ctx context.Context) (map[uuid.UUID][]store.MaintenanceRecord, error)

	InsertDecisions(ctx context.Context, planDate time.Time, decisions []store.InductionDecision) error
	ListDecisions(ctx context.Context, planDate time.Time, assetID string) ([]store.InductionDecision, error)

	InsertAlerts(ctx context.Context, alerts []store.Alert) error
	ListAlerts(ctx context.Context, includeDismissed bool) ([]store.Alert, error)
	MarkAlertRead(ctx context.Context, id uuid.UUID) error
	DismissAlert(ctx context.Context, id uuid.UUID) error
}

// Service is the application core behind the HTTP handlers.
type Service struct {
	store  Store
	logger *slog.Logger

	// now is swappable so date-sensitive logic is testable.
	now func() time.Time

	mu sync.RWMutex
	// liveMaintenance is the cleaned maintenance batch of the most recent
	// upload. The alert generator reads this feed so alerts reflect the file
	// the operator just uploaded, persisted or not.
	liveMaintenance []ingest.MaintenanceRow
}

// New creates a Service.
func New(st Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) setLiveMaintenance(rows []ingest.MaintenanceRow) {
	s.mu.Lock()
	s.liveMaintenance = rows
	s.mu.Unlock()
}

// LiveMaintenance returns a copy of the current live maintenance feed.
func (s *Service) LiveMaintenance() []ingest.MaintenanceRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ingest.MaintenanceRow, len(s.liveMaintenance))
	copy(out, s.liveMaintenance)
	return out
}
