package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetops/depot/internal/alerts"
	"github.com/fleetops/depot/internal/store"
)

// GenerateAlerts runs the alert rules over the live maintenance feed of the
// most recent upload, persists the findings, and returns the report.
func (s *Service) GenerateAlerts(ctx context.Context) (alerts.Report, error) {
	rows := s.LiveMaintenance()
	report := alerts.Generate(rows, s.now())

	persisted := make([]store.Alert, 0, len(report.Alerts))
	for _, a := range report.Alerts {
		persisted = append(persisted, store.Alert{
			TrainID:      a.TrainID,
			Severity:     string(a.Severity),
			Title:        a.Title,
			Message:      a.Message,
			Priority:     a.Priority,
			DaysOverdue:  a.DaysOverdue,
			DaysUntilDue: a.DaysUntilDue,
		})
	}
	if err := s.store.InsertAlerts(ctx, persisted); err != nil {
		return alerts.Report{}, fmt.Errorf("persist alerts: %w", err)
	}

	s.logger.Info("alerts generated", "sourceRows", len(rows), "alerts", len(report.Alerts))
	return report, nil
}

// Alerts lists persisted alerts, optionally including dismissed ones.
func (s *Service) Alerts(ctx context.Context, includeDismissed bool) ([]store.Alert, error) {
	return s.store.ListAlerts(ctx, includeDismissed)
}

// MarkAlertRead flags one persisted alert as read.
func (s *Service) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	return s.store.MarkAlertRead(ctx, id)
}

// DismissAlert hides one persisted alert from default listings.
func (s *Service) DismissAlert(ctx context.Context, id uuid.UUID) error {
	return s.store.DismissAlert(ctx, id)
}
