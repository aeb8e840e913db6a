package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetops/depot/internal/planner"
	"github.com/fleetops/depot/internal/store"
)

// GeneratePlan builds the induction plan for the target date from the
// persisted roster, appends it to the decision log as a new run, and returns
// the ranked decisions.
func (s *Service) GeneratePlan(ctx context.Context, target time.Time) ([]planner.Decision, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	certs, err := s.store.ListCertificates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load certificates: %w", err)
	}
	open, err := s.store.ListOpenMaintenance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load open maintenance: %w", err)
	}

	snapshots := make([]planner.AssetSnapshot, 0, len(assets))
	for _, a := range assets {
		snap := planner.AssetSnapshot{
			AssetID:  a.ID.String(),
			SerialNo: a.SerialNo,
			Status:   a.Status,
		}
		if a.MileageKm != nil {
			snap.MileageKm = *a.MileageKm
		}
		for _, c := range certs[a.ID] {
			snap.Certificates = append(snap.Certificates, planner.Certificate{
				Department: c.Department,
				ValidFrom:  c.ValidFrom,
				ValidTo:    c.ValidTo,
			})
		}
		for _, job := range open[a.ID] {
			snap.OpenJobs = append(snap.OpenJobs, planner.OpenJob{
				Description: job.Description,
				Status:      job.Status,
			})
		}
		snapshots = append(snapshots, snap)
	}

	decisions := planner.Plan(snapshots, target)

	persisted := make([]store.InductionDecision, 0, len(decisions))
	for _, d := range decisions {
		persisted = append(persisted, store.InductionDecision{
			AssetID:  d.AssetID,
			SerialNo: d.SerialNo,
			PlanDate: target,
			Decision: string(d.Disposition),
			Reason:   d.Reason,
			Score:    d.Score,
			Rank:     d.Rank,
		})
	}
	if err := s.store.InsertDecisions(ctx, target, persisted); err != nil {
		return nil, fmt.Errorf("persist plan: %w", err)
	}

	s.logger.Info("induction plan generated", "date", target.Format("2006-01-02"), "assets", len(decisions))
	return decisions, nil
}

// Plan returns the newest persisted run for a date, optionally filtered to
// one asset id.
func (s *Service) Plan(ctx context.Context, target time.Time, assetID string) ([]store.InductionDecision, error) {
	return s.store.ListDecisions(ctx, target, assetID)
}
