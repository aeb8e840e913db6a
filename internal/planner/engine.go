// Package planner implements the induction decision engine: the daily
// rule-based assignment of each asset to Service, Standby, or Maintenance,
// with a justification and a strict cross-fleet rank.
//
// The engine is pure. It reads a snapshot of the roster and emits decisions;
// loading snapshots and persisting decisions belong to the caller.
package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Disposition is the operational assignment for one asset on one day.
type Disposition string

const (
	Service     Disposition = "Service"
	Standby     Disposition = "Standby"
	Maintenance Disposition = "Maintenance"
)

// StatusMaintenance is the asset status value that forces a Maintenance
// disposition and penalizes the service score.
const StatusMaintenance = "Maintenance"

// Certificate is a fitness certification with a validity window.
type Certificate struct {
	Department string
	ValidFrom  time.Time
	ValidTo    time.Time
}

// OpenJob is an unresolved maintenance job on an asset.
type OpenJob struct {
	Description string
	Status      string
}

// AssetSnapshot is everything the engine needs to decide one asset.
type AssetSnapshot struct {
	AssetID      string
	SerialNo     string
	Status       string
	MileageKm    float64
	Certificates []Certificate
	OpenJobs     []OpenJob
}

// Decision is the engine's output for one asset.
type Decision struct {
	AssetID     string      `json:"assetId"`
	SerialNo    string      `json:"serialNo"`
	Date        time.Time   `json:"date"`
	Disposition Disposition `json:"decision"`
	Reason      string      `json:"reason"`
	Score       int         `json:"score"`
	Rank        int         `json:"rank"`
}

// Fixed business constants of the service score. These mirror the operating
// rulebook and are deliberately not configurable.
const (
	scoreBase            = 100
	expiredCertPenalty   = 30
	openJobPenalty       = 5
	highMileagePenalty   = 20 // applied once above 80,000 km, twice above 100,000 km
	maintenancePenalty   = 50
	mileageWarnThreshold = 80000
	mileageHardThreshold = 100000
	maxTolerableOpenJobs = 5
	serviceScoreCutoff   = 80
	standbyScoreCutoff   = 60
)

var safetyCriticalTerms = []string{"critical", "brake", "safety"}

// ServiceScore computes the 0-100 readiness heuristic for an asset.
func ServiceScore(s AssetSnapshot, target time.Time) int {
	score := scoreBase
	score -= expiredCertPenalty * len(expiredDepartments(s.Certificates, target))
	score -= openJobPenalty * len(s.OpenJobs)
	if s.MileageKm > mileageWarnThreshold {
		score -= highMileagePenalty
	}
	if s.MileageKm > mileageHardThreshold {
		score -= highMileagePenalty
	}
	if s.Status == StatusMaintenance {
		score -= maintenancePenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Evaluate runs the rule chain for a single asset. Rules are evaluated
// top-down and the first match wins; the ordering is the load-bearing
// contract, not an implementation detail.
func Evaluate(s AssetSnapshot, target time.Time) Decision {
	d := Decision{
		AssetID:  s.AssetID,
		SerialNo: s.SerialNo,
		Date:     target,
		Score:    ServiceScore(s, target),
	}

	if expired := expiredDepartments(s.Certificates, target); len(expired) > 0 {
		d.Disposition = Maintenance
		d.Reason = fmt.Sprintf("expired certificates: %s", strings.Join(expired, ", "))
		return d
	}

	if n := safetyCriticalJobCount(s.OpenJobs); n > 0 {
		d.Disposition = Maintenance
		d.Reason = fmt.Sprintf("%d safety-critical open job(s)", n)
		return d
	}

	if s.MileageKm > mileageHardThreshold {
		d.Disposition = Maintenance
		d.Reason = "high mileage"
		return d
	}

	if len(s.OpenJobs) > maxTolerableOpenJobs {
		d.Disposition = Standby
		d.Reason = "multiple pending jobs"
		return d
	}

	if s.Status == StatusMaintenance {
		d.Disposition = Maintenance
		d.Reason = "already under maintenance"
		return d
	}

	switch {
	case d.Score > serviceScoreCutoff:
		d.Disposition = Service
	case d.Score > standbyScoreCutoff:
		d.Disposition = Standby
	default:
		d.Disposition = Maintenance
	}
	d.Reason = fmt.Sprintf("service score %d", d.Score)
	return d
}

// Plan evaluates every snapshot and assigns ranks in one deterministic
// collect-then-sort pass: descending service score, ties broken by ascending
// asset id. Ranks form a strict total order with no ties.
func Plan(snapshots []AssetSnapshot, target time.Time) []Decision {
	decisions := make([]Decision, 0, len(snapshots))
	for _, s := range snapshots {
		decisions = append(decisions, Evaluate(s, target))
	}

	sort.Slice(decisions, func(i, j int) bool {
		if decisions[i].Score != decisions[j].Score {
			return decisions[i].Score > decisions[j].Score
		}
		return decisions[i].AssetID < decisions[j].AssetID
	})
	for i := range decisions {
		decisions[i].Rank = i + 1
	}
	return decisions
}

// expiredDepartments returns the departments of certificates whose validity
// ended before the target date, sorted for deterministic reasons strings.
func expiredDepartments(certs []Certificate, target time.Time) []string {
	var expired []string
	for _, c := range certs {
		if c.ValidTo.Before(target) {
			expired = append(expired, c.Department)
		}
	}
	sort.Strings(expired)
	return expired
}

func safetyCriticalJobCount(jobs []OpenJob) int {
	n := 0
	for _, j := range jobs {
		desc := strings.ToLower(j.Description)
		for _, term := range safetyCriticalTerms {
			if strings.Contains(desc, term) {
				n++
				break
			}
		}
	}
	return n
}
