package planner

import (
	"strings"
	"testing"
	"time"
)

var target = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func cert(dept string, validTo time.Time) Certificate {
	return Certificate{Department: dept, ValidFrom: validTo.AddDate(-1, 0, 0), ValidTo: validTo}
}

func TestServiceScore(t *testing.T) {
	tests := []struct {
		name string
		snap AssetSnapshot
		want int
	}{
		{
			name: "clean asset",
			snap: AssetSnapshot{Status: "Active", MileageKm: 40000},
			want: 100,
		},
		{
			name: "one expired cert",
			snap: AssetSnapshot{
				Status:       "Active",
				Certificates: []Certificate{cert("Rolling Stock", target.AddDate(0, -1, 0))},
			},
			want: 70,
		},
		{
			name: "open jobs",
			snap: AssetSnapshot{Status: "Active", OpenJobs: make([]OpenJob, 3)},
			want: 85,
		},
		{
			name: "warn mileage",
			snap: AssetSnapshot{Status: "Active", MileageKm: 90000},
			want: 80,
		},
		{
			name: "hard mileage applies both penalties",
			snap: AssetSnapshot{Status: "Active", MileageKm: 120000},
			want: 60,
		},
		{
			name: "under maintenance",
			snap: AssetSnapshot{Status: "Maintenance"},
			want: 50,
		},
		{
			name: "clamped at zero",
			snap: AssetSnapshot{
				Status:    "Maintenance",
				MileageKm: 150000,
				Certificates: []Certificate{
					cert("A", target.AddDate(0, -1, 0)),
					cert("B", target.AddDate(0, -2, 0)),
				},
				OpenJobs: make([]OpenJob, 10),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServiceScore(tt.snap, target); got != tt.want {
				t.Errorf("ServiceScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEvaluate_ExpiredCertificatesWin(t *testing.T) {
	snap := AssetSnapshot{
		AssetID:   "a1",
		Status:    "Active",
		MileageKm: 150000, // would also trip high mileage
		Certificates: []Certificate{
			cert("Signalling", target.AddDate(0, -1, 0)),
			cert("Rolling Stock", target.AddDate(0, -3, 0)),
		},
	}

	d := Evaluate(snap, target)
	if d.Disposition != Maintenance {
		t.Errorf("Disposition = %q, want Maintenance", d.Disposition)
	}
	if !strings.Contains(d.Reason, "expired certificates") {
		t.Errorf("Reason = %q, want expired certificates", d.Reason)
	}
	// Departments sorted for deterministic output.
	if !strings.Contains(d.Reason, "Rolling Stock, Signalling") {
		t.Errorf("Reason = %q, want sorted departments", d.Reason)
	}
}

func TestEvaluate_SafetyCriticalJob(t *testing.T) {
	snap := AssetSnapshot{
		AssetID: "a1",
		Status:  "Active",
		OpenJobs: []OpenJob{
			{Description: "Brake pad wear beyond limit", Status: "Open"},
			{Description: "Cabin light flicker", Status: "Open"},
		},
	}

	d := Evaluate(snap, target)
	if d.Disposition != Maintenance {
		t.Errorf("Disposition = %q, want Maintenance", d.Disposition)
	}
	if !strings.Contains(d.Reason, "1 safety-critical") {
		t.Errorf("Reason = %q, want 1 safety-critical", d.Reason)
	}
}

func TestEvaluate_HighMileage(t *testing.T) {
	d := Evaluate(AssetSnapshot{AssetID: "a1", Status: "Active", MileageKm: 100001}, target)
	if d.Disposition != Maintenance || d.Reason != "high mileage" {
		t.Errorf("got %q/%q, want Maintenance/high mileage", d.Disposition, d.Reason)
	}
}

func TestEvaluate_ManyJobsStandby(t *testing.T) {
	jobs := make([]OpenJob, 6)
	for i := range jobs {
		jobs[i] = OpenJob{Description: "door sensor", Status: "Open"}
	}
	d := Evaluate(AssetSnapshot{AssetID: "a1", Status: "Active", OpenJobs: jobs}, target)
	if d.Disposition != Standby || d.Reason != "multiple pending jobs" {
		t.Errorf("got %q/%q, want Standby/multiple pending jobs", d.Disposition, d.Reason)
	}
}

func TestEvaluate_AlreadyUnderMaintenance(t *testing.T) {
	d := Evaluate(AssetSnapshot{AssetID: "a1", Status: "Maintenance"}, target)
	if d.Disposition != Maintenance || d.Reason != "already under maintenance" {
		t.Errorf("got %q/%q, want Maintenance/already under maintenance", d.Disposition, d.Reason)
	}
}

func TestEvaluate_ScoreCutoffs(t *testing.T) {
	// Score 100: Service.
	d := Evaluate(AssetSnapshot{AssetID: "a1", Status: "Active"}, target)
	if d.Disposition != Service {
		t.Errorf("score %d: Disposition = %q, want Service", d.Score, d.Disposition)
	}

	// Score 75 (5 open jobs, none safety-critical): Standby.
	jobs := make([]OpenJob, 5)
	for i := range jobs {
		jobs[i] = OpenJob{Description: "door sensor", Status: "Open"}
	}
	d = Evaluate(AssetSnapshot{AssetID: "a2", Status: "Active", OpenJobs: jobs}, target)
	if d.Score != 75 || d.Disposition != Standby {
		t.Errorf("score %d, Disposition = %q; want 75, Standby", d.Score, d.Disposition)
	}

	// Score 60 (warn mileage + 4 jobs): Maintenance (not above cutoff).
	d = Evaluate(AssetSnapshot{AssetID: "a3", Status: "Active", MileageKm: 85000, OpenJobs: jobs[:4]}, target)
	if d.Score != 60 || d.Disposition != Maintenance {
		t.Errorf("score %d, Disposition = %q; want 60, Maintenance", d.Score, d.Disposition)
	}
}

func TestPlan_RankingDeterministic(t *testing.T) {
	snaps := []AssetSnapshot{
		{AssetID: "c", Status: "Active", MileageKm: 90000}, // 80
		{AssetID: "a", Status: "Active"},                   // 100
		{AssetID: "b", Status: "Active"},                   // 100
	}

	decisions := Plan(snaps, target)
	if len(decisions) != 3 {
		t.Fatalf("decisions = %d, want 3", len(decisions))
	}

	wantOrder := []string{"a", "b", "c"}
	for i, want := range wantOrder {
		if decisions[i].AssetID != want {
			t.Errorf("rank %d = %q, want %q", i+1, decisions[i].AssetID, want)
		}
		if decisions[i].Rank != i+1 {
			t.Errorf("Rank = %d, want %d", decisions[i].Rank, i+1)
		}
	}

	// Same input shuffled must produce the same order.
	shuffled := []AssetSnapshot{snaps[2], snaps[0], snaps[1]}
	again := Plan(shuffled, target)
	for i := range decisions {
		if again[i].AssetID != decisions[i].AssetID {
			t.Errorf("order not deterministic at rank %d: %q vs %q", i+1, again[i].AssetID, decisions[i].AssetID)
		}
	}
}

func TestPlan_Empty(t *testing.T) {
	if got := Plan(nil, target); len(got) != 0 {
		t.Errorf("Plan(nil) = %v, want empty", got)
	}
}
