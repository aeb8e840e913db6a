// Package alerts scans freshly uploaded maintenance rows for overdue,
// upcoming, and predicted-risk conditions and emits typed, prioritized
// alerts. It operates on the live cleaned rows of the most recent upload, not
// on persisted maintenance records, so its view is always current.
package alerts

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fleetops/depot/internal/ingest"
)

// Severity classifies an alert for display and sorting.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
	SeverityInfo     Severity = "Info"
)

// Priority levels. Higher sorts first.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// Alert is one generated finding. DaysOverdue and DaysUntilDue are pointers
// because not every rule produces them; ordering falls back gracefully when
// either side of a comparison lacks the value.
type Alert struct {
	TrainID      string   `json:"trainId"`
	Severity     Severity `json:"type"`
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	Priority     int      `json:"priority"`
	DaysOverdue  *int     `json:"daysOverdue,omitempty"`
	DaysUntilDue *int     `json:"daysUntilDue,omitempty"`
}

// Report bundles generated alerts with summary counts by type and priority.
type Report struct {
	Alerts     []Alert          `json:"alerts"`
	ByType     map[Severity]int `json:"byType"`
	ByPriority map[int]int      `json:"byPriority"`
}

const (
	upcomingWindowDays = 30
	urgentWindowDays   = 7
	riskWindowDays     = 14
)

var riskyComponentTerms = []string{"engine", "brake", "electrical"}

// Generate evaluates every valid maintenance row against the three alert
// rules. The rules are independent: a single row can yield up to three
// alerts. The result is sorted by priority, then severity, then urgency, and
// is otherwise stable in input order.
func Generate(rows []ingest.MaintenanceRow, today time.Time) Report {
	report := Report{
		ByType:     make(map[Severity]int),
		ByPriority: make(map[int]int),
	}

	for _, row := range rows {
		due, hasDue := parseISODate(row.NextDueDate)

		var daysUntil int
		if hasDue {
			daysUntil = int(math.Ceil(due.Sub(today).Hours() / 24))
		}

		if a, ok := overdueAlert(row, daysUntil, hasDue); ok {
			report.Alerts = append(report.Alerts, a)
		}
		if a, ok := upcomingAlert(row, daysUntil, hasDue); ok {
			report.Alerts = append(report.Alerts, a)
		}
		if a, ok := riskAlert(row, daysUntil, hasDue); ok {
			report.Alerts = append(report.Alerts, a)
		}
	}

	sortAlerts(report.Alerts)

	for _, a := range report.Alerts {
		report.ByType[a.Severity]++
		report.ByPriority[a.Priority]++
	}
	return report
}

func overdueAlert(row ingest.MaintenanceRow, daysUntil int, hasDue bool) (Alert, bool) {
	overdueByDate := hasDue && daysUntil < 0
	overdueByStatus := strings.EqualFold(row.Status, "Overdue")
	if !overdueByDate && !overdueByStatus {
		return Alert{}, false
	}

	a := Alert{
		TrainID:  row.TrainID,
		Severity: SeverityCritical,
		Priority: PriorityHigh,
		Title:    fmt.Sprintf("Overdue maintenance: %s", orUnspecified(row.MaintenanceType)),
	}
	if hasDue {
		overdue := daysUntil
		if overdue < 0 {
			overdue = -overdue
		}
		a.DaysOverdue = &overdue
		a.Message = fmt.Sprintf("%s was due on %s (%d day(s) overdue)", orUnspecified(row.MaintenanceType), row.NextDueDate, overdue)
	} else {
		a.Message = fmt.Sprintf("%s is marked overdue", orUnspecified(row.MaintenanceType))
	}
	if row.Remarks != "" {
		a.Message += ". " + row.Remarks
	}
	return a, true
}

func upcomingAlert(row ingest.MaintenanceRow, daysUntil int, hasDue bool) (Alert, bool) {
	if !hasDue || daysUntil <= 0 || daysUntil > upcomingWindowDays {
		return Alert{}, false
	}

	a := Alert{
		TrainID:      row.TrainID,
		Title:        fmt.Sprintf("Upcoming maintenance: %s", orUnspecified(row.MaintenanceType)),
		Message:      fmt.Sprintf("%s due on %s (in %d day(s))", orUnspecified(row.MaintenanceType), row.NextDueDate, daysUntil),
		DaysUntilDue: &daysUntil,
	}
	if daysUntil <= urgentWindowDays {
		a.Priority = PriorityHigh
		a.Severity = SeverityWarning
	} else {
		a.Priority = PriorityMedium
		a.Severity = SeverityInfo
	}
	return a, true
}

// riskAlert is the heuristic "predicted risk" rule: a risky component
// combined with at least one aggravating factor.
func riskAlert(row ingest.MaintenanceRow, daysUntil int, hasDue bool) (Alert, bool) {
	mtype := strings.ToLower(row.MaintenanceType)
	risky := false
	for _, term := range riskyComponentTerms {
		if strings.Contains(mtype, term) {
			risky = true
			break
		}
	}
	if !risky {
		return Alert{}, false
	}

	factors := 0
	if hasDue && daysUntil <= riskWindowDays {
		factors++
	}
	if strings.Contains(mtype, "engine") {
		factors++
	}
	if strings.EqualFold(row.Status, "Pending") && hasDue && daysUntil < urgentWindowDays {
		factors++
	}
	if factors == 0 {
		return Alert{}, false
	}

	a := Alert{
		TrainID:  row.TrainID,
		Severity: SeverityWarning,
		Title:    fmt.Sprintf("Predicted maintenance risk: %s", orUnspecified(row.MaintenanceType)),
		Message:  fmt.Sprintf("%s shows %d risk factor(s); consider early inspection", orUnspecified(row.MaintenanceType), factors),
		Priority: PriorityLow,
	}
	if factors >= 2 {
		a.Priority = PriorityMedium
	}
	if hasDue {
		d := daysUntil
		a.DaysUntilDue = &d
	}
	return a, true
}

func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if ra, rb := severityRank(a.Severity), severityRank(b.Severity); ra != rb {
			return ra > rb
		}
		if a.DaysOverdue != nil && b.DaysOverdue != nil && *a.DaysOverdue != *b.DaysOverdue {
			return *a.DaysOverdue > *b.DaysOverdue
		}
		if a.DaysUntilDue != nil && b.DaysUntilDue != nil && *a.DaysUntilDue != *b.DaysUntilDue {
			return *a.DaysUntilDue < *b.DaysUntilDue
		}
		return false
	})
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}

func parseISODate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func orUnspecified(s string) string {
	if s == "" {
		return "maintenance"
	}
	return s
}
