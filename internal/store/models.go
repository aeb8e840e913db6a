package store

import (
	"time"

	"github.com/google/uuid"
)

// Canonical asset statuses.
const (
	AssetStatusActive      = "Active"
	AssetStatusStandby     = "Standby"
	AssetStatusMaintenance = "Maintenance"
)

// Canonical maintenance record statuses. Source files use a wider vocabulary
// that MapStatus folds into these three.
const (
	JobStatusOpen       = "Open"
	JobStatusInProgress = "InProgress"
	JobStatusClosed     = "Closed"
)

// Asset is one fleet unit, keyed by serial number.
type Asset struct {
	ID              uuid.UUID  `json:"id"`
	SerialNo        string     `json:"serialNo"`
	Status          string     `json:"status"`
	MileageKm       *float64   `json:"mileageKm,omitempty"`
	LastServiceDate *time.Time `json:"lastServiceDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MaintenanceRecord is one persisted maintenance job against an asset.
type MaintenanceRecord struct {
	ID          uuid.UUID  `json:"id"`
	AssetID     uuid.UUID  `json:"assetId"`
	JobType     string     `json:"jobType"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	RaisedDate  *time.Time `json:"raisedDate,omitempty"`
	NextDueDate *time.Time `json:"nextDueDate,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Certificate is a department fitness certificate on an asset.
type Certificate struct {
	ID         uuid.UUID `json:"id"`
	AssetID    uuid.UUID `json:"assetId"`
	Department string    `json:"department"`
	ValidFrom  time.Time `json:"validFrom"`
	ValidTo    time.Time `json:"validTo"`
}

// Alert is a persisted alert row. Read and dismissed are independent flags.
type Alert struct {
	ID           uuid.UUID `json:"id"`
	TrainID      string    `json:"trainId"`
	Severity     string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Priority     int       `json:"priority"`
	DaysOverdue  *int      `json:"daysOverdue,omitempty"`
	DaysUntilDue *int      `json:"daysUntilDue,omitempty"`
	Read         bool      `json:"read"`
	Dismissed    bool      `json:"dismissed"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// InductionDecision is a persisted output of the planner for one asset/date.
// The decision log is append-only; GeneratedAt identifies which run of the
// planner a row belongs to.
type InductionDecision struct {
	ID          uuid.UUID `json:"id"`
	AssetID     string    `json:"assetId"`
	SerialNo    string    `json:"serialNo"`
	PlanDate    time.Time `json:"date"`
	GeneratedAt time.Time `json:"generatedAt"`
	Decision    string    `json:"decision"`
	Reason      string    `json:"reason"`
	Score       int       `json:"score"`
	Rank        int       `json:"rank"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IngestionRow is one audited raw row of an upload, replayable after the fact.
type IngestionRow struct {
	ID           uuid.UUID      `json:"id"`
	DocumentID   uuid.UUID      `json:"documentId"`
	RowIndex     int            `json:"rowIndex"`
	RawColumns   map[int]string `json:"rawColumnData"`
	DetectedKind string         `json:"detectedKind"`
	IsValid      bool           `json:"isValid"`
	Errors       []string       `json:"errors"`
	CreatedAt    time.Time      `json:"createdAt"`
}
