// Package ingest implements the upload cleaning pipeline: parsing raw
// spreadsheet bytes into positional rows, classifying which canonical schema
// a table matches, coercing and validating cell values, and summarizing the
// outcome for the uploader.
//
// The package is pure: it performs no I/O beyond reading the byte slice it is
// given and never touches the store.
package ingest

import "strings"

// SourceKind identifies the declared format of an uploaded document.
type SourceKind string

const (
	SourceCSV   SourceKind = "csv"
	SourceExcel SourceKind = "excel"
	SourcePDF   SourceKind = "pdf"
)

// ParseSourceKind normalizes a user-supplied kind string.
// Unknown values default to CSV, the most common upload format.
func ParseSourceKind(s string) SourceKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excel", "xlsx", "xls":
		return SourceExcel
	case "pdf":
		return SourcePDF
	default:
		return SourceCSV
	}
}

// RawRow is one parsed spreadsheet row. Cells are keyed by column position,
// never by header text: the cleaning stage works purely positionally, so a
// renamed or reordered header cannot silently remap fields.
type RawRow struct {
	// Index is 1-based and counts the header row, matching the line numbers
	// an uploader sees in their spreadsheet application.
	Index int
	Cells map[int]string
}

// Cell returns the trimmed value at the given column position, or "" when the
// column is absent.
func (r RawRow) Cell(col int) string {
	return strings.TrimSpace(r.Cells[col])
}

// DataType is the declared type a cell is coerced into.
type DataType int

const (
	TypeString DataType = iota
	TypeDate
	TypeNumber
	TypeEnum
)

// ColumnMapping binds one source column position to a canonical target field.
type ColumnMapping struct {
	SourceColumn int
	TargetField  string
	Type         DataType
	Required     bool
	EnumValues   []string // only for TypeEnum
}

// RowKind is the canonical schema a table was classified as.
type RowKind string

const (
	KindMaintenance RowKind = "maintenance"
	KindTrainset    RowKind = "trainset"
	KindGeneric     RowKind = "generic"
)

// CleanedRecord is the validated, coerced representation of one uploaded row.
// It is immutable once produced: the cleaner appends errors while building it
// and downstream consumers only read.
type CleanedRecord struct {
	Original RawRow
	Kind     RowKind
	Fields   map[string]any
	Errors   []string
}

// IsValid reports whether the record accumulated no validation errors.
func (r CleanedRecord) IsValid() bool { return len(r.Errors) == 0 }

// Canonical field names shared by the maintenance and trainset schemas.
const (
	FieldTrainID         = "trainId"
	FieldMaintenanceType = "maintenanceType"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldRaisedDate      = "raisedDate"
	FieldNextDueDate     = "nextDueDate"
	FieldRemarks         = "remarks"

	FieldSerialNo        = "serialNo"
	FieldMileageKm       = "mileageKm"
	FieldLastServiceDate = "lastServiceDate"
)

// MaintenanceRow is the typed view of a cleaned maintenance record.
type MaintenanceRow struct {
	TrainID         string
	MaintenanceType string
	Description     string
	Status          string
	RaisedDate      string // ISO date or ""
	NextDueDate     string // ISO date or ""
	Remarks         string
}

// AssetRow is the typed view of a cleaned trainset record.
type AssetRow struct {
	SerialNo        string
	Status          string
	MileageKm       *float64
	LastServiceDate string // ISO date or ""
}

// Maintenance extracts the typed maintenance view of the record.
// The second return is false when the record is not a maintenance row.
func (r CleanedRecord) Maintenance() (MaintenanceRow, bool) {
	if r.Kind != KindMaintenance {
		return MaintenanceRow{}, false
	}
	return MaintenanceRow{
		TrainID:         fieldString(r.Fields, FieldTrainID),
		MaintenanceType: fieldString(r.Fields, FieldMaintenanceType),
		Description:     fieldString(r.Fields, FieldDescription),
		Status:          fieldString(r.Fields, FieldStatus),
		RaisedDate:      fieldString(r.Fields, FieldRaisedDate),
		NextDueDate:     fieldString(r.Fields, FieldNextDueDate),
		Remarks:         fieldString(r.Fields, FieldRemarks),
	}, true
}

// Asset extracts the typed trainset view of the record.
// The second return is false when the record is not a trainset row.
func (r CleanedRecord) Asset() (AssetRow, bool) {
	if r.Kind != KindTrainset {
		return AssetRow{}, false
	}
	row := AssetRow{
		SerialNo:        fieldString(r.Fields, FieldSerialNo),
		Status:          fieldString(r.Fields, FieldStatus),
		LastServiceDate: fieldString(r.Fields, FieldLastServiceDate),
	}
	if v, ok := r.Fields[FieldMileageKm].(float64); ok {
		row.MileageKm = &v
	}
	return row, true
}

func fieldString(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
