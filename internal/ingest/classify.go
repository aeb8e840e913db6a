package ingest

// classify.go infers which canonical schema an uploaded table matches by
// scoring its cell content against fixed keyword families. Classification is
// decided once per document; every cleaned row carries the resulting kind.

import "strings"

var (
	maintenanceKeywords = []string{"train", "maintenance", "due", "status", "check", "repair"}
	trainsetKeywords    = []string{"serial", "trainset", "mileage", "service"}
)

// Classify inspects sampled rows and returns the canonical kind their table
// matches. Ambiguous or unrecognizable content degrades to KindGeneric, which
// carries an empty mapping: every row cleans trivially valid with no target
// fields rather than failing the upload.
func Classify(sample []RawRow) RowKind {
	tokens := make(map[string]struct{})
	for _, row := range sample {
		for _, cell := range row.Cells {
			for _, tok := range strings.Fields(strings.ToLower(cell)) {
				tokens[tok] = struct{}{}
			}
		}
	}

	maintenanceHits := countHits(tokens, maintenanceKeywords)
	trainsetHits := countHits(tokens, trainsetKeywords)

	switch {
	case maintenanceHits > trainsetHits:
		return KindMaintenance
	case trainsetHits > 0:
		return KindTrainset
	default:
		return KindGeneric
	}
}

func countHits(tokens map[string]struct{}, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		for tok := range tokens {
			if strings.Contains(tok, kw) {
				hits++
				break
			}
		}
	}
	return hits
}

// Canonical column mappings. The positions encode the expected export layout;
// the cleaner never consults header text.
var (
	maintenanceMapping = []ColumnMapping{
		{SourceColumn: 0, TargetField: FieldTrainID, Type: TypeString, Required: true},
		{SourceColumn: 1, TargetField: FieldMaintenanceType, Type: TypeString},
		{SourceColumn: 2, TargetField: FieldDescription, Type: TypeString},
		{SourceColumn: 3, TargetField: FieldStatus, Type: TypeEnum,
			EnumValues: []string{"Pending", "In Progress", "Completed", "Overdue"}},
		{SourceColumn: 4, TargetField: FieldRaisedDate, Type: TypeDate},
		{SourceColumn: 5, TargetField: FieldNextDueDate, Type: TypeDate},
		{SourceColumn: 6, TargetField: FieldRemarks, Type: TypeString},
	}

	trainsetMapping = []ColumnMapping{
		{SourceColumn: 0, TargetField: FieldSerialNo, Type: TypeString, Required: true},
		{SourceColumn: 1, TargetField: FieldStatus, Type: TypeEnum,
			EnumValues: []string{"Active", "Standby", "Maintenance"}},
		{SourceColumn: 2, TargetField: FieldMileageKm, Type: TypeNumber},
		{SourceColumn: 3, TargetField: FieldLastServiceDate, Type: TypeDate},
	}
)

// MappingFor returns the ordered column mappings for a canonical kind.
// KindGeneric has no mappings.
func MappingFor(kind RowKind) []ColumnMapping {
	switch kind {
	case KindMaintenance:
		return maintenanceMapping
	case KindTrainset:
		return trainsetMapping
	default:
		return nil
	}
}
