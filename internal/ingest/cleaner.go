package ingest

// cleaner.go applies the classifier's column mappings to raw rows, producing
// validity-flagged cleaned records.
//
// Error strings are part of the uploader-facing contract: required-field
// errors read `Required field '<field>' is missing`, coercion errors are
// prefixed with the target field (`nextDueDate: Invalid date format: ...`).
// The summary builder keys its histogram on the text before the first colon,
// so the prefix doubles as the error category.

import "fmt"

// CleanRows cleans every data row of a parsed document against the mappings
// for its classified kind. The first row is always treated as the header and
// skipped; if header detection was wrong, the stray header row simply fails
// coercion downstream (its date and number columns contain label text) and is
// excluded by validity filtering rather than corrupting the store.
func CleanRows(rows []RawRow, kind RowKind) []CleanedRecord {
	if len(rows) <= 1 {
		return nil
	}
	mappings := MappingFor(kind)

	records := make([]CleanedRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, CleanRow(row, kind, mappings))
	}
	return records
}

// CleanRow cleans a single raw row. Every mapping contributes at most one
// error; required-and-blank skips coercion entirely for that field.
func CleanRow(row RawRow, kind RowKind, mappings []ColumnMapping) CleanedRecord {
	rec := CleanedRecord{
		Original: row,
		Kind:     kind,
		Fields:   make(map[string]any, len(mappings)),
	}

	for _, m := range mappings {
		raw := row.Cell(m.SourceColumn)

		if raw == "" {
			if m.Required {
				rec.Errors = append(rec.Errors, fmt.Sprintf("Required field '%s' is missing", m.TargetField))
				continue
			}
			rec.Fields[m.TargetField] = nil
			continue
		}

		coerced := CoerceValue(raw, m.Type, m.EnumValues)
		rec.Fields[m.TargetField] = coerced.Value
		if coerced.Err != "" {
			rec.Errors = append(rec.Errors, fmt.Sprintf("%s: %s", m.TargetField, coerced.Err))
		}
	}

	return rec
}
