package ingest

// coerce.go converts raw cell strings into typed canonical values.
//
// Coercion is total: every (DataType, value) pair produces a Coerced result
// and never panics. Blank input yields a nil value with no error regardless
// of type; required-ness is the cleaner's concern, not this layer's.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Coerced is the outcome of coercing a single cell.
// Value may be non-nil even when Err is set: enum coercion soft-fails,
// returning a best-effort value alongside the error so downstream code can
// still use it.
type Coerced struct {
	Value any
	Err   string
}

// Primary date layouts, tried in order. ISO first so unambiguous values never
// hit the US-style interpretations.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
}

// Fallback layouts for messier exports.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// CoerceValue coerces a raw cell string to the declared data type.
// enumValues is consulted only for TypeEnum.
func CoerceValue(raw string, dt DataType, enumValues []string) Coerced {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Coerced{}
	}

	switch dt {
	case TypeDate:
		return coerceDate(trimmed)
	case TypeNumber:
		return coerceNumber(trimmed)
	case TypeEnum:
		return coerceEnum(trimmed, enumValues)
	default:
		return Coerced{Value: trimmed}
	}
}

func coerceDate(raw string) Coerced {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Coerced{Value: t.Format("2006-01-02")}
		}
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Coerced{Value: t.Format("2006-01-02")}
		}
	}
	return Coerced{Err: fmt.Sprintf("Invalid date format: %s", raw)}
}

func coerceNumber(raw string) Coerced {
	// Strip currency symbols, thousands separators and any other decoration,
	// keeping only digits, decimal points and minus signs.
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Coerced{Err: fmt.Sprintf("Invalid number: %s", raw)}
	}
	return Coerced{Value: f}
}

// coerceEnum resolves a value against the allowed set. Matching is forgiving:
// exact (case-insensitive), then substring in either direction, then a shared
// four-character prefix to recover simple typos. When nothing matches, the
// raw value is passed through together with a soft error so the caller can
// decide whether to honor it.
func coerceEnum(raw string, enumValues []string) Coerced {
	for _, v := range enumValues {
		if strings.EqualFold(raw, v) {
			return Coerced{Value: v}
		}
	}

	lower := strings.ToLower(raw)
	for _, v := range enumValues {
		vl := strings.ToLower(v)
		if strings.Contains(vl, lower) || strings.Contains(lower, vl) {
			return Coerced{Value: v}
		}
	}

	if len(lower) >= 4 {
		for _, v := range enumValues {
			vl := strings.ToLower(v)
			if len(vl) >= 4 && vl[:4] == lower[:4] {
				return Coerced{Value: v}
			}
		}
	}

	return Coerced{
		Value: raw,
		Err:   fmt.Sprintf("Invalid enum value: %s. Expected one of: %s", raw, strings.Join(enumValues, ", ")),
	}
}
