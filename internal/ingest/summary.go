package ingest

// summary.go aggregates cleaning results into the counts and error histogram
// shown to the uploader.

import (
	"math"
	"strings"
)

// Summary is the uploader-facing aggregation over a batch of cleaned records.
type Summary struct {
	TotalRecords    int            `json:"totalRecords"`
	ValidRecords    int            `json:"validRecords"`
	InvalidRecords  int            `json:"invalidRecords"`
	ValidPercentage int            `json:"validPercentage"`
	ErrorTypes      map[string]int `json:"errorTypes"`
}

// BuildSummary computes validity counts and an error-category histogram.
// Categories are the text preceding the first colon of each error message;
// messages without a colon count under their full text.
func BuildSummary(records []CleanedRecord) Summary {
	s := Summary{
		TotalRecords: len(records),
		ErrorTypes:   make(map[string]int),
	}

	for _, rec := range records {
		if rec.IsValid() {
			s.ValidRecords++
			continue
		}
		s.InvalidRecords++
		for _, msg := range rec.Errors {
			s.ErrorTypes[errorCategory(msg)]++
		}
	}

	if s.TotalRecords > 0 {
		s.ValidPercentage = int(math.Round(100 * float64(s.ValidRecords) / float64(s.TotalRecords)))
	}
	return s
}

func errorCategory(msg string) string {
	if i := strings.Index(msg, ":"); i >= 0 {
		return msg[:i]
	}
	return msg
}
