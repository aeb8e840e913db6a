package ingest

// parse.go turns uploaded bytes into positional RawRows.
//
// Parsing is the only fatal stage of the pipeline: a malformed file aborts
// the whole upload with an error and no partial rows. Everything after
// parsing records problems on individual rows instead of failing.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseDocument parses raw upload bytes into ordered positional rows.
// PDF documents carry no tabular content and always yield zero rows.
func ParseDocument(data []byte, kind SourceKind) ([]RawRow, error) {
	switch kind {
	case SourcePDF:
		return nil, nil
	case SourceExcel:
		return parseExcel(data)
	default:
		return parseCSV(data)
	}
}

func parseCSV(data []byte) ([]RawRow, error) {
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return toRawRows(records), nil
}

func parseExcel(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return toRawRows(records), nil
}

// toRawRows converts parsed records to positional rows. Column naming is the
// fixed unlabeled 0,1,2,... scheme: downstream cleaning never sees header
// text, only positions.
func toRawRows(records [][]string) []RawRow {
	rows := make([]RawRow, 0, len(records))
	for i, rec := range records {
		cells := make(map[int]string, len(rec))
		for col, val := range rec {
			cells[col] = val
		}
		rows = append(rows, RawRow{Index: i + 1, Cells: cells})
	}
	return rows
}

// decodeToUTF8 normalizes common spreadsheet-export encodings. UTF-8 passes
// through (BOM stripped), UTF-16 is detected by BOM, and anything that is not
// valid UTF-8 falls back to Latin-1, which maps every byte to a code point
// and therefore cannot fail.
func decodeToUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[3:], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data[2:])
		return out, err
	case bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data[2:])
		return out, err
	}

	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	return out, err
}
