package ingest

import (
	"testing"
	"unicode/utf16"
)

func TestParseDocument_CSV(t *testing.T) {
	data := []byte("Train ID,Status\nTS-101,Pending\nTS-102,Overdue\n")

	rows, err := ParseDocument(data, SourceCSV)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Index != 1 || rows[2].Index != 3 {
		t.Errorf("indices = %d, %d; want 1, 3", rows[0].Index, rows[2].Index)
	}
	if rows[1].Cell(0) != "TS-101" || rows[1].Cell(1) != "Pending" {
		t.Errorf("row 2 cells = %q, %q", rows[1].Cell(0), rows[1].Cell(1))
	}
}

func TestParseDocument_RaggedRows(t *testing.T) {
	data := []byte("a,b,c\nonly-one\n1,2,3,4\n")

	rows, err := ParseDocument(data, SourceCSV)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1].Cell(1) != "" {
		t.Errorf("missing cell should be empty, got %q", rows[1].Cell(1))
	}
	if rows[2].Cell(3) != "4" {
		t.Errorf("extra cell = %q, want 4", rows[2].Cell(3))
	}
}

func TestParseDocument_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)

	rows, err := ParseDocument(data, SourceCSV)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if rows[0].Cell(0) != "a" {
		t.Errorf("first cell = %q, want a (BOM stripped)", rows[0].Cell(0))
	}
}

func TestParseDocument_UTF16LE(t *testing.T) {
	text := "a,b\n1,2\n"
	encoded := []byte{0xFF, 0xFE}
	for _, u := range utf16.Encode([]rune(text)) {
		encoded = append(encoded, byte(u), byte(u>>8))
	}

	rows, err := ParseDocument(encoded, SourceCSV)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(rows) != 2 || rows[1].Cell(1) != "2" {
		t.Errorf("decoded rows = %v", rows)
	}
}

func TestParseDocument_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as standalone UTF-8.
	data := []byte{'n', 0xE9, ',', 'x', '\n'}

	rows, err := ParseDocument(data, SourceCSV)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if rows[0].Cell(0) != "né" {
		t.Errorf("cell = %q, want né", rows[0].Cell(0))
	}
}

func TestParseDocument_PDFYieldsNoRows(t *testing.T) {
	rows, err := ParseDocument([]byte("%PDF-1.7 ..."), SourcePDF)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
}

func TestParseDocument_InvalidExcel(t *testing.T) {
	if _, err := ParseDocument([]byte("not a workbook"), SourceExcel); err == nil {
		t.Fatal("expected error for invalid workbook bytes")
	}
}

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		input string
		want  SourceKind
	}{
		{"csv", SourceCSV},
		{"CSV", SourceCSV},
		{"xlsx", SourceExcel},
		{"excel", SourceExcel},
		{"pdf", SourcePDF},
		{"", SourceCSV},
		{"something-else", SourceCSV},
	}
	for _, tt := range tests {
		if got := ParseSourceKind(tt.input); got != tt.want {
			t.Errorf("ParseSourceKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
