package ingest

import (
	"strings"
	"testing"
)

func TestCoerceValue_Blank(t *testing.T) {
	for _, dt := range []DataType{TypeString, TypeDate, TypeNumber, TypeEnum} {
		got := CoerceValue("   ", dt, []string{"A"})
		if got.Value != nil {
			t.Errorf("blank value for type %d: Value = %v, want nil", dt, got.Value)
		}
		if got.Err != "" {
			t.Errorf("blank value for type %d: Err = %q, want empty", dt, got.Err)
		}
	}
}

func TestCoerceValue_Dates(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "2024-03-15"},
		{"03/15/2024", "2024-03-15"},
		{"3/5/2024", "2024-03-05"},
		{"03-15-2024", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"Mar 15, 2024", "2024-03-15"},
		{"15 Mar 2024", "2024-03-15"},
		{"2024-03-15T10:30:00", "2024-03-15"},
	}

	for _, tt := range tests {
		got := CoerceValue(tt.input, TypeDate, nil)
		if got.Err != "" {
			t.Errorf("CoerceValue(%q) unexpected error: %s", tt.input, got.Err)
			continue
		}
		if got.Value != tt.want {
			t.Errorf("CoerceValue(%q) = %v, want %q", tt.input, got.Value, tt.want)
		}
	}
}

func TestCoerceValue_InvalidDate(t *testing.T) {
	got := CoerceValue("next Tuesday", TypeDate, nil)
	if got.Err == "" {
		t.Fatal("expected error for unparseable date")
	}
	if !strings.HasPrefix(got.Err, "Invalid date format:") {
		t.Errorf("Err = %q, want Invalid date format prefix", got.Err)
	}
}

func TestCoerceValue_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"42", 42},
		{"1,250.5", 1250.5},
		{"$99.99", 99.99},
		{"-17", -17},
		{"85000 km", 85000},
	}

	for _, tt := range tests {
		got := CoerceValue(tt.input, TypeNumber, nil)
		if got.Err != "" {
			t.Errorf("CoerceValue(%q) unexpected error: %s", tt.input, got.Err)
			continue
		}
		if got.Value != tt.want {
			t.Errorf("CoerceValue(%q) = %v, want %v", tt.input, got.Value, tt.want)
		}
	}
}

func TestCoerceValue_InvalidNumber(t *testing.T) {
	for _, input := range []string{"abc", "--", "..."} {
		got := CoerceValue(input, TypeNumber, nil)
		if got.Err == "" {
			t.Errorf("CoerceValue(%q) expected error", input)
		}
	}
}

func TestCoerceValue_Enum(t *testing.T) {
	statuses := []string{"Pending", "In Progress", "Completed", "Overdue"}

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Completed", "Completed", false},
		{"completed", "Completed", false},
		{"progress", "In Progress", false},
		{"compelted", "Completed", false}, // typo recovered via shared prefix
		{"Cancelled", "Cancelled", true},  // raw passthrough with soft error
	}

	for _, tt := range tests {
		got := CoerceValue(tt.input, TypeEnum, statuses)
		if got.Value != tt.want {
			t.Errorf("CoerceValue(%q) = %v, want %q", tt.input, got.Value, tt.want)
		}
		if (got.Err != "") != tt.wantErr {
			t.Errorf("CoerceValue(%q) Err = %q, wantErr = %v", tt.input, got.Err, tt.wantErr)
		}
	}
}

func TestCoerceValue_EnumErrorListsAllowed(t *testing.T) {
	got := CoerceValue("Bogus", TypeEnum, []string{"Active", "Standby"})
	if !strings.Contains(got.Err, "Active, Standby") {
		t.Errorf("enum error should list allowed values, got %q", got.Err)
	}
	if !strings.HasPrefix(got.Err, "Invalid enum value:") {
		t.Errorf("Err = %q, want Invalid enum value prefix", got.Err)
	}
}
