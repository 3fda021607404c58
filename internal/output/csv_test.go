package output

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vegasq/policycat/internal/reader"
)

func TestCSVFormatter_Format(t *testing.T) {
	tests := []struct {
		name      string
		table     *reader.Table
		wantLines int
	}{
		{
			name:      "empty table",
			table:     reader.Empty(),
			wantLines: 0,
		},
		{
			name:      "header only",
			table:     &reader.Table{Columns: []string{"country", "type"}},
			wantLines: 1,
		},
		{
			name: "single row",
			table: &reader.Table{
				Columns: []string{"record_id", "country"},
				Rows:    []map[string]interface{}{{"record_id": "R_1", "country": "Japan"}},
			},
			wantLines: 2, // header + 1 data row
		},
		{
			name: "multiple rows",
			table: &reader.Table{
				Columns: []string{"record_id", "country"},
				Rows: []map[string]interface{}{
					{"record_id": "R_1", "country": "Japan"},
					{"record_id": "R_2", "country": "China"},
				},
			},
			wantLines: 3, // header + 2 data rows
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter := NewCSVFormatter(&buf)

			if err := formatter.Format(tt.table); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			output := buf.String()
			if tt.wantLines == 0 {
				if output != "" {
					t.Errorf("Format() output should be empty for empty table")
				}
				return
			}

			records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
			if err != nil {
				t.Errorf("Format() produced invalid CSV: %v", err)
				return
			}

			if len(records) != tt.wantLines {
				t.Errorf("Format() produced %d lines, want %d", len(records), tt.wantLines)
			}
		})
	}
}

func TestCSVFormatter_ColumnOrder(t *testing.T) {
	// declared column order wins over alphabetical order
	table := &reader.Table{
		Columns: []string{"z_last", "a_first", "m_middle"},
		Rows: []map[string]interface{}{
			{"z_last": "value1", "a_first": "value2", "m_middle": "value3"},
		},
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if header != "z_last,a_first,m_middle" {
		t.Errorf("header = %q, want declared order", header)
	}
}

func TestCSVFormatter_UndeclaredColumnsSorted(t *testing.T) {
	table := &reader.Table{
		Rows: []map[string]interface{}{
			{"z_last": "value1", "a_first": "value2"},
		},
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if header != "a_first,z_last" {
		t.Errorf("header = %q, want alphabetical order", header)
	}
}

func TestCSVFormatter_TypeFormatting(t *testing.T) {
	table := &reader.Table{
		Columns: []string{"string", "int", "float", "large", "bool", "date", "nil", "formula"},
		Rows: []map[string]interface{}{
			{
				"string":  "alice",
				"int":     int64(42),
				"float":   float64(3.14),
				"large":   float64(1234567),
				"bool":    true,
				"date":    time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
				"nil":     nil,
				"formula": "=SUM(A1)",
			},
		},
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records (header + data), got %d", len(records))
	}

	want := []string{"alice", "42", "3.14", "1234567", "true", "2020-03-01", "", "'=SUM(A1)"}
	for i, w := range want {
		if records[1][i] != w {
			t.Errorf("%s column = %q, want %q", records[0][i], records[1][i], w)
		}
	}
}

func TestCSVFormatter_RawRoundTrip(t *testing.T) {
	table := &reader.Table{
		Columns: []string{"description", "target_other"},
		Rows: []map[string]interface{}{
			{"description": "-Schools closed", "target_other": "=all"},
			{"description": "+Masks", "target_other": "@home"},
		},
	}

	formatter, err := New("csv", nil, Raw())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var buf bytes.Buffer
	formatter.SetOutput(&buf)
	if err := formatter.Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got, err := reader.DecodeCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if !reflect.DeepEqual(got.Rows, table.Rows) {
		t.Errorf("Rows = %v, want %v", got.Rows, table.Rows)
	}

	buf.Reset()
	if err := NewCSVFormatter(&buf).Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "'-Schools closed") {
		t.Errorf("guarded output = %q, want quoted formula prefix", buf.String())
	}
}

func TestCSVFormatter_SpecialCharacters(t *testing.T) {
	table := &reader.Table{
		Columns: []string{"name", "quote", "newline"},
		Rows: []map[string]interface{}{
			{"name": "Korea, South", "quote": `He said "hello"`, "newline": "line1\nline2"},
		},
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV with special characters: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if records[1][0] != "Korea, South" {
		t.Errorf("comma in value not handled correctly")
	}
	if records[1][1] != `He said "hello"` {
		t.Errorf("quotes in value not handled correctly")
	}
	if records[1][2] != "line1\nline2" {
		t.Errorf("newline in value not handled correctly")
	}
}

func TestCSVFormatter_SetOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	formatter := NewCSVFormatter(&buf1)

	table := &reader.Table{
		Columns: []string{"id"},
		Rows:    []map[string]interface{}{{"id": "R_1"}},
	}

	if err := formatter.Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf1.Len() == 0 {
		t.Error("First buffer should have content")
	}

	formatter.SetOutput(&buf2)
	if err := formatter.Format(table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf2.Len() == 0 {
		t.Error("Second buffer should have content")
	}
}
