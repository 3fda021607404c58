package reader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDecodeCSV(t *testing.T) {
	body := "record_id,country,date_start,date_end,index_med_est\n" +
		"R_1,Japan,2020-01-02,2020-03-01,12.5\n" +
		"R_2,China,2020-01-03,,7\n"

	table, err := DecodeCSV(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}

	wantCols := []string{"record_id", "country", "date_start", "date_end", "index_med_est"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", table.Columns, wantCols)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	first := table.Rows[0]
	if first["record_id"] != "R_1" {
		t.Errorf("record_id = %v, want R_1", first["record_id"])
	}
	if first["index_med_est"] != 12.5 {
		t.Errorf("index_med_est = %v, want 12.5", first["index_med_est"])
	}
	wantStart := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	if got, ok := first["date_start"].(time.Time); !ok || !got.Equal(wantStart) {
		t.Errorf("date_start = %v, want %v", first["date_start"], wantStart)
	}

	second := table.Rows[1]
	if second["date_end"] != nil {
		t.Errorf("empty date_end = %v, want nil", second["date_end"])
	}
	if second["index_med_est"] != float64(7) {
		t.Errorf("index_med_est = %v, want 7", second["index_med_est"])
	}
}

func TestDecodeCSV_TypeInference(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  []interface{}
	}{
		{"numbers", []string{"1", "2.5", "-3"}, []interface{}{1.0, 2.5, -3.0}},
		{"dates", []string{"2020-01-01", "", "2021-12-31"}, []interface{}{
			time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), nil, time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC),
		}},
		{"mixed number and text", []string{"1", "abc"}, []interface{}{"1", "abc"}},
		{"mixed number and date", []string{"20200101", "2020-01-01"}, []interface{}{"20200101", "2020-01-01"}},
		{"all empty", []string{"", ""}, []interface{}{nil, nil}},
		{"nan stays text", []string{"NaN", "1"}, []interface{}{"NaN", "1"}},
		{"hex stays text", []string{"0x10"}, []interface{}{"0x10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			b.WriteString("v\n")
			for _, c := range tt.cells {
				if c == "" {
					b.WriteString("\"\"\n")
					continue
				}
				b.WriteString(c + "\n")
			}

			table, err := DecodeCSV(strings.NewReader(b.String()))
			if err != nil {
				t.Fatalf("DecodeCSV() error = %v", err)
			}
			got, ok := table.Column("v")
			if !ok {
				t.Fatal("Column(v) missing")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("values = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeCSV_Edges(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		table, err := DecodeCSV(strings.NewReader(""))
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if !table.IsEmpty() {
			t.Errorf("IsEmpty() = false for empty body")
		}
	})

	t.Run("header only", func(t *testing.T) {
		table, err := DecodeCSV(strings.NewReader("a,b\n"))
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if table.IsEmpty() {
			t.Errorf("header-only table should keep its columns")
		}
		if table.Len() != 0 {
			t.Errorf("Len() = %d, want 0", table.Len())
		}
	})

	t.Run("byte order mark", func(t *testing.T) {
		table, err := DecodeCSV(strings.NewReader("\xEF\xBB\xBFcountry\nJapan\n"))
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if table.Columns[0] != "country" {
			t.Errorf("Columns[0] = %q, want country", table.Columns[0])
		}
	})

	t.Run("quoted commas and utf8", func(t *testing.T) {
		table, err := DecodeCSV(strings.NewReader("country,description\n\"Korea, South\",Ausgangssperre für alle\n"))
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if table.Rows[0]["country"] != "Korea, South" {
			t.Errorf("country = %v", table.Rows[0]["country"])
		}
		if table.Rows[0]["description"] != "Ausgangssperre für alle" {
			t.Errorf("description = %v", table.Rows[0]["description"])
		}
	})

	t.Run("ragged rows", func(t *testing.T) {
		if _, err := DecodeCSV(strings.NewReader("a,b\n1\n")); err == nil {
			t.Error("DecodeCSV() expected error for ragged rows")
		}
	})

	t.Run("invalid utf8", func(t *testing.T) {
		_, err := DecodeCSV(strings.NewReader("a\n\xff\xfe\n"))
		if !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("DecodeCSV() error = %v, want ErrInvalidEncoding", err)
		}
	})

	t.Run("duplicate column", func(t *testing.T) {
		_, err := DecodeCSV(strings.NewReader("a,a\n1,2\n"))
		if !errors.Is(err, ErrDuplicateColumn) {
			t.Errorf("DecodeCSV() error = %v, want ErrDuplicateColumn", err)
		}
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.csv")
	if err := os.WriteFile(path, []byte("country\nJapan\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	if _, err := ReadFile(filepath.Join(dir, "events.json")); err == nil {
		t.Error("ReadFile() expected error for unsupported extension")
	}
	if _, err := ReadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("ReadFile() expected error for missing file")
	}
}

func TestTable_Empty(t *testing.T) {
	var nilTable *Table
	if !nilTable.IsEmpty() || nilTable.Len() != 0 {
		t.Error("nil table should be empty")
	}
	if !Empty().IsEmpty() {
		t.Error("Empty() should be empty")
	}
	if _, ok := Empty().Column("x"); ok {
		t.Error("Column() should report missing column")
	}
}
