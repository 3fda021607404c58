// Package output renders policy tables in various formats.
//
// Currently supported formats:
//   - table: aligned text columns for terminals
//   - csv: comma-separated values with header row
//   - json: one JSON object per line
//   - parquet: a flat Parquet snapshot that reader.ReadParquetFile can load
//
// Example usage:
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(table); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/vegasq/policycat/internal/reader"
)

// ErrUnsupportedFormat is returned by New for an unknown format name
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the accepted format names.
var Formats = []string{"table", "csv", "json", "parquet"}

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to convert a table to the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *reader.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Option adjusts a formatter built by New.
type Option func(*options)

type options struct {
	raw bool
}

// Raw makes the csv format write string cells verbatim instead of guarding
// them against spreadsheet formula evaluation. Other formats ignore it.
func Raw() Option {
	return func(o *options) {
		o.raw = true
	}
}

// New returns the formatter registered under name.
func New(name string, w io.Writer, opts ...Option) (Formatter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch name {
	case "table", "":
		return NewTableFormatter(w), nil
	case "csv":
		f := NewCSVFormatter(w)
		f.SetRaw(o.raw)
		return f, nil
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	case "parquet":
		return NewParquetWriter(w), nil
	default:
		return nil, fmt.Errorf("%w %q: use one of %v", ErrUnsupportedFormat, name, Formats)
	}
}

// columnsOf returns the table's declared columns, or the sorted union of row
// keys when the table carries none
func columnsOf(t *reader.Table) []string {
	if t == nil {
		return nil
	}
	if len(t.Columns) > 0 {
		return t.Columns
	}

	columnSet := make(map[string]bool)
	for _, row := range t.Rows {
		for col := range row {
			columnSet[col] = true
		}
	}
	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// plainValue converts a cell to its canonical text form
func plainValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(dateLayout)
	default:
		return fmt.Sprintf("%v", val)
	}
}

const dateLayout = "2006-01-02"
