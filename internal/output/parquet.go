package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/policycat/internal/reader"
)

// ErrNoColumns is returned when a snapshot would have an empty schema
var ErrNoColumns = errors.New("cannot write parquet snapshot without columns")

// ParquetWriter outputs tables as flat Parquet files.
//
// Every column is optional. Columns holding only float64 values become
// DOUBLE, only time.Time values become DATE, only bool values become
// BOOLEAN, and anything else becomes a UTF-8 string.
//
// Parquet groups store their fields sorted by name, so the table's column
// order is recorded under reader.ColumnOrderKey in the file metadata and
// restored by reader.ReadParquetFile.
type ParquetWriter struct {
	writer io.Writer
}

// NewParquetWriter creates a new Parquet snapshot writer
func NewParquetWriter(w io.Writer) *ParquetWriter {
	return &ParquetWriter{writer: w}
}

// SetOutput sets the output writer
func (p *ParquetWriter) SetOutput(w io.Writer) {
	p.writer = w
}

type leafKind int

const (
	leafString leafKind = iota
	leafDouble
	leafDate
	leafBool
)

// Format writes the table as a single Parquet file.
func (p *ParquetWriter) Format(t *reader.Table) error {
	columns := columnsOf(t)
	if len(columns) == 0 {
		return ErrNoColumns
	}

	kinds := make(map[string]leafKind, len(columns))
	group := make(parquet.Group, len(columns))
	for _, col := range columns {
		kind := inferLeaf(t.Rows, col)
		kinds[col] = kind
		group[col] = parquet.Optional(leafNode(kind))
	}
	schema := parquet.NewSchema("policycat", group)

	// the schema orders fields by name, so rows follow schema.Fields()
	fields := schema.Fields()
	rows := make([]parquet.Row, 0, len(t.Rows))
	for _, src := range t.Rows {
		row := make(parquet.Row, len(fields))
		for i, field := range fields {
			row[i] = leafValue(src[field.Name()], kinds[field.Name()]).Level(0, definitionLevel(src[field.Name()]), i)
		}
		rows = append(rows, row)
	}

	order, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("failed to encode column order: %w", err)
	}

	pw := parquet.NewWriter(p.writer, schema, parquet.KeyValueMetadata(reader.ColumnOrderKey, string(order)))
	if _, err := pw.WriteRows(rows); err != nil {
		_ = pw.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// inferLeaf picks the physical type covering every non-nil value of col
func inferLeaf(rows []map[string]interface{}, col string) leafKind {
	kind := leafString
	seen := false
	for _, row := range rows {
		v := row[col]
		if v == nil {
			continue
		}
		var k leafKind
		switch v.(type) {
		case float64:
			k = leafDouble
		case time.Time:
			k = leafDate
		case bool:
			k = leafBool
		default:
			return leafString
		}
		if seen && k != kind {
			return leafString
		}
		kind, seen = k, true
	}
	return kind
}

func leafNode(kind leafKind) parquet.Node {
	switch kind {
	case leafDouble:
		return parquet.Leaf(parquet.DoubleType)
	case leafDate:
		return parquet.Date()
	case leafBool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}

func definitionLevel(v interface{}) int {
	if v == nil {
		return 0
	}
	return 1
}

// leafValue encodes v for a column of the given kind
func leafValue(v interface{}, kind leafKind) parquet.Value {
	if v == nil {
		return parquet.NullValue()
	}
	switch kind {
	case leafDouble:
		return parquet.DoubleValue(v.(float64))
	case leafDate:
		d := v.(time.Time)
		days := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
		return parquet.Int32Value(int32(days))
	case leafBool:
		return parquet.BooleanValue(v.(bool))
	default:
		return parquet.ByteArrayValue([]byte(plainValue(v)))
	}
}
