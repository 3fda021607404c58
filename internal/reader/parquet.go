package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

// ErrNestedSchema is returned for snapshots whose columns are not flat
var ErrNestedSchema = errors.New("nested parquet columns are not supported")

// ColumnOrderKey names the file metadata entry holding the JSON array of
// column names in their original order.
const ColumnOrderKey = "policycat.columns"

// ParquetReader reads a Parquet snapshot into a Table.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewParquetReader opens a Parquet snapshot at path.
//
// Returns an error if the file doesn't exist or is not a valid parquet file.
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll loads every row of the snapshot into memory.
//
// Column order follows the ColumnOrderKey metadata when it lists exactly the
// schema's columns, and the file schema otherwise. Columns annotated as dates are
// returned as time.Time, other numeric columns as float64.
func (r *ParquetReader) ReadAll() (*Table, error) {
	fields := r.pqFile.Schema().Fields()
	columns := make([]string, len(fields))
	isDate := make([]bool, len(fields))
	for i, field := range fields {
		if len(field.Fields()) > 0 || field.Repeated() {
			return nil, fmt.Errorf("%w: %s", ErrNestedSchema, field.Name())
		}
		columns[i] = field.Name()
		if lt := field.Type().LogicalType(); lt != nil && lt.Date != nil {
			isDate[i] = true
		}
	}

	table := &Table{Columns: r.columnOrder(columns), Rows: []map[string]interface{}{}}

	pqReader := parquet.NewReader(r.pqFile)
	defer func() { _ = pqReader.Close() }()

	buf := make([]parquet.Row, 64)
	for {
		n, err := pqReader.ReadRows(buf)
		for _, values := range buf[:n] {
			row := make(map[string]interface{}, len(columns))
			for _, name := range columns {
				row[name] = nil
			}
			for _, v := range values {
				col := v.Column()
				if col < 0 || col >= len(columns) {
					continue
				}
				row[columns[col]] = convertValue(v, isDate[col])
			}
			table.Rows = append(table.Rows, row)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return table, nil
}

// columnOrder returns the recorded column order, falling back to schema
// order when the metadata is absent or does not match the schema
func (r *ParquetReader) columnOrder(schemaColumns []string) []string {
	raw, ok := r.pqFile.Lookup(ColumnOrderKey)
	if !ok {
		return schemaColumns
	}
	var recorded []string
	if err := json.Unmarshal([]byte(raw), &recorded); err != nil || len(recorded) != len(schemaColumns) {
		return schemaColumns
	}

	present := make(map[string]bool, len(schemaColumns))
	for _, name := range schemaColumns {
		present[name] = true
	}
	for _, name := range recorded {
		if !present[name] {
			return schemaColumns
		}
		delete(present, name)
	}
	return recorded
}

// Schema returns the parquet file schema.
func (r *ParquetReader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close closes the parquet reader and releases associated resources.
func (r *ParquetReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// convertValue maps a parquet leaf value onto the table scalar types
func convertValue(v parquet.Value, date bool) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		if date {
			return time.Unix(int64(v.Int32())*86400, 0).UTC()
		}
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

// ReadParquetFile reads a whole snapshot file.
func ReadParquetFile(path string) (*Table, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.ReadAll()
}

// ReadFile reads a snapshot, choosing the decoder by file extension.
//
// ".parquet" files are read as Parquet and ".csv" files as CSV.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ReadParquetFile(path)
	case ".csv":
		return ReadCSVFile(path)
	default:
		return nil, fmt.Errorf("unsupported snapshot extension %q: use .parquet or .csv", filepath.Ext(path))
	}
}
