package reader

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// SchemaInfo describes one column of a Parquet snapshot.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Optional     bool   `json:"optional"`
}

// ExtractSchemaInfo lists the columns of the Parquet snapshot at path in
// schema order.
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = r.Close() }()

	fields := r.Schema().Fields()
	infos := make([]SchemaInfo, 0, len(fields))
	for _, field := range fields {
		if len(field.Fields()) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNestedSchema, field.Name())
		}
		infos = append(infos, SchemaInfo{
			Name:         field.Name(),
			Type:         friendlyType(field),
			PhysicalType: physicalType(field),
			LogicalType:  logicalType(field),
			Optional:     field.Optional(),
		})
	}
	return infos, nil
}

// SchemaTable renders schema information as a Table for the output formatters.
func SchemaTable(infos []SchemaInfo) *Table {
	t := &Table{
		Columns: []string{"name", "type", "physical_type", "logical_type", "optional"},
		Rows:    make([]map[string]interface{}, 0, len(infos)),
	}
	for _, info := range infos {
		t.Rows = append(t.Rows, map[string]interface{}{
			"name":          info.Name,
			"type":          info.Type,
			"physical_type": info.PhysicalType,
			"logical_type":  info.LogicalType,
			"optional":      info.Optional,
		})
	}
	return t
}

// physicalType returns the physical type name of a Parquet field.
func physicalType(field parquet.Field) string {
	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// logicalType returns the logical type annotation, or "" when there is none.
func logicalType(field parquet.Field) string {
	lt := field.Type().LogicalType()
	if lt == nil {
		return ""
	}
	return lt.String()
}

// friendlyType maps the column onto the scalar kinds a Table can hold.
func friendlyType(field parquet.Field) string {
	if lt := field.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			return "STRING"
		case lt.Date != nil:
			return "DATE"
		}
	}
	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32, parquet.Int64, parquet.Float, parquet.Double:
		return "NUMBER"
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}
