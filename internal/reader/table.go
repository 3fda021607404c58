// Package reader decodes policy data into in-memory tables.
//
// Tables come from two sources: CSV response bodies returned by the policy
// API, and Parquet snapshots previously written by the output package. Rows
// are maps from column name to a typed scalar: string, float64, time.Time
// (calendar date) or nil.
package reader

// Table is an ordered set of rows sharing a column list.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Empty returns a table with no columns and no rows.
//
// It is the value returned when a bounded request times out.
func Empty() *Table {
	return &Table{
		Columns: []string{},
		Rows:    []map[string]interface{}{},
	}
}

// IsEmpty reports whether the table has neither rows nor columns.
func (t *Table) IsEmpty() bool {
	return t == nil || (len(t.Columns) == 0 && len(t.Rows) == 0)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of a single column in row order, and whether
// the column exists.
func (t *Table) Column(name string) ([]interface{}, bool) {
	if t == nil {
		return nil, false
	}
	found := false
	for _, c := range t.Columns {
		if c == name {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}

	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values, true
}
