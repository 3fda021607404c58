package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/policycat/internal/reader"
)

// TableFormatter outputs tables as aligned text columns
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new text table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table with a header row. A table without columns
// produces no output.
func (f *TableFormatter) Format(t *reader.Table) error {
	columns := columnsOf(t)
	if len(columns) == 0 {
		return nil
	}

	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range t.Rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = plainValue(row[col])
		}
		tw.Append(record)
	}

	tw.Render()
	return nil
}
