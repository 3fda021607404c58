package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/policycat/internal/reader"
)

// CSVFormatter outputs tables as CSV.
//
// By default, string cells starting with a character that spreadsheets
// treat as a formula are prefixed with a single quote. A raw formatter
// writes them unchanged, so the file decodes back to the fetched data.
type CSVFormatter struct {
	writer io.Writer
	raw    bool
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// SetRaw disables the formula guard
func (c *CSVFormatter) SetRaw(raw bool) {
	c.raw = raw
}

// Format writes the header row followed by one record per row.
// A table without columns produces no output.
func (c *CSVFormatter) Format(t *reader.Table) error {
	csvWriter := csv.NewWriter(c.writer)

	columns := columnsOf(t)
	if len(columns) == 0 {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return fmt.Errorf("failed to flush CSV writer: %w", err)
		}
		return nil
	}

	if err := csvWriter.Write(columns); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = c.formatValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// formatValue converts a value to string for CSV output
func (c *CSVFormatter) formatValue(v interface{}) string {
	if val, ok := v.(string); ok && len(val) > 0 && !c.raw {
		// Sanitize against CSV injection by prefixing dangerous characters
		// that could trigger formula execution in spreadsheet applications
		firstChar := val[0]
		if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' || firstChar == '\t' || firstChar == '\r' || firstChar == '\n' || firstChar == '|' {
			return "'" + strings.ReplaceAll(val, "'", "''")
		}
	}
	return plainValue(v)
}
