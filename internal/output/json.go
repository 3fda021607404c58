package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vegasq/policycat/internal/reader"
)

// JSONFormatter outputs tables as JSON Lines
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row. Dates are rendered as "YYYY-MM-DD".
func (j *JSONFormatter) Format(t *reader.Table) error {
	if t == nil {
		return nil
	}
	encoder := json.NewEncoder(j.writer)
	for _, row := range t.Rows {
		if err := encoder.Encode(jsonRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func jsonRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		if d, ok := v.(time.Time); ok {
			out[k] = d.Format(dateLayout)
			continue
		}
		out[k] = v
	}
	return out
}
