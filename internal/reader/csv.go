package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// dateLayout matches the ISO 8601 calendar dates served by the API
const dateLayout = "2006-01-02"

var (
	// ErrInvalidEncoding is returned when the body is not valid UTF-8
	ErrInvalidEncoding = errors.New("body is not valid UTF-8")

	// ErrDuplicateColumn is returned when a header names a column twice
	ErrDuplicateColumn = errors.New("duplicate column in header")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// columnKind is the inferred type of a CSV column
type columnKind int

const (
	kindNumber columnKind = iota
	kindDate
	kindString
)

// DecodeCSV reads a CSV document with a header row into a Table.
//
// Empty cells become nil. Each column's type is inferred from all of its
// non-empty cells: float64 when every cell parses as a number, time.Time
// when every cell is an ISO date, string otherwise. A completely empty body
// decodes to an empty table.
func DecodeCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(br)
	csvReader.FieldsPerRecord = 0

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return Empty(), nil
	}

	header := records[0]
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if !utf8.ValidString(name) {
			return nil, ErrInvalidEncoding
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		seen[name] = true
	}

	body := records[1:]
	for _, record := range body {
		for _, cell := range record {
			if !utf8.ValidString(cell) {
				return nil, ErrInvalidEncoding
			}
		}
	}

	kinds := make([]columnKind, len(header))
	for i := range header {
		kinds[i] = inferKind(body, i)
	}

	rows := make([]map[string]interface{}, 0, len(body))
	for _, record := range body {
		row := make(map[string]interface{}, len(header))
		for i, name := range header {
			row[name] = convertCell(record[i], kinds[i])
		}
		rows = append(rows, row)
	}

	columns := make([]string, len(header))
	copy(columns, header)
	return &Table{Columns: columns, Rows: rows}, nil
}

// ReadCSVFile decodes a CSV file from disk.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return DecodeCSV(file)
}

// inferKind picks the narrowest type that fits every non-empty cell of column i
func inferKind(records [][]string, i int) columnKind {
	allNumber, allDate, nonEmpty := true, true, false
	for _, record := range records {
		cell := record[i]
		if cell == "" {
			continue
		}
		nonEmpty = true
		if allNumber && !isNumber(cell) {
			allNumber = false
		}
		if allDate && !isDate(cell) {
			allDate = false
		}
		if !allNumber && !allDate {
			return kindString
		}
	}

	switch {
	case !nonEmpty:
		return kindString
	case allNumber:
		return kindNumber
	case allDate:
		return kindDate
	}
	return kindString
}

func isNumber(s string) bool {
	if strings.ContainsAny(s, " _") {
		return false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.HasPrefix(lower, "0x") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// convertCell turns a raw cell into its typed value
func convertCell(cell string, kind columnKind) interface{} {
	if cell == "" {
		return nil
	}
	switch kind {
	case kindNumber:
		f, _ := strconv.ParseFloat(cell, 64)
		return f
	case kindDate:
		d, _ := time.Parse(dateLayout, cell)
		return d
	default:
		return cell
	}
}
