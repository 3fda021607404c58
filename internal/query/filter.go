package query

import (
	"strings"
)

// reservedInList holds the characters PostgREST treats as delimiters inside in.(...)
const reservedInList = `,()"`

// Clause compiles the filter against field.
//
// It returns "" for NoFilter, "field=eq.value" for a single value and
// "field=in.(v1,v2)" for several. Values are embedded verbatim; only list
// members containing a PostgREST delimiter are double-quoted.
func (f Filter) Clause(field string) string {
	f = f.Normalize()
	if f.IsAll() {
		return ""
	}

	if f.Kind == Equals {
		return field + "=eq." + f.Values[0]
	}

	members := make([]string, len(f.Values))
	for i, v := range f.Values {
		members[i] = quoteListMember(v)
	}
	return field + "=in.(" + strings.Join(members, ",") + ")"
}

// quoteListMember double-quotes a value that would otherwise split the list
func quoteListMember(v string) string {
	if !strings.ContainsAny(v, reservedInList) {
		return v
	}
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// Clause compiles the date range against the event start and end columns.
//
// Without open-ended records the range is the conjunction
// date_start >= From and date_end <= To. With them, records started on or
// before To whose end date is null are also selected.
func (d DateRange) Clause() string {
	if d.IncludeOpenEnded {
		return "or=(and(" +
			FieldDateStart + ".gte." + d.From + "," +
			FieldDateEnd + ".lte." + d.To + "),and(" +
			FieldDateStart + ".lte." + d.To + "," +
			FieldDateEnd + ".is.null))"
	}
	return FieldDateStart + "=gte." + d.From + "&" + FieldDateEnd + "=lte." + d.To
}

// rangeClause bounds a single date column on both sides
func rangeClause(field, from, to string) string {
	return field + "=gte." + from + "&" + field + "=lte." + to
}

// MergeColumns returns defaults followed by extra, dropping repeated names.
func MergeColumns(defaults, extra []string) []string {
	seen := make(map[string]bool, len(defaults)+len(extra))
	merged := make([]string, 0, len(defaults)+len(extra))
	for _, list := range [][]string{defaults, extra} {
		for _, col := range list {
			if col == "" || seen[col] {
				continue
			}
			seen[col] = true
			merged = append(merged, col)
		}
	}
	return merged
}

// SelectClause compiles a column selection. An empty selection yields "".
func SelectClause(columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	return "select=" + strings.Join(columns, ",")
}

// joinClauses joins the non-empty clauses with '&'
func joinClauses(clauses ...string) string {
	present := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			present = append(present, c)
		}
	}
	return strings.Join(present, "&")
}
