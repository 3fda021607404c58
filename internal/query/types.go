// Package query compiles policy filters into PostgREST-style query strings.
//
// Each user-facing filter (countries, policy types, sub-types, index types)
// is reduced to a Filter variant: no constraint, equality on one value, or
// set membership on several. Date ranges and column selections compile to
// their own clauses, and the clauses are joined with '&' in a fixed order.
//
// Example usage:
//
//	q := DefaultEventQuery()
//	q.Countries = Select("Japan", "China")
//	q.Dates.From, q.Dates.To = "2020-01-01", "2020-01-05"
//	filter, err := q.Compile()
//	if err != nil {
//	    log.Fatal(err)
//	}
package query

import "time"

// DateLayout is the ISO 8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

// AllSentinel is the reserved input value meaning "no constraint".
const AllSentinel = "All"

// FilterKind identifies the shape of a Filter.
type FilterKind int

const (
	// NoFilter leaves the field unconstrained
	NoFilter FilterKind = iota
	// Equals compiles to field=eq.value
	Equals
	// AnyOf compiles to field=in.(v1,v2,...)
	AnyOf
)

// String returns the PostgREST operator name of the kind.
func (k FilterKind) String() string {
	switch k {
	case Equals:
		return "eq"
	case AnyOf:
		return "in"
	default:
		return "none"
	}
}

// Filter is a constraint on a single backend column.
//
// The zero value is NoFilter.
type Filter struct {
	Kind   FilterKind
	Values []string
}

// All returns a Filter that places no constraint on its field.
func All() Filter {
	return Filter{Kind: NoFilter}
}

// Select builds a Filter from caller-supplied values.
//
// No values, or any value equal to AllSentinel, yields NoFilter. Duplicates
// are dropped keeping the first occurrence; one remaining value yields
// Equals and more yield AnyOf in input order.
func Select(values ...string) Filter {
	if len(values) == 0 {
		return All()
	}

	seen := make(map[string]bool, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		if v == AllSentinel {
			return All()
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		distinct = append(distinct, v)
	}

	if len(distinct) == 1 {
		return Filter{Kind: Equals, Values: distinct}
	}
	return Filter{Kind: AnyOf, Values: distinct}
}

// Normalize re-derives Kind from Values using the rules of Select. A
// hand-built Filter whose Kind disagrees with its values, such as AnyOf
// with a single value or Equals on AllSentinel, is corrected.
func (f Filter) Normalize() Filter {
	if f.Kind == NoFilter {
		return All()
	}
	return Select(f.Values...)
}

// IsAll reports whether the filter leaves its field unconstrained.
func (f Filter) IsAll() bool {
	return f.Kind == NoFilter || len(f.Values) == 0
}

// DateRange selects records by their start and end dates.
//
// From and To are embedded verbatim; the backend validates them.
type DateRange struct {
	From string
	To   string

	// IncludeOpenEnded also selects records started on or before To that
	// have no end date yet.
	IncludeOpenEnded bool
}

// EventQuery describes a request against the policy event resource.
type EventQuery struct {
	Countries     Filter
	Categories    Filter
	Subcategories Filter

	// BaseColumns replaces DefaultEventColumns when non-nil.
	BaseColumns       []string
	AdditionalColumns []string

	Dates DateRange

	// LegacyCategoryOverwrite reproduces the historical wire format in which
	// a multi-valued sub-type clause replaced a multi-valued type clause.
	LegacyCategoryOverwrite bool
}

// ScoreQuery describes a request against the policy intensity resource.
type ScoreQuery struct {
	Countries  Filter
	IndexTypes Filter
	From       string
	To         string
}

// Backend column names.
const (
	FieldCountry     = "country"
	FieldType        = "type"
	FieldSubType     = "type_sub_cat"
	FieldDateStart   = "date_start"
	FieldDateEnd     = "date_end"
	FieldIndexType   = "index_type"
	FieldDatePolicy  = "date_policy"
	DefaultStartDate = "2019-12-31"
)

// DefaultEventColumns is the column selection used when EventQuery.BaseColumns is nil.
var DefaultEventColumns = []string{
	"record_id",
	"policy_id",
	"entry_type",
	"update_type",
	"update_level",
	"description",
	"date_announced",
	"date_start",
	"date_end",
	"country",
	"ISO_A3",
	"init_country_level",
	"province",
	"city",
	"type",
	"type_sub_cat",
	"type_text",
	"target_country",
	"target_geog_level",
	"target_region",
	"target_province",
	"target_city",
	"target_other",
	"target_who_what",
	"target_direction",
	"travel_mechanism",
	"compliance",
	"enforcer",
	"link",
	"date_updated",
	"recorded_date",
}

// DefaultEventQuery returns an unconstrained event query covering
// DefaultStartDate through today (UTC), including open-ended records.
func DefaultEventQuery() EventQuery {
	return EventQuery{
		Dates: DateRange{
			From:             DefaultStartDate,
			To:               Today(),
			IncludeOpenEnded: true,
		},
	}
}

// DefaultScoreQuery returns an unconstrained score query covering
// DefaultStartDate through today (UTC).
func DefaultScoreQuery() ScoreQuery {
	return ScoreQuery{From: DefaultStartDate, To: Today()}
}

// Today returns the current UTC date in ISO 8601 form.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}
