package query

// Columns returns the effective column selection of the query.
func (q EventQuery) Columns() []string {
	defaults := q.BaseColumns
	if defaults == nil {
		defaults = DefaultEventColumns
	}
	return MergeColumns(defaults, q.AdditionalColumns)
}

// Compile builds the filter string for the policy event resource.
//
// Clauses appear in the order select, date, type, sub-type, country.
// It fails with ErrInvalidArgument before producing any output when a
// sub-type-less policy type is combined with a sub-type filter.
func (q EventQuery) Compile() (string, error) {
	if err := ValidateEventFilters(q.Categories, q.Subcategories); err != nil {
		return "", err
	}

	categories, subcategories := q.Categories.Normalize(), q.Subcategories.Normalize()
	categoryClause := categories.Clause(FieldType)
	subcategoryClause := subcategories.Clause(FieldSubType)
	countryClause := q.Countries.Clause(FieldCountry)

	if q.LegacyCategoryOverwrite && categories.Kind == AnyOf && subcategories.Kind == AnyOf {
		categoryClause = subcategoryClause
		subcategoryClause = ""
	}

	return joinClauses(
		SelectClause(q.Columns()),
		q.Dates.Clause(),
		categoryClause,
		subcategoryClause,
		countryClause,
	), nil
}

// Compile builds the filter string for the policy intensity resource.
//
// Clauses appear in the order date, index type, country.
func (q ScoreQuery) Compile() (string, error) {
	return joinClauses(
		rangeClause(FieldDatePolicy, q.From, q.To),
		q.IndexTypes.Clause(FieldIndexType),
		q.Countries.Clause(FieldCountry),
	), nil
}
