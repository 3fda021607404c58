package query

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a filter combination can never
	// match any record on the backend
	ErrInvalidArgument = errors.New("invalid argument")
)

// NoSubcategoryTypes lists policy types whose records never carry a sub-type.
var NoSubcategoryTypes = []string{
	"Curfew",
	"Declaration of Emergency",
	"Lockdown",
	"New Task Force, Bureau or Administrative Configuration",
	"Other Policy Not Listed Above",
}

// HasSubcategories reports whether records of the policy type can carry a sub-type.
func HasSubcategories(policyType string) bool {
	for _, t := range NoSubcategoryTypes {
		if t == policyType {
			return false
		}
	}
	return true
}

// ValidateEventFilters rejects a single sub-type-less policy type combined
// with a sub-type filter.
func ValidateEventFilters(categories, subcategories Filter) error {
	categories, subcategories = categories.Normalize(), subcategories.Normalize()
	if categories.Kind != Equals || subcategories.IsAll() {
		return nil
	}
	category := categories.Values[0]
	if !HasSubcategories(category) {
		return fmt.Errorf("%w: policy type %q has no sub-types, sub-type filter must be %q",
			ErrInvalidArgument, category, AllSentinel)
	}
	return nil
}
