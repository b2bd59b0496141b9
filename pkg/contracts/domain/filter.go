package domain

import (
	"fmt"
	"time"
)

// FilterSpec describes one filter application over the canonical dataset.
// Zero values mean "no constraint"; a spec with nothing set passes every record.
// Specs are transient — rebuilt from request state on every application.
type FilterSpec struct {
	// DateBasis selects which of the three date columns the From/To window
	// applies to. Defaults to the submission date when empty.
	DateBasis string     `json:"date_basis,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`

	Division   string `json:"division,omitempty"`
	Office     string `json:"office,omitempty"`
	Status     string `json:"status,omitempty"`
	ScanStatus string `json:"scan_status,omitempty"`
}

// Basis returns the effective date basis column.
func (f FilterSpec) Basis() string {
	if f.DateBasis == "" {
		return ColSubmission
	}
	return f.DateBasis
}

// HasDateBound reports whether either end of the date window is set.
func (f FilterSpec) HasDateBound() bool {
	return f.From != nil || f.To != nil
}

// Validate checks that the basis names one of the three date columns.
func (f FilterSpec) Validate() error {
	if f.DateBasis == "" {
		return nil
	}
	for _, col := range DateColumns() {
		if f.DateBasis == col {
			return nil
		}
	}
	return fmt.Errorf("invalid date basis %q", f.DateBasis)
}

// DateRange is an inclusive day-granularity window, used for the default
// dashboard window derived at import time.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// FilterOptions holds the distinct values available for each categorical
// filter, derived from the loaded dataset for UI dropdown population.
type FilterOptions struct {
	Divisions    []string `json:"divisions"`
	Offices      []string `json:"offices"`
	Statuses     []string `json:"statuses"`
	ScanStatuses []string `json:"scan_statuses"`
}
