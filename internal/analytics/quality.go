package analytics

import (
	"kyccli/pkg/contracts/domain"
)

// Quality computes the data-quality counts for a filtered record set.
//
// An "invalid date" is a cell whose raw text is non-empty but did not parse;
// empty cells are not errors. A duplicate occurrence total contributes c-1
// per distinct value appearing c times, counted over non-empty values only.
func (a *Aggregator) Quality(records []domain.Record) domain.QualityReport {
	invalid := make(map[string]int, 3)
	for _, col := range domain.DateColumns() {
		invalid[col] = 0
	}

	var accounts, consignments []string
	missingCore := 0
	coreCols := domain.CoreIdentifierColumns()
	for _, r := range records {
		for _, col := range domain.DateColumns() {
			if hasText(r.Field(col)) && r.Date(col) == nil {
				invalid[col]++
			}
		}
		if v := r.Field(domain.ColAccountNo); v != "" {
			accounts = append(accounts, v)
		}
		if v := r.Field(domain.ColConsignment); v != "" {
			consignments = append(consignments, v)
		}
		for _, col := range coreCols {
			if !hasText(r.Field(col)) {
				missingCore++
				break
			}
		}
	}

	return domain.QualityReport{
		InvalidDates:        invalid,
		DuplicateAccounts:   CountDuplicates(accounts),
		DuplicateConsign:    CountDuplicates(consignments),
		MissingCoreIDFields: missingCore,
	}
}

// CountDuplicates returns total occurrences minus distinct values: zero for
// an all-unique list, n-1 when all n values are identical.
func CountDuplicates(values []string) int {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	dup := 0
	for _, c := range counts {
		if c > 1 {
			dup += c - 1
		}
	}
	return dup
}
