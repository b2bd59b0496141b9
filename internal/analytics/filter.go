package analytics

import (
	"kyccli/internal/dataprocessing"
	"kyccli/pkg/contracts/domain"
)

// ApplyFilter selects the records passing the spec. The input is never
// mutated and records are never edited — the result shares the input's
// record values. A spec with nothing set returns every record, which makes
// filtering idempotent by construction.
//
// Categorical constraints are exact, case-sensitive string equality. The
// date window is inclusive at both ends and compared at day granularity on
// the spec's basis column; a record whose basis date is nil is excluded
// whenever either bound is set.
func ApplyFilter(records []domain.Record, spec domain.FilterSpec) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if passes(r, spec) {
			out = append(out, r)
		}
	}
	return out
}

func passes(r domain.Record, spec domain.FilterSpec) bool {
	if spec.Division != "" && r.Field(domain.ColDivision) != spec.Division {
		return false
	}
	if spec.Office != "" && r.Field(domain.ColOffice) != spec.Office {
		return false
	}
	if spec.Status != "" && r.Field(domain.ColStatus) != spec.Status {
		return false
	}
	if spec.ScanStatus != "" && r.Field(domain.ColScanStatus) != spec.ScanStatus {
		return false
	}

	if spec.HasDateBound() {
		d := r.Date(spec.Basis())
		if d == nil {
			return false
		}
		day := dataprocessing.StartOfDay(*d)
		if spec.From != nil && day.Before(dataprocessing.StartOfDay(*spec.From)) {
			return false
		}
		if spec.To != nil && day.After(dataprocessing.StartOfDay(*spec.To)) {
			return false
		}
	}
	return true
}
