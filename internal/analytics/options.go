package analytics

import (
	"sort"
	"time"

	"kyccli/pkg/contracts/domain"
)

// Options derives the distinct non-empty values available for each
// categorical filter, sorted ascending. When division is non-empty the
// office list is scoped to records of that division, mirroring the
// dependent dropdown behavior of the dashboard.
func Options(records []domain.Record, division string) domain.FilterOptions {
	officeScope := records
	if division != "" {
		officeScope = ApplyFilter(records, domain.FilterSpec{Division: division})
	}
	return domain.FilterOptions{
		Divisions:    distinctSorted(records, domain.ColDivision),
		Offices:      distinctSorted(officeScope, domain.ColOffice),
		Statuses:     distinctSorted(records, domain.ColStatus),
		ScanStatuses: distinctSorted(records, domain.ColScanStatus),
	}
}

// DefaultDateRange proposes the initial dashboard window from the dataset's
// submission dates: the 30 days up to the most recent submission, clamped to
// the earliest one. Returns nil when no record carries a submission date.
func DefaultDateRange(records []domain.Record) *domain.DateRange {
	var min, max *time.Time
	for _, r := range records {
		d := r.Date(domain.ColSubmission)
		if d == nil {
			continue
		}
		if min == nil || d.Before(*min) {
			min = d
		}
		if max == nil || d.After(*max) {
			max = d
		}
	}
	if min == nil {
		return nil
	}

	from := max.AddDate(0, 0, -30)
	if from.Before(*min) {
		from = *min
	}
	return &domain.DateRange{From: from, To: *max}
}

func distinctSorted(records []domain.Record, col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := r.Field(col)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
