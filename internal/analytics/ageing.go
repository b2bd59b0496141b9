package analytics

import (
	"kyccli/internal/dataprocessing"
	"kyccli/pkg/contracts/domain"
)

// Ageing buckets the submitted-but-unscanned records by how many whole
// calendar days their submission date lies behind "now". The difference is
// midnight-to-midnight, not elapsed hours, so a record submitted late
// yesterday is one day old this morning. Bucket totals always sum to Pending.
func (a *Aggregator) Ageing(records []domain.Record) domain.AgeingReport {
	now := a.now()

	var report domain.AgeingReport
	for _, r := range records {
		d := r.Date(domain.ColSubmission)
		if d == nil || a.done.Match(r.Field(domain.ColScanStatus)) {
			continue
		}
		report.Pending++

		switch days := dataprocessing.DaysBetween(*d, now); {
		case days <= 2:
			report.Days0to2++
		case days <= 7:
			report.Days3to7++
		case days <= 15:
			report.Days8to15++
		default:
			report.DaysOver15++
		}
	}
	return report
}
