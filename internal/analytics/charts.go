package analytics

import (
	"math"
	"sort"

	"kyccli/internal/dataprocessing"
	"kyccli/pkg/contracts/domain"
)

// BlankGroupLabel stands in for an empty grouping value in chart series.
const BlankGroupLabel = "(Blank)"

// Trend counts records per ISO day of the given date basis, labels sorted
// ascending. Records without a basis date are skipped.
func (a *Aggregator) Trend(records []domain.Record, basis string) []domain.TrendPoint {
	counts := make(map[string]int)
	for _, r := range records {
		d := r.Date(basis)
		if d == nil {
			continue
		}
		counts[dataprocessing.FormatDateISO(d)]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]domain.TrendPoint, 0, len(days))
	for _, day := range days {
		out = append(out, domain.TrendPoint{Day: day, Count: counts[day]})
	}
	return out
}

// DivisionRatios computes the pending-scan percentage per division: among a
// division's submitted records, the share not yet scanned, rounded to two
// decimals. Divisions with no submissions score zero. The result is sorted
// descending by percentage (ties keep discovery order) and truncated for
// chart display.
func (a *Aggregator) DivisionRatios(records []domain.Record) []domain.DivisionRatio {
	type group struct {
		submitted int
		pending   int
	}
	groups := make(map[string]*group)
	var order []string
	for _, r := range records {
		div := r.Field(domain.ColDivision)
		if div == "" {
			div = BlankGroupLabel
		}
		g, ok := groups[div]
		if !ok {
			g = &group{}
			groups[div] = g
			order = append(order, div)
		}
		if r.Date(domain.ColSubmission) == nil {
			continue
		}
		g.submitted++
		if !a.done.Match(r.Field(domain.ColScanStatus)) {
			g.pending++
		}
	}

	out := make([]domain.DivisionRatio, 0, len(order))
	for _, div := range order {
		g := groups[div]
		pct := 0.0
		if g.submitted > 0 {
			pct = math.Round(float64(g.pending)/float64(g.submitted)*100*100) / 100
		}
		out = append(out, domain.DivisionRatio{
			Division:   div,
			Submitted:  g.submitted,
			Pending:    g.pending,
			PendingPct: pct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PendingPct > out[j].PendingPct })
	if len(out) > a.chartBars {
		out = out[:a.chartBars]
	}
	return out
}

// ScanBreakdown partitions records into done, non-empty-but-not-done and
// blank scan/upload states.
func (a *Aggregator) ScanBreakdown(records []domain.Record) domain.ScanBreakdown {
	var out domain.ScanBreakdown
	for _, r := range records {
		status := r.Field(domain.ColScanStatus)
		switch {
		case a.done.Match(status):
			out.Done++
		case hasText(status):
			out.Pending++
		default:
			out.Blank++
		}
	}
	return out
}
