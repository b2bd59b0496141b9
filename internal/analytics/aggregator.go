package analytics

import (
	"log/slog"
	"sort"
	"time"

	"kyccli/pkg/contracts/domain"
)

// Aggregator computes the dashboard projections over filtered record sets.
// It is stateless with respect to the data; every method is a pure function
// of its input slice.
type Aggregator struct {
	logger     *slog.Logger
	done       *DoneMatcher
	topSchemes int
	chartBars  int
	now        func() time.Time
}

// AggregatorConfig holds tuning knobs for the Aggregator.
type AggregatorConfig struct {
	DoneKeywords []string         // scan-status synonyms, defaults to DefaultDoneKeywords
	TopSchemes   int              // scheme codes in the KPI top list, default 5
	ChartBars    int              // divisions kept in the ratio chart, default 12
	Now          func() time.Time // ageing reference clock, default time.Now
}

// NewAggregator creates an aggregator with the given configuration.
func NewAggregator(logger *slog.Logger, config AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopSchemes <= 0 {
		config.TopSchemes = 5
	}
	if config.ChartBars <= 0 {
		config.ChartBars = 12
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Aggregator{
		logger:     logger.With(slog.String("component", "aggregator")),
		done:       NewDoneMatcher(config.DoneKeywords),
		topSchemes: config.TopSchemes,
		chartBars:  config.ChartBars,
		now:        config.Now,
	}
}

// DefaultAggregatorConfig returns the configuration the dashboard ships with.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{TopSchemes: 5, ChartBars: 12}
}

// Dashboard recomputes the full aggregate payload for a filtered subset.
func (a *Aggregator) Dashboard(records []domain.Record, spec domain.FilterSpec) domain.Dashboard {
	return domain.Dashboard{
		FilteredCount:  len(records),
		KPIs:           a.KPIs(records),
		Quality:        a.Quality(records),
		Ageing:         a.Ageing(records),
		Trend:          a.Trend(records, spec.Basis()),
		DivisionRatios: a.DivisionRatios(records),
		Scan:           a.ScanBreakdown(records),
	}
}

// KPIs computes the scalar KPI set over a filtered record set.
func (a *Aggregator) KPIs(records []domain.Record) domain.KPIReport {
	report := domain.KPIReport{Total: len(records)}

	solIDs := make(map[string]struct{})
	accounts := make(map[string]struct{})
	divisions := make(map[string]struct{})
	for _, r := range records {
		submitted := r.Date(domain.ColSubmission) != nil
		done := a.done.Match(r.Field(domain.ColScanStatus))

		if submitted {
			report.Submitted++
			if !hasText(r.Field(domain.ColConsignment)) {
				report.MissingConsignment++
			}
			if !done {
				report.ScanPending++
			}
		}
		if done {
			report.ScanDone++
		}
		if hasText(r.Field(domain.ColOmissions)) {
			report.Omissions++
		}
		if !hasText(r.Field(domain.ColCifID)) {
			report.MissingCIF++
		}
		if !hasText(r.Field(domain.ColAcctName)) {
			report.MissingName++
		}

		if v := r.Field(domain.ColSolID); v != "" {
			solIDs[v] = struct{}{}
		}
		if v := r.Field(domain.ColAccountNo); v != "" {
			accounts[v] = struct{}{}
		}
		if v := r.Field(domain.ColDivision); v != "" {
			divisions[v] = struct{}{}
		}
	}

	if report.Total > 0 {
		report.OmissionRate = float64(report.Omissions) / float64(report.Total) * 100
	}
	report.UniqueSolIDs = len(solIDs)
	report.UniqueAccounts = len(accounts)
	report.DivisionCount = len(divisions)
	report.TopSchemes = TopN(records, domain.ColSchmCode, a.topSchemes)
	return report
}

// TopN counts the non-empty values of a column and returns the n most
// frequent in descending order. The sort is stable, so values tied on count
// stay in first-seen order.
func TopN(records []domain.Record, col string, n int) []domain.GroupCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		v := r.Field(col)
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]domain.GroupCount, 0, len(order))
	for _, k := range order {
		out = append(out, domain.GroupCount{Key: k, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func hasText(s string) bool {
	return s != ""
}
