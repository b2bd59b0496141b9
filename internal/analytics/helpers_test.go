package analytics

import (
	"log/slog"
	"time"

	"kyccli/internal/dataprocessing"
	"kyccli/pkg/contracts/domain"
)

// rec builds a canonical record from a sparse field map, parsing the date
// columns the way the ingestion pipeline does.
func rec(fields map[string]string) domain.Record {
	full := make(map[string]string, 16)
	for _, col := range domain.ExpectedColumns() {
		full[col] = fields[col]
	}
	dates := make(map[string]*time.Time, 3)
	for _, col := range domain.DateColumns() {
		dates[col] = dataprocessing.ParseDate(full[col])
	}
	return domain.Record{Fields: full, Dates: dates}
}

// newTestAggregator returns an aggregator with a pinned clock so ageing
// buckets are deterministic.
func newTestAggregator(now time.Time) *Aggregator {
	config := DefaultAggregatorConfig()
	config.Now = func() time.Time { return now }
	return NewAggregator(slog.Default(), config)
}
