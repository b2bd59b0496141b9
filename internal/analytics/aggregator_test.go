package analytics

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyccli/pkg/contracts/domain"
)

func TestNewAggregatorDefaults(t *testing.T) {
	a := NewAggregator(nil, AggregatorConfig{})
	assert.NotNil(t, a.logger)
	assert.Equal(t, 5, a.topSchemes)
	assert.Equal(t, 12, a.chartBars)
	assert.NotNil(t, a.now)
	assert.True(t, a.done.Match("Done"))
}

func TestKPIs(t *testing.T) {
	records := []domain.Record{
		// Submitted, scanned, complete identifiers.
		rec(map[string]string{
			domain.ColSolID:       "S001",
			domain.ColAccountNo:   "AC-1",
			domain.ColCifID:       "C1",
			domain.ColAcctName:    "Alice",
			domain.ColDivision:    "Retail",
			domain.ColSubmission:  "2024-03-01",
			domain.ColScanStatus:  "Uploaded",
			domain.ColConsignment: "CN-1",
		}),
		// Submitted, scan pending, consignment missing.
		rec(map[string]string{
			domain.ColSolID:      "S001",
			domain.ColAccountNo:  "AC-2",
			domain.ColCifID:      "C2",
			domain.ColAcctName:   "Bob",
			domain.ColDivision:   "Retail",
			domain.ColSubmission: "2024-03-02",
		}),
		// Not submitted, omission noted, CIF and name missing.
		rec(map[string]string{
			domain.ColSolID:     "S002",
			domain.ColAccountNo: "AC-3",
			domain.ColDivision:  "Corporate",
			domain.ColOmissions: "signature mismatch",
		}),
	}

	a := newTestAggregator(time.Now())
	got := a.KPIs(records)

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Submitted)
	assert.Equal(t, 1, got.ScanDone)
	assert.Equal(t, 1, got.ScanPending)
	assert.Equal(t, 1, got.MissingConsignment)
	assert.Equal(t, 1, got.Omissions)
	assert.InDelta(t, 100.0/3.0, got.OmissionRate, 0.001)
	assert.Equal(t, 2, got.UniqueSolIDs)
	assert.Equal(t, 3, got.UniqueAccounts)
	assert.Equal(t, 1, got.MissingCIF)
	assert.Equal(t, 1, got.MissingName)
	assert.Equal(t, 2, got.DivisionCount)
}

func TestKPIsEmpty(t *testing.T) {
	a := newTestAggregator(time.Now())
	got := a.KPIs(nil)

	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0.0, got.OmissionRate)
	assert.Empty(t, got.TopSchemes)
}

func TestTopN(t *testing.T) {
	records := []domain.Record{
		rec(map[string]string{domain.ColSchmCode: "SB"}),
		rec(map[string]string{domain.ColSchmCode: "CA"}),
		rec(map[string]string{domain.ColSchmCode: "SB"}),
		rec(map[string]string{domain.ColSchmCode: "RD"}),
		rec(map[string]string{domain.ColSchmCode: "CA"}),
		rec(map[string]string{domain.ColSchmCode: "SB"}),
		rec(map[string]string{}), // blank excluded
	}

	got := TopN(records, domain.ColSchmCode, 2)
	require.Len(t, got, 2)
	assert.Equal(t, domain.GroupCount{Key: "SB", Count: 3}, got[0])
	assert.Equal(t, domain.GroupCount{Key: "CA", Count: 2}, got[1])
}

func TestTopNTiesKeepFirstSeenOrder(t *testing.T) {
	records := []domain.Record{
		rec(map[string]string{domain.ColSchmCode: "RD"}),
		rec(map[string]string{domain.ColSchmCode: "CA"}),
		rec(map[string]string{domain.ColSchmCode: "SB"}),
		rec(map[string]string{domain.ColSchmCode: "CA"}),
		rec(map[string]string{domain.ColSchmCode: "RD"}),
		rec(map[string]string{domain.ColSchmCode: "SB"}),
	}

	got := TopN(records, domain.ColSchmCode, 10)
	require.Len(t, got, 3)
	assert.Equal(t, "RD", got[0].Key)
	assert.Equal(t, "CA", got[1].Key)
	assert.Equal(t, "SB", got[2].Key)
}

func TestDashboardComposition(t *testing.T) {
	records := []domain.Record{
		rec(map[string]string{
			domain.ColDivision:   "Retail",
			domain.ColSubmission: "2024-03-01",
		}),
		rec(map[string]string{
			domain.ColDivision:   "Retail",
			domain.ColSubmission: "2024-03-01",
			domain.ColScanStatus: "done",
		}),
	}

	a := NewAggregator(slog.Default(), AggregatorConfig{
		Now: func() time.Time { return time.Date(2024, time.March, 3, 10, 0, 0, 0, time.Local) },
	})
	got := a.Dashboard(records, domain.FilterSpec{})

	assert.Equal(t, 2, got.FilteredCount)
	assert.Equal(t, 2, got.KPIs.Total)
	assert.Equal(t, 1, got.Ageing.Pending)
	require.Len(t, got.Trend, 1)
	assert.Equal(t, "2024-03-01", got.Trend[0].Day)
	assert.Equal(t, 2, got.Trend[0].Count)
	require.Len(t, got.DivisionRatios, 1)
	assert.Equal(t, 1, got.Scan.Done)
}
