package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyccli/pkg/contracts/domain"
)

func TestActionItems(t *testing.T) {
	a := newTestAggregator(time.Now())

	records := []domain.Record{
		// Clean record: no flags, omitted from the list.
		rec(map[string]string{
			domain.ColCifID:       "C1",
			domain.ColAcctName:    "Alice",
			domain.ColSubmission:  "2024-03-01",
			domain.ColScanStatus:  "done",
			domain.ColConsignment: "CN-1",
		}),
		// Submitted, nothing else done: pending scan and missing consignment.
		rec(map[string]string{
			domain.ColCifID:      "C2",
			domain.ColAcctName:   "Bob",
			domain.ColSolID:      "S002",
			domain.ColSubmission: "2024-03-02",
		}),
		// Everything wrong at once.
		rec(map[string]string{
			domain.ColSubmission: "2024-03-03",
			domain.ColOmissions:  "photo missing",
		}),
	}

	items := a.ActionItems(records)
	require.Len(t, items, 2)

	assert.Equal(t, "S002", items[0].SolID)
	assert.Equal(t, "Pending Scan | Missing Consignment", items[0].Flags)

	assert.Equal(t,
		"Pending Scan | Missing Consignment | Omission/Rejection | Missing CIF | Missing Name",
		items[1].Flags)
	assert.Equal(t, "photo missing", items[1].Omissions)
}

func TestActionItemsUnsubmittedRecords(t *testing.T) {
	a := newTestAggregator(time.Now())

	// Not submitted: the two submission-dependent rules cannot fire, but the
	// identity rules still do.
	items := a.ActionItems([]domain.Record{
		rec(map[string]string{domain.ColAcctName: "Carol"}),
	})
	require.Len(t, items, 1)
	assert.Equal(t, "Missing CIF", items[0].Flags)
}

func TestActionItemsEmptyDataset(t *testing.T) {
	a := newTestAggregator(time.Now())
	assert.Empty(t, a.ActionItems(nil))
}
