package analytics

import (
	"strings"

	"kyccli/pkg/contracts/domain"
)

// ActionItems flags the records needing follow-up. A record is flagged when
// any of the five exception rules fires: pending scan (submitted and not
// done), missing consignment (submitted with an empty consignment number),
// non-empty omissions text, missing CIF, or missing account name. Flag labels
// are joined with " | " in that fixed order; unflagged records are omitted
// entirely.
func (a *Aggregator) ActionItems(records []domain.Record) []domain.ActionItem {
	var items []domain.ActionItem
	for _, r := range records {
		submitted := r.Date(domain.ColSubmission) != nil
		pendingScan := submitted && !a.done.Match(r.Field(domain.ColScanStatus))
		missingConsignment := submitted && !hasText(r.Field(domain.ColConsignment))
		hasOmission := hasText(r.Field(domain.ColOmissions))
		missingCIF := !hasText(r.Field(domain.ColCifID))
		missingName := !hasText(r.Field(domain.ColAcctName))

		if !pendingScan && !missingConsignment && !hasOmission && !missingCIF && !missingName {
			continue
		}

		var flags []string
		if pendingScan {
			flags = append(flags, domain.FlagPendingScan)
		}
		if missingConsignment {
			flags = append(flags, domain.FlagMissingConsignment)
		}
		if hasOmission {
			flags = append(flags, domain.FlagOmission)
		}
		if missingCIF {
			flags = append(flags, domain.FlagMissingCIF)
		}
		if missingName {
			flags = append(flags, domain.FlagMissingName)
		}

		items = append(items, domain.ActionItem{
			Division:       r.Field(domain.ColDivision),
			Office:         r.Field(domain.ColOffice),
			SolID:          r.Field(domain.ColSolID),
			AccountNo:      r.Field(domain.ColAccountNo),
			SubmissionDate: r.Field(domain.ColSubmission),
			ScanStatus:     r.Field(domain.ColScanStatus),
			Consignment:    r.Field(domain.ColConsignment),
			Omissions:      r.Field(domain.ColOmissions),
			Flags:          strings.Join(flags, " | "),
		})
	}
	return items
}
