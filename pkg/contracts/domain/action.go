package domain

// Action flag labels in their fixed display order.
const (
	FlagPendingScan        = "Pending Scan"
	FlagMissingConsignment = "Missing Consignment"
	FlagOmission           = "Omission/Rejection"
	FlagMissingCIF         = "Missing CIF"
	FlagMissingName        = "Missing Name"
)

// ActionItem is the follow-up projection of a flagged record. Flags is the
// " | "-joined concatenation of the triggered flag labels in fixed order.
type ActionItem struct {
	Division       string `json:"division"`
	Office         string `json:"office"`
	SolID          string `json:"sol_id"`
	AccountNo      string `json:"account_no"`
	SubmissionDate string `json:"submission_date"`
	ScanStatus     string `json:"scan_status"`
	Consignment    string `json:"consignment"`
	Omissions      string `json:"omissions"`
	Flags          string `json:"flags"`
}

// ActionItemColumns returns the CSV/table column headers for action items.
func ActionItemColumns() []string {
	return []string{
		ColDivision,
		ColOffice,
		ColSolID,
		ColAccountNo,
		ColSubmission,
		ColScanStatus,
		ColConsignment,
		ColOmissions,
		"Flags",
	}
}
