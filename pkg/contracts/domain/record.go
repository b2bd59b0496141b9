package domain

import (
	"time"
)

// Schema column names as they appear in the standard KYC template. Matching
// against uploaded headers is order-insensitive and normalization-tolerant,
// but canonical records always carry these exact keys.
const (
	ColRgnSlNo      = "Rgn Sl No"
	ColDvnSlNo      = "Dvn Sl No"
	ColSolID        = "sol_id"
	ColOffice       = "Office"
	ColDivision     = "Division"
	ColAccountNo    = "Account No"
	ColCifID        = "cif_id"
	ColAcctName     = "acct_name"
	ColSchmCode     = "schm_code"
	ColAcctOpenDate = "acct_opn_date"
	ColLastTranDate = "last_any_tran_date"
	ColStatus       = "Status"
	ColConsignment  = "Consignment number"
	ColSubmission   = "Date of submission to CPC"
	ColScanStatus   = "Scan/Upload status"
	ColOmissions    = "Omissions/Rejections"
)

// ExpectedColumns returns the 16 schema columns in template order.
// Callers must not mutate the returned slice contents across calls;
// a fresh copy is returned each time.
func ExpectedColumns() []string {
	return []string{
		ColRgnSlNo,
		ColDvnSlNo,
		ColSolID,
		ColOffice,
		ColDivision,
		ColAccountNo,
		ColCifID,
		ColAcctName,
		ColSchmCode,
		ColAcctOpenDate,
		ColLastTranDate,
		ColStatus,
		ColConsignment,
		ColSubmission,
		ColScanStatus,
		ColOmissions,
	}
}

// DateColumns returns the three schema columns that carry dates and are
// parsed into Record.Dates during dataset building.
func DateColumns() []string {
	return []string{ColSubmission, ColAcctOpenDate, ColLastTranDate}
}

// CoreIdentifierColumns returns the fields a record must carry to be usable
// for reconciliation; rows missing any of them are counted in the quality report.
func CoreIdentifierColumns() []string {
	return []string{ColSolID, ColOffice, ColDivision, ColAccountNo}
}

// Record is a canonical KYC row. Fields holds exactly the 16 schema columns
// (possibly empty strings); Dates holds exactly the 3 date columns with nil
// meaning absent or unparseable. Records are never mutated after creation —
// filtering selects, it does not edit.
type Record struct {
	Fields map[string]string     `json:"fields"`
	Dates  map[string]*time.Time `json:"dates"`
}

// Field returns the normalized value for a schema column, or "" when absent.
func (r Record) Field(col string) string {
	return r.Fields[col]
}

// Date returns the parsed date for one of the three date columns, nil when
// the cell was empty or unparseable.
func (r Record) Date(col string) *time.Time {
	return r.Dates[col]
}

// DatasetSnapshot is the unit of persistence: the full canonical record set
// plus import provenance. Snapshots are written and replaced wholesale.
type DatasetSnapshot struct {
	ID         string    `json:"id" validate:"required,uuid"`
	SourceFile string    `json:"source_file,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
	HeaderRow  int       `json:"header_row"`
	Records    []Record  `json:"records"`
}
