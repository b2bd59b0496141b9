package domain

// KPIReport holds the scalar KPIs computed over a filtered record set.
type KPIReport struct {
	Total              int     `json:"total"`
	Submitted          int     `json:"submitted"`
	ScanDone           int     `json:"scan_done"`
	ScanPending        int     `json:"scan_pending"`
	MissingConsignment int     `json:"missing_consignment"`
	Omissions          int     `json:"omissions"`
	OmissionRate       float64 `json:"omission_rate"`
	UniqueSolIDs       int     `json:"unique_sol_ids"`
	UniqueAccounts     int     `json:"unique_accounts"`
	MissingCIF         int     `json:"missing_cif"`
	MissingName        int     `json:"missing_name"`
	DivisionCount      int     `json:"division_count"`
	TopSchemes         []GroupCount `json:"top_schemes"`
}

// GroupCount is one value/count pair of a top-N grouping, in rank order.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// QualityReport holds the data-quality counts for a filtered record set.
type QualityReport struct {
	// InvalidDates counts records whose raw cell text is non-empty but did
	// not parse, keyed by date column.
	InvalidDates        map[string]int `json:"invalid_dates"`
	DuplicateAccounts   int            `json:"duplicate_accounts"`
	DuplicateConsign    int            `json:"duplicate_consignments"`
	MissingCoreIDFields int            `json:"missing_core_identifiers"`
}

// AgeingReport buckets submitted-but-unscanned records by whole calendar
// days outstanding. Bucket totals always sum to Pending.
type AgeingReport struct {
	Pending  int `json:"pending"`
	Days0to2 int `json:"days_0_2"`
	Days3to7 int `json:"days_3_7"`
	Days8to15 int `json:"days_8_15"`
	DaysOver15 int `json:"days_over_15"`
}

// TrendPoint is one day of the date-basis trend series, ISO-labelled.
type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DivisionRatio is one bar of the pending-scan-percentage chart.
type DivisionRatio struct {
	Division   string  `json:"division"`
	Submitted  int     `json:"submitted"`
	Pending    int     `json:"pending"`
	PendingPct float64 `json:"pending_pct"`
}

// ScanBreakdown partitions a filtered record set by scan/upload state.
type ScanBreakdown struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Blank   int `json:"blank"`
}

// Dashboard is the full aggregate payload recomputed on every filter apply.
// It is a pure projection of the filtered subset and is never cached.
type Dashboard struct {
	FilteredCount  int             `json:"filtered_count"`
	KPIs           KPIReport       `json:"kpis"`
	Quality        QualityReport   `json:"quality"`
	Ageing         AgeingReport    `json:"ageing"`
	Trend          []TrendPoint    `json:"trend"`
	DivisionRatios []DivisionRatio `json:"division_ratios"`
	Scan           ScanBreakdown   `json:"scan"`
}
