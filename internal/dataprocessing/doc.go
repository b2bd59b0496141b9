// Package dataprocessing turns uploaded KYC workbooks into canonical records.
// It owns the ingestion half of the pipeline: value normalization, fuzzy
// header-row location, schema validation, tolerant date parsing and dataset
// building.
//
// # Data Flow
//
//	Workbook → raw grid → LocateHeader → MissingColumns → BuildRecords → []domain.Record
//
// The raw grid is ephemeral; it is discarded once BuildRecords has consumed
// it. Canonical records are immutable after creation — the analytics layer
// only ever selects and projects them.
//
// # Error Handling
//
// Structural failures (empty sheet, unlocatable header, missing required
// columns, zero data rows) are returned as distinct errors so callers can
// report specifics and leave any previously committed dataset untouched.
// Per-value date parse failures are never errors: ParseDate yields nil and
// the quality metrics surface the count downstream.
package dataprocessing
