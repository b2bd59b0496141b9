package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"kyccli/pkg/contracts/domain"
)

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Rows      [][]string
	BOMPrefix bool // add UTF-8 BOM so Excel opens the file as UTF-8
}

// WriteCSV writes rows to w with the given options. Quoting and escaping
// follow encoding/csv: fields containing commas, quotes or newlines are
// quoted with internal quotes doubled.
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, row := range options.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRecordsCSV exports canonical records with the full 16-column schema
// as the header, one row per record in input order.
func WriteRecordsCSV(w io.Writer, records []domain.Record) error {
	headers := domain.ExpectedColumns()
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(headers))
		for i, col := range headers {
			row[i] = r.Field(col)
		}
		rows = append(rows, row)
	}
	return WriteCSV(w, WriteOptions{Headers: headers, Rows: rows, BOMPrefix: true})
}

// WriteActionsCSV exports action items with the action-item column subset.
func WriteActionsCSV(w io.Writer, items []domain.ActionItem) error {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Division,
			it.Office,
			it.SolID,
			it.AccountNo,
			it.SubmissionDate,
			it.ScanStatus,
			it.Consignment,
			it.Omissions,
			it.Flags,
		})
	}
	return WriteCSV(w, WriteOptions{Headers: domain.ActionItemColumns(), Rows: rows, BOMPrefix: true})
}

// ExportFilename builds the conventional download name, e.g.
// kyc_export_2025-01-31.csv.
func ExportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("2006-01-02"))
}
