package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"kyccli/pkg/contracts/domain"
)

// DataSheetName is the sheet the standard template ships with. Uploads that
// still carry it are read from it; anything else falls back to the first sheet.
const DataSheetName = "KYC_Data"

// Structural parse failures. These abort an import; the caller's previously
// committed dataset must be left untouched.
var (
	ErrEmptySheet     = errors.New("no rows found in the data sheet")
	ErrHeaderNotFound = errors.New("header row not found in the top rows of the sheet")
	ErrNoDataRows     = errors.New("no data rows found after the header row")
)

// MissingColumnsError reports a located header that lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("header is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// ParseResult is the outcome of a successful workbook parse.
type ParseResult struct {
	SheetName string
	HeaderRow int
	Records   []domain.Record
}

// ParseFile reads a KYC workbook from disk and builds the canonical record set.
func ParseFile(path string) (*ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

// ParseReader reads a KYC workbook from a stream (an HTTP upload) and builds
// the canonical record set.
func ParseReader(r io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()
	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) (*ParseResult, error) {
	sheet := pickSheet(f)
	if sheet == "" {
		return nil, ErrEmptySheet
	}

	// Raw cell values keep date serials numeric instead of applying the
	// workbook's display format, which ParseDate depends on.
	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, ErrEmptySheet
	}

	header, ok := LocateHeader(grid, DefaultScanRows)
	if !ok {
		return nil, ErrHeaderNotFound
	}
	if missing := MissingColumns(header.Values); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	records := BuildRecords(grid, header)
	if len(records) == 0 {
		return nil, ErrNoDataRows
	}

	slog.Info("parsed KYC workbook",
		slog.String("sheet", sheet),
		slog.Int("header_row", header.RowIndex),
		slog.Int("record_count", len(records)))

	return &ParseResult{
		SheetName: sheet,
		HeaderRow: header.RowIndex,
		Records:   records,
	}, nil
}

// pickSheet prefers the template's data sheet, falling back to the first one.
func pickSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	for _, name := range sheets {
		if name == DataSheetName {
			return name
		}
	}
	return sheets[0]
}

// BuildRecords converts every row after the header into a canonical record.
// Each row is re-keyed by the header's column positions; cells past the end
// of a short row default to "". Rows that normalize to entirely empty values
// are still included — blank-row pruning is deliberately not done here, so
// the caller can report totals that match what the user sees in the sheet.
func BuildRecords(grid [][]string, header HeaderMatch) []domain.Record {
	positions := columnPositions(header.Values)
	expected := domain.ExpectedColumns()
	dateCols := domain.DateColumns()

	dataRows := grid[header.RowIndex+1:]
	records := make([]domain.Record, 0, len(dataRows))
	for _, row := range dataRows {
		fields := make(map[string]string, len(expected))
		for _, col := range expected {
			pos, ok := positions[col]
			if !ok || pos >= len(row) {
				fields[col] = ""
				continue
			}
			fields[col] = NormalizeValue(row[pos])
		}

		dates := make(map[string]*time.Time, len(dateCols))
		for _, col := range dateCols {
			dates[col] = ParseDate(fields[col])
		}

		records = append(records, domain.Record{Fields: fields, Dates: dates})
	}
	return records
}

// columnPositions maps each schema column to its position in the header row.
// The first matching cell wins when a header name is duplicated.
func columnPositions(header []string) map[string]int {
	byToken := make(map[string]int, len(header))
	for pos, cell := range header {
		tok := NormalizeHeaderToken(cell)
		if tok == "" {
			continue
		}
		if _, seen := byToken[tok]; !seen {
			byToken[tok] = pos
		}
	}

	positions := make(map[string]int, 16)
	for _, col := range domain.ExpectedColumns() {
		if pos, ok := byToken[NormalizeHeaderToken(col)]; ok {
			positions[col] = pos
		}
	}
	return positions
}
