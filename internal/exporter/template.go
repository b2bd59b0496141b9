package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kyccli/internal/dataprocessing"
	"kyccli/pkg/contracts/domain"
)

// TemplateFilename is the conventional download name for the template.
const TemplateFilename = "KYC_Standard_Template.xlsx"

const (
	minColumnWidth = 12
	maxColumnWidth = 32
)

// BuildTemplate creates the standard fill-in workbook: the schema as the
// header row plus one blank data row, on the sheet the parser looks for
// first. Column widths are sized to the header text, clamped to a readable
// range.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := dataprocessing.DataSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}

	headers := domain.ExpectedColumns()
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell %d: %w", i, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", h, err)
		}

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve column %d: %w", i, err)
		}
		width := float64(clampWidth(len(h) + 2))
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set width for column %s: %w", col, err)
		}
	}

	// One blank sample row so spreadsheet tools keep the data region visible.
	for i := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sample cell %d: %w", i, err)
		}
		if err := f.SetCellValue(sheet, cell, ""); err != nil {
			return nil, fmt.Errorf("failed to write sample cell %d: %w", i, err)
		}
	}

	return f, nil
}

// WriteTemplate streams the standard template workbook to w.
func WriteTemplate(w io.Writer) error {
	f, err := BuildTemplate()
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write template workbook: %w", err)
	}
	return nil
}

func clampWidth(n int) int {
	if n < minColumnWidth {
		return minColumnWidth
	}
	if n > maxColumnWidth {
		return maxColumnWidth
	}
	return n
}
