package dataprocessing

import (
	"kyccli/pkg/contracts/domain"
)

const (
	// DefaultScanRows bounds the fuzzy header search to the top of the sheet;
	// real uploads carry at most a handful of title/blank rows above the header.
	DefaultScanRows = 30

	// minHeaderMatches is the acceptance threshold for a candidate header row.
	// All 16 schema columns are expected, but merged or blank header cells can
	// swallow a few, so two thirds is accepted. Tunable, kept at the value the
	// template tooling has always used.
	minHeaderMatches = 10
)

// HeaderMatch identifies the detected header row of a raw grid.
type HeaderMatch struct {
	RowIndex int
	// Values are the normalized cell values of the full header row,
	// positionally aligned with the data rows beneath it.
	Values []string
}

// LocateHeader scans the first scanRows rows of the grid for the row that
// best matches the schema, tolerating title rows, merged cells and blank
// leading rows. A row scores one point per expected column name found in its
// normalized non-blank token set; the earliest row with the highest score
// wins. Returns ok=false when no row reaches the acceptance threshold —
// callers must treat that as a hard stop, not a warning.
func LocateHeader(grid [][]string, scanRows int) (HeaderMatch, bool) {
	if scanRows <= 0 {
		scanRows = DefaultScanRows
	}
	if scanRows > len(grid) {
		scanRows = len(grid)
	}

	expected := make([]string, 0, 16)
	for _, col := range domain.ExpectedColumns() {
		expected = append(expected, NormalizeHeaderToken(col))
	}

	bestIdx := -1
	bestScore := -1
	for i := 0; i < scanRows; i++ {
		tokens := make(map[string]struct{})
		for _, cell := range grid[i] {
			if v := NormalizeValue(cell); v != "" {
				tokens[NormalizeHeaderToken(v)] = struct{}{}
			}
		}
		if len(tokens) == 0 {
			continue
		}

		score := 0
		for _, name := range expected {
			if _, ok := tokens[name]; ok {
				score++
			}
		}
		// Strict comparison keeps the first row seen at a given score.
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < minHeaderMatches {
		return HeaderMatch{}, false
	}

	values := make([]string, len(grid[bestIdx]))
	for j, cell := range grid[bestIdx] {
		values[j] = NormalizeValue(cell)
	}
	return HeaderMatch{RowIndex: bestIdx, Values: values}, true
}

// MissingColumns validates a detected header row against the schema and
// returns the expected column names absent from it, in schema order. An empty
// result means the header is valid. Unexpected extra columns are not
// reported — downstream simply ignores them.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, cell := range header {
		if tok := NormalizeHeaderToken(cell); tok != "" {
			present[tok] = struct{}{}
		}
	}

	var missing []string
	for _, col := range domain.ExpectedColumns() {
		if _, ok := present[NormalizeHeaderToken(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
