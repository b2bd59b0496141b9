package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDateRe = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})$`)
)

// fallbackLayouts are tried, in order, for date strings that match none of
// the structured forms. Kept short on purpose: the template's date columns
// come in as serials, ISO strings or d/m/y text in practice.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate interprets a raw cell value as a calendar date. Four forms are
// attempted in order: a numeric spreadsheet serial (decoded through the
// workbook codec, no time-zone shifting), YYYY-MM-DD, day-first
// D[/-]M[/-]YY[YY] with 2-digit years read as 2000+YY, and finally a short
// list of generic layouts. Empty or unparseable input yields nil, never an
// error — quality metrics detect "non-empty but unparseable" separately by
// comparing the raw text with the parse result.
func ParseDate(v string) *time.Time {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		decoded, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		d := time.Date(decoded.Year(), decoded.Month(), decoded.Day(), 0, 0, 0, 0, time.Local)
		return &d
	}

	if isoDateRe.MatchString(s) {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return nil
		}
		return &parsed
	}

	if m := dmyDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// time.Date normalizes overflow (e.g. 32/01 becomes 01/02); reject
		// anything that did not survive the round trip.
		if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
			return nil
		}
		return &d
	}

	for _, layout := range fallbackLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d := StartOfDay(parsed)
			return &d
		}
	}
	return nil
}

// FormatDateISO renders a date as YYYY-MM-DD; nil renders as "".
func FormatDateISO(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// StartOfDay truncates a time to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole-day calendar difference to - from,
// midnight-to-midnight rather than elapsed hours.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}
