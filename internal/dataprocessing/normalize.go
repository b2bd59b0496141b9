package dataprocessing

import (
	"fmt"
	"strings"
)

// NormalizeValue coerces an arbitrary cell value to a trimmed string.
// nil becomes ""; strings are trimmed; anything else is stringified then
// trimmed. Total function — there is no error case.
func NormalizeValue(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// headerTokenReplacer folds the whitespace variants that show up in real
// workbook headers (non-breaking spaces, embedded newlines) into plain spaces.
var headerTokenReplacer = strings.NewReplacer(
	" ", " ",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// NormalizeHeaderToken canonicalizes a header cell for comparison: NBSP and
// newlines become spaces, runs of whitespace collapse to one space, then the
// result is trimmed and lower-cased. Used only for header matching — data
// values keep their case and inner whitespace.
func NormalizeHeaderToken(s string) string {
	s = headerTokenReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
