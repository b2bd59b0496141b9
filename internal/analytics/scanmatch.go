package analytics

import (
	"strings"
)

// DefaultDoneKeywords are the synonyms operators actually type into the
// free-text scan/upload column when a document has been digitized.
var DefaultDoneKeywords = []string{
	"done", "completed", "complete", "uploaded", "scanned", "ok", "yes",
}

// DoneMatcher classifies a scan/upload status value as "done" by
// case-insensitive substring containment against a keyword set. The rule is
// data-driven so the synonym list can grow without touching the aggregates.
type DoneMatcher struct {
	keywords []string
}

// NewDoneMatcher creates a matcher for the given keywords; an empty list
// falls back to DefaultDoneKeywords.
func NewDoneMatcher(keywords []string) *DoneMatcher {
	if len(keywords) == 0 {
		keywords = DefaultDoneKeywords
	}
	return &DoneMatcher{keywords: keywords}
}

// Match reports whether the status text counts as a completed scan.
func (m *DoneMatcher) Match(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return false
	}
	for _, k := range m.keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
