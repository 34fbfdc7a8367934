package segment

import "strings"

// junkTerms is the front/back-matter exclusion vocabulary, matched as
// case-insensitive substrings against document item names. "ack" covers the
// acknowledgment spelling variants.
var junkTerms = []string{"cover", "title", "copyright", "toc", "contents", "dedication", "ack"}

// JunkFilter classifies document items as front/back matter by name.
type JunkFilter struct {
	Terms []string
}

// DefaultJunkFilter returns a filter over the standard exclusion vocabulary.
func DefaultJunkFilter() *JunkFilter {
	return &JunkFilter{Terms: junkTerms}
}

// Match reports whether the named item is front/back matter.
func (f *JunkFilter) Match(name string) bool {
	lower := strings.ToLower(name)
	for _, term := range f.Terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
