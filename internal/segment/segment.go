// Package segment partitions a book's document items into fixed-size virtual
// pages and a chapter index that downstream range selection and analysis can
// both address without renumbering.
package segment

import (
	"strings"

	"bookxray/internal/book"
)

const (
	// DefaultPageRunes is the virtual page size in runes. The final page of
	// a chapter run may be shorter.
	DefaultPageRunes = 1500
	// DefaultMinRunes is the minimum cleaned length for an item to count as
	// substantive; shorter items (stubs, blank pages) are skipped.
	DefaultMinRunes = 200
)

// Page is a fixed-size chunk of cleaned text belonging to exactly one
// chapter. IDs are 1-based, contiguous, and assigned in emission order.
type Page struct {
	ID      int
	Chapter string
	Content string
}

// ChapterEntry maps a chapter title to its first page. Entries are ordered
// by StartPage ascending; titles are not guaranteed unique across the book.
type ChapterEntry struct {
	Title     string
	StartPage int
}

// Result is the output of a segmentation pass.
type Result struct {
	Pages    []Page
	Chapters []ChapterEntry
}

// Config controls a segmentation pass. Zero values take the defaults.
type Config struct {
	PageRunes int
	MinRunes  int
	Junk      *JunkFilter
}

func (c Config) withDefaults() Config {
	if c.PageRunes <= 0 {
		c.PageRunes = DefaultPageRunes
	}
	if c.MinRunes <= 0 {
		c.MinRunes = DefaultMinRunes
	}
	if c.Junk == nil {
		c.Junk = DefaultJunkFilter()
	}
	return c
}

// Segment walks document items in their declared order, skipping junk and
// non-substantive items, and emits pages grouped under detected chapter
// titles. A new chapter entry is created whenever the detected title differs
// from the previous emitted page's title; a filtered item between two runs
// of the same title merges through silently.
func Segment(docs []book.Document, cfg Config) Result {
	cfg = cfg.withDefaults()

	var res Result
	for _, doc := range docs {
		if cfg.Junk.Match(doc.Name) {
			continue
		}
		text := CleanHTML(doc.Markup)
		runes := []rune(text)
		if len(runes) < cfg.MinRunes {
			continue
		}

		title := ExtractTitle(doc.Markup, doc.Name)
		if n := len(res.Pages); n == 0 || res.Pages[n-1].Chapter != title {
			res.Chapters = append(res.Chapters, ChapterEntry{
				Title:     title,
				StartPage: n + 1,
			})
		}

		for i := 0; i < len(runes); i += cfg.PageRunes {
			end := i + cfg.PageRunes
			if end > len(runes) {
				end = len(runes)
			}
			res.Pages = append(res.Pages, Page{
				ID:      len(res.Pages) + 1,
				Chapter: title,
				Content: string(runes[i:end]),
			})
		}
	}
	return res
}

// Words counts whitespace-separated words across pages.
func Words(pages []Page) int {
	total := 0
	for _, p := range pages {
		total += len(strings.Fields(p.Content))
	}
	return total
}
