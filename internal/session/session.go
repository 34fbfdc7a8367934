// Package session holds the caller-owned state for one loaded book: its
// pages, chapter index, metadata, and the current selection range. The whole
// session resets when a new file is loaded.
package session

import (
	"fmt"

	"bookxray/internal/book"
	"bookxray/internal/segment"
)

// DefaultSpanPages is the initial selection size for a freshly loaded book.
const DefaultSpanPages = 10

// SelectionError indicates a chapter-title pair could not be resolved
// against the current chapter index, e.g. a stale selection after loading a
// new file. The previous valid selection is retained.
type SelectionError struct {
	Start string
	End   string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("chapter selection %q..%q not in current index", e.Start, e.End)
}

// Session is the explicit, caller-owned analysis session.
type Session struct {
	Path     string
	Meta     book.Metadata
	Pages    []segment.Page
	Chapters []segment.ChapterEntry

	start, end int // 1-based, inclusive; zero when no book is loaded

	reportKind string
	report     string
	hasReport  bool
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Load replaces the session contents with a freshly segmented book. On
// failure the session is left empty and the error is returned for display;
// an empty page list is the caller-visible failure signal.
func (s *Session) Load(path string, cfg segment.Config) error {
	*s = Session{}

	b, err := book.Load(path)
	if err != nil {
		return err
	}

	res := segment.Segment(b.Docs, cfg)
	s.Path = path
	s.Meta = b.Meta
	s.Pages = res.Pages
	s.Chapters = res.Chapters
	if n := len(s.Pages); n > 0 {
		s.start = 1
		s.end = min(DefaultSpanPages, n)
	}
	return nil
}

// Empty reports whether the session holds no pages.
func (s *Session) Empty() bool { return len(s.Pages) == 0 }

// PageCount returns the total number of pages.
func (s *Session) PageCount() int { return len(s.Pages) }

// Selection returns the current 1-based inclusive page range.
func (s *Session) Selection() (start, end int) { return s.start, s.end }

// SetPageRange sets the numeric selection, clamping both bounds into
// [1, PageCount] and forcing start <= end. Any cached report is discarded.
func (s *Session) SetPageRange(start, end int) {
	if s.Empty() {
		return
	}
	n := len(s.Pages)
	if start < 1 {
		start = 1
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	s.start, s.end = start, end
	s.clearReport()
}

// SetChapterRange resolves a chapter-title pair into a page range. The start
// chapter's first page opens the range; the range closes at the page before
// the chapter following the end chapter, or at the last page when the end
// chapter is final. An end chapter preceding the start chapter clamps to the
// start chapter. Resolution is idempotent. Unknown titles leave the current
// selection untouched and return a SelectionError.
func (s *Session) SetChapterRange(startTitle, endTitle string) error {
	si := s.chapterIndex(startTitle)
	ei := s.chapterIndex(endTitle)
	if si < 0 || ei < 0 {
		return &SelectionError{Start: startTitle, End: endTitle}
	}
	if ei < si {
		ei = si
	}

	start := s.Chapters[si].StartPage
	end := len(s.Pages)
	if ei < len(s.Chapters)-1 {
		end = s.Chapters[ei+1].StartPage - 1
	}
	s.SetPageRange(start, end)
	return nil
}

// chapterIndex returns the index of the first chapter entry with the given
// title, or -1. Titles are not unique; first occurrence wins.
func (s *Session) chapterIndex(title string) int {
	for i, c := range s.Chapters {
		if c.Title == title {
			return i
		}
	}
	return -1
}

// ChapterTitles returns the chapter titles in index order.
func (s *Session) ChapterTitles() []string {
	out := make([]string, len(s.Chapters))
	for i, c := range s.Chapters {
		out[i] = c.Title
	}
	return out
}

// SelectedPages returns the pages inside the current selection.
func (s *Session) SelectedPages() []segment.Page {
	if s.Empty() || s.start < 1 {
		return nil
	}
	return s.Pages[s.start-1 : s.end]
}

// TotalWords counts words across the whole book.
func (s *Session) TotalWords() int { return segment.Words(s.Pages) }

// SelectedWords counts words inside the current selection.
func (s *Session) SelectedWords() int { return segment.Words(s.SelectedPages()) }

// Progress returns how far through the book the selection's end page sits,
// as a percentage.
func (s *Session) Progress() int {
	if s.Empty() {
		return 0
	}
	return s.end * 100 / len(s.Pages)
}

// SetReport caches an analysis report for the current selection.
func (s *Session) SetReport(kind, text string) {
	s.reportKind = kind
	s.report = text
	s.hasReport = true
}

// Report returns the cached report, if the selection has not changed since
// it was produced.
func (s *Session) Report() (kind, text string, ok bool) {
	return s.reportKind, s.report, s.hasReport
}

func (s *Session) clearReport() {
	s.reportKind = ""
	s.report = ""
	s.hasReport = false
}
