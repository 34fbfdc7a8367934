package session

import (
	"testing"

	"bookxray/internal/segment"
)

// testSession builds a session with chapters starting at the given pages
// over a book of total pages, mirroring a segmenter result.
func testSession(starts []int, titles []string, total int) *Session {
	s := New()
	for i, sp := range starts {
		s.Chapters = append(s.Chapters, segment.ChapterEntry{Title: titles[i], StartPage: sp})
	}
	chapter := 0
	for p := 1; p <= total; p++ {
		if chapter+1 < len(starts) && p >= starts[chapter+1] {
			chapter++
		}
		s.Pages = append(s.Pages, segment.Page{ID: p, Chapter: titles[chapter], Content: "word "})
	}
	s.start, s.end = 1, total
	return s
}

func TestSetChapterRange(t *testing.T) {
	tests := []struct {
		name       string
		startTitle string
		endTitle   string
		wantStart  int
		wantEnd    int
	}{
		{"single first chapter", "Chapter 1", "Chapter 1", 1, 5},
		{"middle chapter", "Chapter 2", "Chapter 2", 6, 9},
		{"span to last chapter", "Chapter 2", "Chapter 3", 6, 15},
		{"full book", "Chapter 1", "Chapter 3", 1, 15},
		{"inverted pair clamps to start chapter", "Chapter 2", "Chapter 1", 6, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession([]int{1, 6, 10}, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, 15)
			if err := s.SetChapterRange(tt.startTitle, tt.endTitle); err != nil {
				t.Fatalf("SetChapterRange: %v", err)
			}
			start, end := s.Selection()
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Selection() = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSetChapterRangeIdempotent(t *testing.T) {
	s := testSession([]int{1, 6, 10}, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, 15)

	if err := s.SetChapterRange("Chapter 1", "Chapter 2"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	s1, e1 := s.Selection()

	if err := s.SetChapterRange("Chapter 1", "Chapter 2"); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	s2, e2 := s.Selection()

	if s1 != s2 || e1 != e2 {
		t.Errorf("resolution not idempotent: (%d, %d) then (%d, %d)", s1, e1, s2, e2)
	}
}

func TestSetChapterRangeStaleSelection(t *testing.T) {
	s := testSession([]int{1, 6, 10}, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, 15)
	s.SetPageRange(2, 7)

	err := s.SetChapterRange("Prologue", "Chapter 2")
	if err == nil {
		t.Fatal("expected SelectionError for unknown title")
	}
	if _, ok := err.(*SelectionError); !ok {
		t.Fatalf("got %T, want *SelectionError", err)
	}

	start, end := s.Selection()
	if start != 2 || end != 7 {
		t.Errorf("stale selection changed range to (%d, %d), want (2, 7) retained", start, end)
	}
}

func TestSetPageRangeClamping(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		end       int
		wantStart int
		wantEnd   int
	}{
		{"in range", 3, 8, 3, 8},
		{"start below one", -2, 4, 1, 4},
		{"end beyond total", 10, 99, 10, 15},
		{"inverted", 9, 2, 9, 9},
		{"single page", 7, 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession([]int{1}, []string{"Chapter 1"}, 15)
			s.SetPageRange(tt.start, tt.end)
			start, end := s.Selection()
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Selection() = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSelectionChangeDiscardsReport(t *testing.T) {
	s := testSession([]int{1, 6, 10}, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, 15)

	s.SetReport("Recap", "### Chapter 1\nresult\n\n")
	if _, _, ok := s.Report(); !ok {
		t.Fatal("report not cached")
	}

	s.SetPageRange(1, 5)
	if _, _, ok := s.Report(); ok {
		t.Error("numeric selection change kept stale report")
	}

	s.SetReport("Recap", "another")
	if err := s.SetChapterRange("Chapter 2", "Chapter 3"); err != nil {
		t.Fatalf("SetChapterRange: %v", err)
	}
	if _, _, ok := s.Report(); ok {
		t.Error("chapter selection change kept stale report")
	}
}

func TestDuplicateTitleResolvesToFirstOccurrence(t *testing.T) {
	s := testSession([]int{1, 4, 8}, []string{"Chapter", "Interlude", "Chapter"}, 12)

	if err := s.SetChapterRange("Chapter", "Chapter"); err != nil {
		t.Fatalf("SetChapterRange: %v", err)
	}
	start, end := s.Selection()
	if start != 1 || end != 3 {
		t.Errorf("Selection() = (%d, %d), want (1, 3)", start, end)
	}
}

func TestSelectedPages(t *testing.T) {
	s := testSession([]int{1, 6, 10}, []string{"Chapter 1", "Chapter 2", "Chapter 3"}, 15)
	s.SetPageRange(6, 9)

	pages := s.SelectedPages()
	if len(pages) != 4 {
		t.Fatalf("got %d pages, want 4", len(pages))
	}
	if pages[0].ID != 6 || pages[3].ID != 9 {
		t.Errorf("page IDs %d..%d, want 6..9", pages[0].ID, pages[3].ID)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		wpm   int
		want  string
	}{
		{"zero words", 0, 250, "0 min"},
		{"zero words any rate", 0, 999, "0 min"},
		{"under an hour", 5000, 250, "20 min"},
		{"truncates minutes", 5100, 250, "20 min"},
		{"exactly one hour", 15000, 250, "1h 0m"},
		{"hour forty", 25000, 250, "1h 40m"},
		{"non-positive rate uses default", 25000, 0, "1h 40m"},
		{"negative rate uses default", 500, -10, "2 min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingTime(tt.words, tt.wpm); got != tt.want {
				t.Errorf("ReadingTime(%d, %d) = %q, want %q", tt.words, tt.wpm, got, tt.want)
			}
		})
	}
}
