package analyze

import (
	"context"
	"fmt"
	"strings"

	"bookxray/internal/segment"
)

// MaxChapterRunes caps the chapter text sent in one request. Content past
// the cap is dropped, not split into further requests.
const MaxChapterRunes = 30000

// Mode selects the report style.
type Mode string

const (
	Recap Mode = "Recap"
	XRay  Mode = "X-Ray"
)

// Chapter is one analysis unit: a chapter title and the joined text of its
// selected pages.
type Chapter struct {
	Title string
	Text  string
}

// GroupByChapter folds a page selection into chapter units, preserving the
// first-occurrence order of chapter titles within the selection. Pages of
// the same chapter join with a newline.
func GroupByChapter(pages []segment.Page) []Chapter {
	var out []Chapter
	index := make(map[string]int)
	for _, p := range pages {
		if i, ok := index[p.Chapter]; ok {
			out[i].Text += "\n" + p.Content
			continue
		}
		index[p.Chapter] = len(out)
		out = append(out, Chapter{Title: p.Chapter, Text: p.Content})
	}
	return out
}

// Analyzer runs one provider request per chapter, strictly sequentially,
// and assembles a combined Markdown report. A failed chapter contributes an
// inline error marker instead of aborting the batch.
type Analyzer struct {
	Provider Provider
	// Progress, when set, is called before each chapter request with the
	// number of chapters completed so far and the total.
	Progress func(done, total int)
}

// Run analyzes the selected pages in the given mode. progress is the
// reader's position through the book in percent, fed into recap prompts.
func (a *Analyzer) Run(ctx context.Context, mode Mode, pages []segment.Page, book, author string, progress int) string {
	chapters := GroupByChapter(pages)
	var report strings.Builder

	for i, ch := range chapters {
		if a.Progress != nil {
			a.Progress(i, len(chapters))
		}
		text := truncateRunes(ch.Text, MaxChapterRunes)

		var req Request
		switch mode {
		case XRay:
			req = XRayRequest(ch.Title, book, author, text)
		default:
			req = RecapRequest(ch.Title, book, author, text, progress)
		}

		result, err := a.Provider.Generate(ctx, req)
		if err != nil {
			fmt.Fprintf(&report, "### %s\n[Error: %v]\n\n", ch.Title, err)
			continue
		}
		switch mode {
		case XRay:
			fmt.Fprintf(&report, "## 🔎 X-Ray: %s\n%s\n\n---\n\n", ch.Title, result)
		default:
			fmt.Fprintf(&report, "### %s\n%s\n\n", ch.Title, result)
		}
	}

	if a.Progress != nil {
		a.Progress(len(chapters), len(chapters))
	}
	return report.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
