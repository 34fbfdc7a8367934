package book

import (
	"bufio"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MarkdownSource implements Source for Markdown files. Each header starts a
// new document item so the segmenter sees the same per-chapter structure it
// gets from an EPUB spine.
type MarkdownSource struct{}

func init() {
	Register(&MarkdownSource{})
}

func (s *MarkdownSource) Name() string         { return "Markdown" }
func (s *MarkdownSource) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

func (s *MarkdownSource) Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	meta := Metadata{Title: UnknownTitle, Author: UnknownAuthor}

	var docs []Document
	var title string
	var body []string
	flush := func() {
		if title == "" && len(body) == 0 {
			return
		}
		name := title
		if name == "" {
			name = filepath.Base(path)
		}
		docs = append(docs, Document{Name: name, Markup: sectionMarkup(title, body)})
		title = ""
		body = nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			title = strings.TrimSpace(match[2])
			// First top-level header doubles as the book title.
			if len(match[1]) == 1 && meta.Title == UnknownTitle {
				meta.Title = title
			}
			continue
		}
		body = append(body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	flush()

	return &Book{Meta: meta, Docs: docs}, nil
}

// sectionMarkup renders a markdown section as a minimal HTML fragment so the
// title extractor and markup cleaner treat all sources uniformly.
func sectionMarkup(title string, body []string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(title))
	}
	b.WriteString("<p>")
	for i, line := range body {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString("</p>")
	return b.String()
}
