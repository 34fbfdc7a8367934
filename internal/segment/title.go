package segment

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxTitleRunes bounds every extracted title.
	maxTitleRunes = 60
	// maxFirstLineRunes is the cutoff for the first-line heuristic: short
	// first lines are likely chapter markers, long ones are body text.
	maxFirstLineRunes = 50
)

var classHintRegex = regexp.MustCompile(`(?i)(title|chapter|head)`)

// TitleRule is one step of the title heuristic chain. Apply reports whether
// the rule matched; rules are tried in order and the first match wins.
type TitleRule struct {
	Name  string
	Apply func(doc *goquery.Document) (string, bool)
}

// titleRules is the prioritized heuristic chain. Order matters.
var titleRules = []TitleRule{
	{Name: "heading", Apply: titleFromHeading},
	{Name: "class-hint", Apply: titleFromClassHint},
	{Name: "first-line", Apply: titleFromFirstLine},
}

// ExtractTitle infers a section title from a document fragment, falling back
// to a marker built from the item name when no rule matches.
func ExtractTitle(markup, itemName string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err == nil {
		for _, rule := range titleRules {
			if title, ok := rule.Apply(doc); ok {
				return title
			}
		}
	}
	return "Section (" + path.Base(itemName) + ")"
}

// titleFromHeading takes the text of the first h1-h3 element in document
// order, truncated to the title bound.
func titleFromHeading(doc *goquery.Document) (string, bool) {
	sel := doc.Find("h1, h2, h3").First()
	if sel.Length() == 0 {
		return "", false
	}
	return truncateRunes(strings.TrimSpace(sel.Text()), maxTitleRunes), true
}

// titleFromClassHint takes the first element whose class attribute looks
// title-like, provided its text has a plausible title length.
func titleFromClassHint(doc *goquery.Document) (string, bool) {
	var found string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !classHintRegex.MatchString(class) {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if n := utf8.RuneCountInString(text); n > 3 && n < maxTitleRunes {
			found = text
			return false
		}
		return true
	})
	return found, found != ""
}

// titleFromFirstLine takes the first non-blank line of the fragment's plain
// text when it is short enough to plausibly be a chapter marker.
func titleFromFirstLine(doc *goquery.Document) (string, bool) {
	for _, line := range strings.Split(strings.TrimSpace(doc.Text()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) < maxFirstLineRunes {
			return line, true
		}
		return "", false
	}
	return "", false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
