package segment

import (
	"strings"
	"testing"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		itemName string
		want     string
	}{
		{
			name:     "heading beats class hint",
			markup:   `<h1>Prologue</h1><p class="chapter-title">Chapter One</p>`,
			itemName: "ch0.xhtml",
			want:     "Prologue",
		},
		{
			name:     "h2 found in document order",
			markup:   `<p>Some intro text.</p><h2>The Long Road</h2><h1>Later Heading</h1>`,
			itemName: "ch1.xhtml",
			want:     "The Long Road",
		},
		{
			name:     "heading truncated to sixty runes",
			markup:   "<h1>" + strings.Repeat("x", 80) + "</h1>",
			itemName: "ch2.xhtml",
			want:     strings.Repeat("x", 60),
		},
		{
			name:     "class hint when no heading",
			markup:   `<p class="chapterTitle">Chapter One</p><p>Body text follows here.</p>`,
			itemName: "ch3.xhtml",
			want:     "Chapter One",
		},
		{
			name:     "class hint is case-insensitive",
			markup:   `<div class="Head-Block">Interlude</div>`,
			itemName: "ch4.xhtml",
			want:     "Interlude",
		},
		{
			name:     "class hint too short falls through to first line",
			markup:   "<p class=\"chapter\">IV</p>\n<p>IV</p>",
			itemName: "ch5.xhtml",
			want:     "IV",
		},
		{
			name:     "class hint too long falls through",
			markup:   `<p class="title">` + strings.Repeat("y", 70) + `</p>`,
			itemName: "ch6.xhtml",
			want:     "Section (ch6.xhtml)",
		},
		{
			name:     "short first line",
			markup:   "<p>Chapter 12\nIt was a dark and stormy night, and the rain fell in torrents.</p>",
			itemName: "ch7.xhtml",
			want:     "Chapter 12",
		},
		{
			name:     "long first line falls through to fallback",
			markup:   "<p>" + strings.Repeat("a", 120) + "</p>",
			itemName: "OEBPS/text/ch8.xhtml",
			want:     "Section (ch8.xhtml)",
		},
		{
			name:     "empty fragment uses fallback",
			markup:   "",
			itemName: "part2/section09.xhtml",
			want:     "Section (section09.xhtml)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.markup, tt.itemName); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleRuleOrder(t *testing.T) {
	wantOrder := []string{"heading", "class-hint", "first-line"}
	if len(titleRules) != len(wantOrder) {
		t.Fatalf("got %d rules, want %d", len(titleRules), len(wantOrder))
	}
	for i, rule := range titleRules {
		if rule.Name != wantOrder[i] {
			t.Errorf("rule %d = %q, want %q", i, rule.Name, wantOrder[i])
		}
	}
}
