package segment

import "testing"

func TestJunkFilterMatch(t *testing.T) {
	tests := []struct {
		name string
		item string
		want bool
	}{
		{"title page", "titlepage.xhtml", true},
		{"cover", "cover.xhtml", true},
		{"cover uppercase", "COVER.XHTML", true},
		{"copyright", "OEBPS/copyright.html", true},
		{"table of contents", "toc.ncx.xhtml", true},
		{"contents", "contents01.xhtml", true},
		{"dedication", "dedication.xhtml", true},
		{"acknowledgments", "acknowledgments.xhtml", true},
		{"ack variant", "acks.xhtml", true},
		{"regular chapter", "chapter05.xhtml", false},
		{"numbered section", "ch1.xhtml", false},
		{"body part", "part03_body.xhtml", false},
	}

	f := DefaultJunkFilter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Match(tt.item); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}
