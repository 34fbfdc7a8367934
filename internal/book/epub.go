package book

import (
	"errors"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// EPUBSource implements Source for EPUB files.
type EPUBSource struct{}

func init() {
	Register(&EPUBSource{})
}

func (s *EPUBSource) Name() string         { return "EPUB" }
func (s *EPUBSource) Extensions() []string { return []string{".epub"} }

// Load opens an EPUB archive and returns its spine documents in reading
// order, along with title, author and cover image when declared.
func (s *EPUBSource) Load(path string) (*Book, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("no rootfiles found in epub")}
	}

	pkg := rc.Rootfiles[0]

	meta := Metadata{
		Title:  strings.TrimSpace(pkg.Metadata.Title),
		Author: strings.TrimSpace(pkg.Metadata.Creator),
		Cover:  findCover(pkg),
	}
	if meta.Title == "" {
		meta.Title = UnknownTitle
	}
	if meta.Author == "" {
		meta.Author = UnknownAuthor
	}

	var docs []Document
	for _, ref := range pkg.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		docs = append(docs, Document{Name: ref.Item.HREF, Markup: string(data)})
	}

	return &Book{Meta: meta, Docs: docs}, nil
}

// findCover scans manifest image items for a likely cover. Matches the
// common naming convention: "cover" or "default" in the item id or href.
func findCover(pkg *epub.Rootfile) []byte {
	for i := range pkg.Manifest.Items {
		item := &pkg.Manifest.Items[i]
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		name := strings.ToLower(item.ID + " " + item.HREF)
		if !strings.Contains(name, "cover") && !strings.Contains(name, "default") {
			continue
		}
		r, err := item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err == nil && len(data) > 0 {
			return data
		}
	}
	return nil
}
