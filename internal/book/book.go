// Package book loads books from supported file formats into an ordered
// sequence of document items plus metadata, ready for segmentation.
package book

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Fallback metadata values when the source declares none.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// Document is a single ordered content item from a book, in its raw markup
// form. Name is the item's identifier within the source (e.g. a spine href).
type Document struct {
	Name   string
	Markup string
}

// Metadata describes the book as a whole.
type Metadata struct {
	Title  string
	Author string
	Cover  []byte
}

// Book is a loaded book: metadata plus its document items in declared order.
type Book struct {
	Meta Metadata
	Docs []Document
}

// ParseError indicates the file could not be opened or parsed as a valid
// book. Callers should treat it as a visible but non-fatal notice.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Source defines a book format loader.
type Source interface {
	Name() string
	Extensions() []string
	Load(path string) (*Book, error)
}

var registry []Source

// Register adds a source to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// Load opens a book file, dispatching on its extension.
func Load(path string) (*Book, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range registry {
		for _, e := range s.Extensions() {
			if ext == e {
				return s.Load(path)
			}
		}
	}
	return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported format %q", ext)}
}

// OpenBytes loads a book from raw bytes by materializing them to a temporary
// file. The file is removed before returning, on every path.
func OpenBytes(data []byte, name string) (*Book, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".epub"
	}
	tmp, err := os.CreateTemp("", "bookxray-*"+ext)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, &ParseError{Path: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	return Load(tmpPath)
}

// SupportedFormats returns registered source names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, s := range registry {
		out = append(out, s.Name()+" ("+strings.Join(s.Extensions(), ", ")+")")
	}
	return out
}
