package crawler

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Pagination control labels on MediaWiki listing sections.
const (
	labelPreviousPage = "previous page"
	labelNextPage     = "next page"
)

// SectionRole names a listing section of a category page.
type SectionRole int

const (
	// SectionSubcategories is the subcategory listing (div#mw-subcategories).
	SectionSubcategories SectionRole = iota

	// SectionPages is the page listing (div#mw-pages).
	SectionPages
)

// String returns the element id of the section.
func (r SectionRole) String() string {
	switch r {
	case SectionSubcategories:
		return "mw-subcategories"
	case SectionPages:
		return "mw-pages"
	default:
		return "unknown"
	}
}

// Anchor is a link inside a listing section.
type Anchor struct {
	// Text is the visible link label with whitespace collapsed.
	Text string

	// Href is the raw href attribute, usually root-relative.
	Href string
}

// Document is the view of a category page the crawler needs: the anchors
// of a listing section, in document order. The second result is false when
// the page has no such section.
type Document interface {
	Anchors(role SectionRole) ([]Anchor, bool)
}

// HTMLDocument is a Document backed by a parsed HTML tree.
type HTMLDocument struct {
	root *html.Node
}

// ParseDocument parses an HTML page.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{root: root}, nil
}

// Anchors implements Document.
func (d *HTMLDocument) Anchors(role SectionRole) ([]Anchor, bool) {
	section := findByID(d.root, role.String())
	if section == nil {
		return nil, false
	}
	return anchors(section), true
}

// Root returns the root of the parsed tree.
func (d *HTMLDocument) Root() *html.Node {
	return d.root
}
