package category

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// categoryPath is the path prefix of every category page.
const categoryPath = "/w/Category:"

// Pagination identifies which listing a category page address continues.
type Pagination int

const (
	// PaginationNone is the first page of a category.
	PaginationNone Pagination = iota

	// PaginationPages continues the page listing (pagefrom/pageuntil).
	PaginationPages

	// PaginationSubcategories continues the subcategory listing
	// (subcatfrom/subcatuntil).
	PaginationSubcategories
)

// String returns the name of the pagination kind.
func (p Pagination) String() string {
	switch p {
	case PaginationNone:
		return "none"
	case PaginationPages:
		return "pages"
	case PaginationSubcategories:
		return "subcategories"
	default:
		return "unknown"
	}
}

// Resolver maps category page addresses on one wiki to category names.
// It is immutable and safe for concurrent use.
type Resolver struct {
	// homepage is the wiki origin without a trailing slash,
	// e.g. "https://oldschool.runescape.wiki".
	homepage string

	// base is homepage parsed, used to resolve relative hrefs.
	base *url.URL

	// pattern matches category page addresses. Group 1 is the name,
	// group 2 a page-listing suffix, group 3 a subcategory-listing suffix.
	// A page-listing suffix and a subcategory-listing suffix never match
	// together: continuations are followed one listing at a time.
	pattern *regexp.Regexp
}

// NewResolver creates a Resolver for the wiki served at homepage.
func NewResolver(homepage string) (*Resolver, error) {
	homepage = strings.TrimRight(strings.TrimSpace(homepage), "/")

	base, err := url.Parse(homepage)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHomepage, homepage)
	}

	pattern := regexp.MustCompile(
		`^` + regexp.QuoteMeta(homepage+categoryPath) + `([A-Za-z0-9_\-.%()/!]+)` +
			`(?:\?(?:((?:pagefrom|pageuntil)=.*#mw-pages)|((?:subcatfrom|subcatuntil)=.*#mw-subcategories)))?$`,
	)

	return &Resolver{
		homepage: homepage,
		base:     base,
		pattern:  pattern,
	}, nil
}

// MustNewResolver is like NewResolver but panics on an invalid homepage.
// It is intended for package-level defaults and tests.
func MustNewResolver(homepage string) *Resolver {
	r, err := NewResolver(homepage)
	if err != nil {
		panic(err)
	}
	return r
}

// Homepage returns the wiki origin the resolver was built for.
func (r *Resolver) Homepage() string {
	return r.homepage
}

// Resolve returns the category name of address.
// It returns an error wrapping ErrNotCategoryPage if address is not a
// category page of this wiki.
func (r *Resolver) Resolve(address string) (string, error) {
	m := r.pattern.FindStringSubmatch(address)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNotCategoryPage, address)
	}
	return m[1], nil
}

// PaginationOf reports which listing address continues.
// The second result is false if address is not a category page.
func (r *Resolver) PaginationOf(address string) (Pagination, bool) {
	m := r.pattern.FindStringSubmatch(address)
	if m == nil {
		return PaginationNone, false
	}
	switch {
	case m[2] != "":
		return PaginationPages, true
	case m[3] != "":
		return PaginationSubcategories, true
	default:
		return PaginationNone, true
	}
}

// CategoryURL returns the canonical address of the first page of a category.
func (r *Resolver) CategoryURL(name string) string {
	return r.homepage + categoryPath + name
}

// Absolute turns an href found on a wiki page into an absolute address.
// Root-relative hrefs are joined to the homepage verbatim so that the
// escaping chosen by the wiki is preserved byte for byte.
func (r *Resolver) Absolute(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//"):
		return r.homepage + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return r.base.ResolveReference(u).String()
}
