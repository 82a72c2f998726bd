package category

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DisplayName converts a category identifier as it appears in a URL into
// the human-readable form a page shows in its category footer.
// Percent-escapes are decoded, underscores become spaces, runs of
// whitespace collapse, and the result is NFC-normalized.
// Names that are already in display form are returned normalized.
func DisplayName(name string) string {
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.Join(strings.Fields(name), " ")
	return norm.NFC.String(name)
}

// Key returns a comparison key for a category name in either URL or display
// form. Two names with the same key refer to the same wiki category.
// Wiki titles are case-insensitive in their first letter only.
func Key(name string) string {
	d := DisplayName(name)
	if d == "" {
		return d
	}
	r, size := utf8.DecodeRuneInString(d)
	return cases.Fold().String(string(r)) + d[size:]
}

// SameCategory reports whether a and b name the same category.
func SameCategory(a, b string) bool {
	return Key(a) == Key(b)
}
