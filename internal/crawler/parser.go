package crawler

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Helpers over golang.org/x/net/html trees. They cover the handful of
// lookups MediaWiki markup needs: elements by id, by class and by tag,
// anchor extraction and text content.

// getAttr returns the value of the attribute key, or "" if absent.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// hasClass reports whether n has class among its space-separated classes.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findFirst returns the first element in document order below n (including
// n itself) that satisfies match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element below n (including n itself) that
// satisfies match, in document order. Matching elements are not searched
// further.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findByID returns the first element with the given id.
func findByID(n *html.Node, id string) *html.Node {
	return findFirst(n, func(n *html.Node) bool {
		return getAttr(n, "id") == id
	})
}

// findByTagAndClass returns the first element of the given tag with class.
func findByTagAndClass(n *html.Node, tag atom.Atom, class string) *html.Node {
	return findFirst(n, func(n *html.Node) bool {
		return n.DataAtom == tag && hasClass(n, class)
	})
}

// isTag returns a matcher for elements of the given tag.
func isTag(tag atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.DataAtom == tag
	}
}

// textContent returns the concatenated text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseSpace trims s and replaces every run of whitespace with a single
// space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// anchors returns the links below n that have an href, with their text
// whitespace-collapsed.
func anchors(n *html.Node) []Anchor {
	var out []Anchor
	for _, a := range findAll(n, isTag(atom.A)) {
		href := getAttr(a, "href")
		if href == "" {
			continue
		}
		out = append(out, Anchor{
			Text: collapseSpace(textContent(a)),
			Href: href,
		})
	}
	return out
}

// removeAll detaches every element below n that satisfies match.
func removeAll(n *html.Node, match func(*html.Node) bool) {
	for _, m := range findAll(n, match) {
		if m == n || m.Parent == nil {
			continue
		}
		m.Parent.RemoveChild(m)
	}
}
