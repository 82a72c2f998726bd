package crawler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// inlineMarker matches bracketed annotations left in paragraph text:
// footnote numbers ("[1]", "[a]") and locale tags ("[UK]", "[US]").
var inlineMarker = regexp.MustCompile(`\s*\[(?:\d+|[a-z]|[A-Z]{2,3}|note \d+)\]`)

// ArticleScraper extracts the text and declared categories of article
// pages. It is safe for concurrent use if its source is.
type ArticleScraper struct {
	source PageSource
}

// NewArticleScraper creates an ArticleScraper reading pages from source.
func NewArticleScraper(source PageSource) *ArticleScraper {
	return &ArticleScraper{source: source}
}

// Scrape fetches the article at address and extracts its content.
func (s *ArticleScraper) Scrape(ctx context.Context, address string) (*model.Article, error) {
	page, err := s.source.FetchPage(ctx, address)
	if err != nil {
		return nil, err
	}
	doc, err := parsePage(page)
	if err != nil {
		return nil, err
	}
	return ParseArticle(address, doc.Root())
}

// ParseArticle extracts an article from a parsed page.
//
// The title comes from h1#firstHeading, or the <title> element when the
// heading is missing. Paragraphs are the <p> elements of the article body
// (div.mw-parser-output) with reference superscripts and locale-variant
// spans removed. Categories come from the lists in div#mw-normal-catlinks
// and div#mw-hidden-catlinks. The tree under root is modified.
func ParseArticle(address string, root *html.Node) (*model.Article, error) {
	body := findByTagAndClass(root, atom.Div, "mw-parser-output")
	if body == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoArticleContent, address)
	}

	article := &model.Article{
		URL:              address,
		Title:            articleTitle(root),
		Paragraphs:       paragraphs(body),
		Categories:       categoryLinks(root, "mw-normal-catlinks"),
		HiddenCategories: categoryLinks(root, "mw-hidden-catlinks"),
	}
	return article, nil
}

func articleTitle(root *html.Node) string {
	if h1 := findByID(root, "firstHeading"); h1 != nil {
		if t := collapseSpace(textContent(h1)); t != "" {
			return t
		}
	}
	if t := findFirst(root, isTag(atom.Title)); t != nil {
		return collapseSpace(textContent(t))
	}
	return ""
}

func paragraphs(body *html.Node) []string {
	removeAll(body, func(n *html.Node) bool {
		return (n.DataAtom == atom.Sup && hasClass(n, "reference")) ||
			hasClass(n, "locale-variant") ||
			hasClass(n, "mw-editsection")
	})

	var out []string
	for _, p := range findAll(body, isTag(atom.P)) {
		text := inlineMarker.ReplaceAllString(textContent(p), "")
		text = collapseSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// categoryLinks returns the category names listed in the catlinks div with
// the given id. The leading "Category:" or "Categories:" label is outside
// the list and is skipped.
func categoryLinks(root *html.Node, id string) []string {
	div := findByID(root, id)
	if div == nil {
		return []string{}
	}

	names := []string{}
	for _, li := range findAll(div, isTag(atom.Li)) {
		for _, a := range anchors(li) {
			if a.Text == "" || strings.EqualFold(a.Text, "Category") {
				continue
			}
			names = append(names, a.Text)
		}
	}
	return names
}
