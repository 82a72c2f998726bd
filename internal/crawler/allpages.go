package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/thomas-dorrington/Runescape2Vec/internal/category"
)

// AllPagesURL returns the Special:AllPages address listing every article
// in the main namespace, without redirects.
func AllPagesURL(homepage string) string {
	return strings.TrimRight(homepage, "/") + "/w/Special:AllPages?from=&to=&namespace=0&hideredirects=1"
}

// AllPagesLister walks the Special:AllPages index of a wiki.
type AllPagesLister struct {
	source   PageSource
	resolver *category.Resolver
	logger   *slog.Logger
}

// NewAllPagesLister creates an AllPagesLister.
func NewAllPagesLister(source PageSource, resolver *category.Resolver, logger *slog.Logger) *AllPagesLister {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllPagesLister{
		source:   source,
		resolver: resolver,
		logger:   logger,
	}
}

// List returns the sorted addresses of every page in the index starting at
// startURL. Navigation is forward-only: "next page" links are followed,
// "previous page" links never are. On failure the pages listed so far are
// returned with the error.
func (l *AllPagesLister) List(ctx context.Context, startURL string) ([]string, error) {
	seen := make(map[string]struct{})
	visited := make(map[string]bool)

	collect := func() []string {
		pages := make([]string, 0, len(seen))
		for p := range seen {
			pages = append(pages, p)
		}
		slices.Sort(pages)
		return pages
	}

	for address := startURL; address != ""; {
		if err := ctx.Err(); err != nil {
			return collect(), err
		}
		visited[address] = true

		page, err := l.source.FetchPage(ctx, address)
		if err != nil {
			return collect(), err
		}
		doc, err := parsePage(page)
		if err != nil {
			return collect(), err
		}

		body := findByTagAndClass(doc.Root(), atom.Div, "mw-allpages-body")
		if body == nil {
			return collect(), fmt.Errorf("%w: %s", ErrMissingSection, address)
		}
		for _, a := range anchors(body) {
			if p := l.resolver.Absolute(a.Href); p != "" {
				seen[p] = struct{}{}
			}
		}
		l.logger.Debug("listed index page", "url", address, "pages", len(seen))

		next := ""
		if nav := findByTagAndClass(doc.Root(), atom.Div, "mw-allpages-nav"); nav != nil {
			for _, a := range anchors(nav) {
				text := strings.ToLower(a.Text)
				if strings.Contains(text, labelPreviousPage) {
					continue
				}
				if strings.Contains(text, labelNextPage) {
					next = l.resolver.Absolute(a.Href)
					break
				}
			}
		}
		if visited[next] {
			next = ""
		}
		address = next
	}

	return collect(), nil
}
