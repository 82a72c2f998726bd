package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/thomas-dorrington/Runescape2Vec/internal/category"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// Crawler walks the category hierarchy of a wiki depth-first and records
// it in a graph.Graph.
//
// Each call of the traversal carries (address, parent, continuation):
//
//  1. The address is resolved to a category name. Addresses that are not
//     category pages end the branch with a diagnostic.
//  2. The edge parent -> name is added. The graph reports whether name was
//     known before, in the same step.
//  3. A known category reached from a new parent stops here: the edge is
//     recorded, the category is not expanded again.
//  4. Otherwise the page is fetched, its page listing is collected (with
//     its own forward-only pagination) and appended to the node.
//  5. Subcategory links are followed with the category as parent. The
//     first "next page" link is followed as a continuation that keeps the
//     original parent; "previous page" links are never followed.
//
// Failures are local: a diagnostic is recorded and logged, the branch ends
// and the rest of the crawl goes on. Only context cancellation stops the
// whole crawl.
//
// A Crawler may be reused; statistics accumulate until Reset.
type Crawler struct {
	// fetcher returns parsed category pages.
	fetcher Fetcher

	// resolver maps addresses to category names.
	resolver *category.Resolver

	// logger receives diagnostics at WARN and progress at DEBUG.
	logger *slog.Logger

	// onDiagnostic is called for every diagnostic, if set.
	onDiagnostic func(model.Diagnostic)

	// skip holds category name patterns that are never linked or expanded.
	skip skipList

	// mutex protects stats.
	mutex sync.Mutex
	stats model.CrawlStats
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDiagnosticHandler registers fn to be called for every diagnostic.
func WithDiagnosticHandler(fn func(model.Diagnostic)) Option {
	return func(c *Crawler) {
		c.onDiagnostic = fn
	}
}

// WithSkipPatterns excludes categories whose names match any of the glob
// patterns. A skipped category gets no node and no edge.
func WithSkipPatterns(patterns []string) Option {
	return func(c *Crawler) {
		c.skip = newSkipList(patterns)
	}
}

// New creates a Crawler.
func New(fetcher Fetcher, resolver *category.Resolver, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:  fetcher,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl walks the wiki from rootURL and records what it finds in g, with
// rootURL's category as a child of g's root node.
//
// Crawl returns nil when the traversal completes, even if diagnostics were
// recorded. If ctx is cancelled it stops before the next fetch and returns
// ctx.Err(); g then holds everything discovered so far, and categories
// whose expansion was interrupted are left pending for Resume.
func (c *Crawler) Crawl(ctx context.Context, g *graph.Graph, rootURL string) error {
	return c.Extend(ctx, g, g.RootNode(), rootURL)
}

// Extend crawls each address as a subcategory of parent, which must already
// be in g. Categories already in g are linked but not expanded again, so
// only new parts of the hierarchy are fetched.
func (c *Crawler) Extend(ctx context.Context, g *graph.Graph, parent string, addresses ...string) error {
	if !g.HasNode(parent) {
		return fmt.Errorf("%w: %s", graph.ErrUnknownNode, parent)
	}
	for _, address := range addresses {
		if err := c.visit(ctx, g, address, parent, false); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the categories in g that were discovered but never fully
// expanded, in node order. A crawl that was cancelled or hit a fetch
// failure leaves such categories behind.
func Pending(g *graph.Graph) []string {
	var pending []string
	for _, name := range g.Nodes() {
		if name == g.RootNode() {
			continue
		}
		if n, ok := g.Node(name); ok && n.CategoryURL == "" {
			pending = append(pending, name)
		}
	}
	return pending
}

// Resume expands every pending category of g. Pages are merged into the
// existing sequences and known subcategories are only linked, so resuming
// a finished graph fetches nothing.
func (c *Crawler) Resume(ctx context.Context, g *graph.Graph) error {
	for _, name := range Pending(g) {
		parent := g.RootNode()
		if preds, _ := g.Predecessors(name); len(preds) > 0 {
			parent = preds[0]
		}
		c.logger.Debug("resuming category", "category", name, "parent", parent)
		if err := c.expand(ctx, g, name, c.resolver.CategoryURL(name), parent, true); err != nil {
			return err
		}
	}
	return nil
}

// visit is one step of the traversal. It returns an error only when ctx
// is done.
func (c *Crawler) visit(ctx context.Context, g *graph.Graph, address, parent string, continuation bool) error {
	name, err := c.resolver.Resolve(address)
	if err != nil {
		c.report(model.Diagnostic{
			Kind:    model.DiagnosticMalformedAddress,
			Address: address,
			Detail:  err.Error(),
		})
		return nil
	}
	if c.skip.match(name) {
		c.count(func(s *model.CrawlStats) { s.Skipped++ })
		c.logger.Debug("skipping category", "category", name, "parent", parent)
		return nil
	}

	known := g.AddEdge(parent, name)
	if known && !continuation {
		c.count(func(s *model.CrawlStats) { s.Revisits++ })
		c.logger.Debug("category already known", "category", name, "parent", parent)
		return nil
	}

	return c.expand(ctx, g, name, address, parent, !known)
}

// expand fetches one page of a category, merges its page listing and
// follows its subcategory links. first is true on a category's first
// visit, false on a continuation.
func (c *Crawler) expand(ctx context.Context, g *graph.Graph, name, address, parent string, first bool) error {
	if first {
		c.count(func(s *model.CrawlStats) { s.CategoriesVisited++ })
	} else {
		c.count(func(s *model.CrawlStats) { s.Continuations++ })
	}
	c.logger.Debug("expanding category", "category", name, "url", address, "continuation", !first)

	doc, err := c.fetch(ctx, address, name)
	if err != nil {
		// Fetch failures are already reported; only cancellation propagates.
		return ctx.Err()
	}

	// A subcategory continuation repeats the page listing, and its "next
	// page" link carries both offsets. The page chain was walked on the
	// first visit.
	n, _ := g.Node(name)
	pages := n.Pages
	if err := c.collectPages(ctx, doc, name, &pages, first); err != nil {
		return interrupted(g, name, first, err)
	}
	added, err := g.AppendPages(name, pages[len(n.Pages):]...)
	if err != nil {
		return err
	}
	c.count(func(s *model.CrawlStats) { s.PagesAdded += added })

	if first {
		if err := g.SetCategoryURL(name, c.resolver.CategoryURL(name)); err != nil {
			return err
		}
	}

	if err := c.followSubcategories(ctx, g, doc, name, parent); err != nil {
		return interrupted(g, name, first, err)
	}
	return nil
}

// interrupted marks a category whose first visit was cut short as pending
// and passes err through.
func interrupted(g *graph.Graph, name string, first bool, err error) error {
	if first {
		_ = g.SetCategoryURL(name, "")
	}
	return err
}

// followSubcategories walks the subcategory listing of doc in order. The
// first "next page" link is followed where it appears, with the original
// parent; later ones are the bottom copy of the same control.
func (c *Crawler) followSubcategories(ctx context.Context, g *graph.Graph, doc Document, name, parent string) error {
	links, ok := doc.Anchors(SectionSubcategories)
	if !ok {
		return nil
	}

	followed := false
	for _, a := range links {
		switch a.Text {
		case labelPreviousPage:
			continue
		case labelNextPage:
			if followed {
				continue
			}
			followed = true
			if err := c.visit(ctx, g, c.resolver.Absolute(a.Href), parent, true); err != nil {
				return err
			}
			continue
		}
		if err := c.visit(ctx, g, c.resolver.Absolute(a.Href), name, false); err != nil {
			return err
		}
	}
	return nil
}

// ScrapePageListing collects the page addresses listed in the page section
// of the category page at address into acc, following "next page" links.
// name is the category the listing must belong to. Addresses already in
// acc are not added again.
//
// It returns an error wrapping ErrIdentityDrift if address resolves to a
// different category, category.ErrNotCategoryPage if it is not a category
// page, or the fetch error. Each of these is also recorded as a
// diagnostic. Pages collected before a failure stay in acc.
func (c *Crawler) ScrapePageListing(ctx context.Context, address, name string, acc *[]string) error {
	resolved, err := c.resolver.Resolve(address)
	if err != nil {
		c.report(model.Diagnostic{
			Kind:     model.DiagnosticMalformedAddress,
			Address:  address,
			Category: name,
			Detail:   err.Error(),
		})
		return err
	}
	if resolved != name {
		err := fmt.Errorf("%w: %s resolved to %s", ErrIdentityDrift, name, resolved)
		c.report(model.Diagnostic{
			Kind:     model.DiagnosticIdentityDrift,
			Address:  address,
			Category: name,
			Detail:   err.Error(),
		})
		return err
	}

	doc, err := c.fetch(ctx, address, name)
	if err != nil {
		return err
	}
	return c.collectPages(ctx, doc, name, acc, true)
}

// collectPages adds the page listing of doc to acc and, if follow is set,
// its first "next page" link. Failures on continuation pages are recorded
// as diagnostics and end the listing; only context errors are returned.
func (c *Crawler) collectPages(ctx context.Context, doc Document, name string, acc *[]string, follow bool) error {
	links, ok := doc.Anchors(SectionPages)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{}, len(*acc))
	for _, p := range *acc {
		seen[p] = struct{}{}
	}

	next := ""
	for _, a := range links {
		switch a.Text {
		case labelPreviousPage:
			continue
		case labelNextPage:
			if next == "" {
				next = c.resolver.Absolute(a.Href)
			}
			continue
		}
		page := c.resolver.Absolute(a.Href)
		if page == "" {
			continue
		}
		if _, dup := seen[page]; dup {
			continue
		}
		seen[page] = struct{}{}
		*acc = append(*acc, page)
	}

	if next == "" || !follow {
		return nil
	}
	c.count(func(s *model.CrawlStats) { s.ListingPages++ })
	if err := c.ScrapePageListing(ctx, next, name, acc); err != nil {
		return ctx.Err()
	}
	return nil
}

// fetch retrieves a page. A failure other than cancellation is recorded as
// a diagnostic before it is returned.
func (c *Crawler) fetch(ctx context.Context, address, name string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.count(func(s *model.CrawlStats) { s.Fetches++ })
	doc, err := c.fetcher.Fetch(ctx, address)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.report(model.Diagnostic{
			Kind:     model.DiagnosticFetchFailure,
			Address:  address,
			Category: name,
			Detail:   err.Error(),
		})
		return nil, err
	}
	return doc, nil
}

// report records and logs a diagnostic.
func (c *Crawler) report(d model.Diagnostic) {
	c.count(func(s *model.CrawlStats) { s.Diagnostics = append(s.Diagnostics, d) })
	c.logger.Warn("crawl diagnostic",
		"kind", d.Kind.String(),
		"url", d.Address,
		"category", d.Category,
		"detail", d.Detail,
	)
	if c.onDiagnostic != nil {
		c.onDiagnostic(d)
	}
}

func (c *Crawler) count(update func(*model.CrawlStats)) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	update(&c.stats)
}

// Stats returns a copy of the statistics collected so far.
func (c *Crawler) Stats() model.CrawlStats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	s := c.stats
	s.Diagnostics = slices.Clone(c.stats.Diagnostics)
	return s
}

// Reset clears the statistics.
func (c *Crawler) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.stats = model.CrawlStats{}
}
