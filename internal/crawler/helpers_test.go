package crawler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/thomas-dorrington/Runescape2Vec/internal/category"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
)

const testHomepage = "https://wiki.test"

// catURL returns the address of a category page on the test wiki.
func catURL(name string) string {
	return testHomepage + "/w/Category:" + name
}

// pageURL returns the address of an article on the test wiki.
func pageURL(name string) string {
	return testHomepage + "/w/" + name
}

// link renders an anchor.
func link(href, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, text)
}

// catLink renders a subcategory anchor.
func catLink(name string) string {
	return link("/w/Category:"+name, strings.ReplaceAll(name, "_", " "))
}

// pageLink renders a page listing anchor.
func pageLink(name string) string {
	return link("/w/"+name, name)
}

// categoryHTML renders a category page. A nil slice omits the section.
func categoryHTML(subcats, pages []string) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Category</title></head><body><div id="mw-content-text">`)
	if subcats != nil {
		b.WriteString(`<div id="mw-subcategories"><h2>Subcategories</h2>`)
		for _, s := range subcats {
			b.WriteString("<div>" + s + "</div>\n")
		}
		b.WriteString(`</div>`)
	}
	if pages != nil {
		b.WriteString(`<div id="mw-pages"><h2>Pages in category</h2>`)
		for _, p := range pages {
			b.WriteString("<li>" + p + "</li>\n")
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// fakeFetcher serves category pages from memory and records every fetch.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls map[string]int
	order []string

	// before, if set, runs at the start of every Fetch.
	before func(address string)
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{
		pages: pages,
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, address string) (Document, error) {
	if f.before != nil {
		f.before(address)
	}

	f.mu.Lock()
	f.calls[address]++
	f.order = append(f.order, address)
	body, ok := f.pages[address]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s returned 404", ErrUnexpectedStatus, address)
	}
	return ParseDocument(strings.NewReader(body))
}

func (f *fakeFetcher) set(address, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[address] = body
}

func (f *fakeFetcher) count(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[address]
}

func (f *fakeFetcher) fetchOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.order)
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func testResolver() *category.Resolver {
	return category.MustNewResolver(testHomepage)
}

func newTestGraph(rootURL string) *graph.Graph {
	return graph.New("root", rootURL)
}

func testResolverFor(t *testing.T, homepage string) *category.Resolver {
	t.Helper()
	r, err := category.NewResolver(homepage)
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	return r
}
