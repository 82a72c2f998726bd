package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/thomas-dorrington/Runescape2Vec/internal/category"
	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

const testHomepage = "https://wiki.test"

func catURL(name string) string {
	return testHomepage + "/w/Category:" + name
}

func pageURL(name string) string {
	return testHomepage + "/w/" + name
}

// categoryHTML renders a category page listing subcats and pages by name.
func categoryHTML(subcats, pages []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="mw-content-text">`)
	b.WriteString(`<div id="mw-subcategories"><h2>Subcategories</h2>`)
	for _, s := range subcats {
		fmt.Fprintf(&b, `<div><a href="/w/Category:%s">%s</a></div>`, s, strings.ReplaceAll(s, "_", " "))
	}
	b.WriteString(`</div><div id="mw-pages"><h2>Pages in category</h2>`)
	for _, p := range pages {
		fmt.Fprintf(&b, `<li><a href="/w/%s">%s</a></li>`, p, p)
	}
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

// wikiSource serves HTML pages from memory.
type wikiSource struct {
	mu    sync.Mutex
	pages map[string]string
	calls int

	// before, if set, runs at the start of every fetch.
	before func(address string)
}

func (w *wikiSource) FetchPage(_ context.Context, address string) (*model.Page, error) {
	if w.before != nil {
		w.before(address)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	body, ok := w.pages[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s returned 404", crawler.ErrUnexpectedStatus, address)
	}
	return &model.Page{URL: address, StatusCode: 200, ContentType: "text/html", Body: []byte(body)}, nil
}

func (w *wikiSource) fetches() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// testWiki is Content -> {Monsters, Items}, Monsters -> Slayer_monsters.
func testWiki() map[string]string {
	return map[string]string{
		catURL("Content"):         categoryHTML([]string{"Monsters", "Items"}, nil),
		catURL("Monsters"):        categoryHTML([]string{"Slayer_monsters"}, []string{"Goblin"}),
		catURL("Slayer_monsters"): categoryHTML(nil, []string{"Abyssal_demon", "Goblin"}),
		catURL("Items"):           categoryHTML(nil, []string{"Abyssal_whip"}),
	}
}

func newTestCrawler(t *testing.T, src crawler.PageSource) *crawler.Crawler {
	t.Helper()
	resolver, err := category.NewResolver(testHomepage)
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}
	return crawler.New(crawler.NewSourceFetcher(src), resolver, crawler.WithLogger(discardLogger()))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
