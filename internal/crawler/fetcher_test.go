package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// TestHTTPFetcher tests fetching pages from a test server.
func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/w/Category:Slayer":
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			_, _ = w.Write([]byte(categoryHTML([]string{catLink("Slayer_monsters")}, []string{pageLink("Slayer_helmet")})))
		case "/headers":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(r.Header.Get("User-Agent") + "|" + r.Header.Get("Cookie") + "|" + r.Header.Get("X-Test")))
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		case "/large":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	t.Run("parses category page", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(server.Client())
		doc, err := f.Fetch(context.Background(), server.URL+"/w/Category:Slayer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		subcats, ok := doc.Anchors(SectionSubcategories)
		if !ok || len(subcats) != 1 {
			t.Fatalf("expected 1 subcategory anchor, got %v", subcats)
		}
		if subcats[0].Href != "/w/Category:Slayer_monsters" || subcats[0].Text != "Slayer monsters" {
			t.Errorf("unexpected anchor %+v", subcats[0])
		}
	})

	t.Run("sends configured headers", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(server.Client(),
			WithUserAgent("wikigraph-test"),
			WithCookie("session=abc"),
			WithHeaders(map[string]string{"X-Test": "yes"}),
		)
		page, err := f.FetchPage(context.Background(), server.URL+"/headers")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := string(page.Body); got != "wikigraph-test|session=abc|yes" {
			t.Errorf("unexpected echoed headers %q", got)
		}
		if page.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", page.StatusCode)
		}
		if page.Hash == "" {
			t.Error("expected body hash to be computed")
		}
	})

	t.Run("default user agent", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(server.Client(), WithUserAgent(""))
		page, err := f.FetchPage(context.Background(), server.URL+"/headers")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(string(page.Body), DefaultUserAgent+"|") {
			t.Errorf("expected default user agent, got %q", page.Body)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(server.Client())
		_, err := f.Fetch(context.Background(), server.URL+"/w/Category:Missing")
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("not html", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(server.Client())
		_, err := f.Fetch(context.Background(), server.URL+"/image.png")
		if !errors.Is(err, ErrNotHTML) {
			t.Errorf("expected ErrNotHTML, got %v", err)
		}
	})

	t.Run("body limit", func(t *testing.T) {
		t.Parallel()

		f := NewHTTPFetcher(server.Client(), WithMaxBodySize(100))
		if _, err := f.FetchPage(context.Background(), server.URL+"/large"); !errors.Is(err, ErrBodyTooLarge) {
			t.Errorf("expected ErrBodyTooLarge, got %v", err)
		}

		f = NewHTTPFetcher(server.Client(), WithMaxBodySize(1000))
		page, err := f.FetchPage(context.Background(), server.URL+"/large")
		if err != nil {
			t.Fatalf("unexpected error at the limit: %v", err)
		}
		if len(page.Body) != 1000 {
			t.Errorf("expected 1000 bytes, got %d", len(page.Body))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := NewHTTPFetcher(server.Client())
		if _, err := f.FetchPage(ctx, server.URL+"/headers"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestNewHTTPClient tests client construction.
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		proxy   string
		wantErr bool
	}{
		{"no proxy", "", false},
		{"valid proxy", "127.0.0.1:9050", false},
		{"hostname proxy", "localhost:1080", false},
		{"missing port", "127.0.0.1", true},
		{"port out of range", "127.0.0.1:70000", true},
		{"zero port", "127.0.0.1:0", true},
		{"non-numeric port", "127.0.0.1:socks", true},
		{"missing host", ":9050", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewHTTPClient(tt.proxy, 5*time.Second)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProxyAddress) {
					t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Timeout != 5*time.Second {
				t.Errorf("expected timeout 5s, got %v", client.Timeout)
			}
		})
	}
}

// TestSourceFetcher tests parsing pages from a PageSource.
func TestSourceFetcher(t *testing.T) {
	t.Parallel()

	src := &memorySource{pages: map[string]*model.Page{
		catURL("A"): {URL: catURL("A"), ContentType: "text/html", Body: []byte(categoryHTML(nil, []string{pageLink("P")}))},
		catURL("B"): {URL: catURL("B"), ContentType: "application/json", Body: []byte("{}")},
	}}
	f := NewSourceFetcher(src)

	doc, err := f.Fetch(context.Background(), catURL("A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages, ok := doc.Anchors(SectionPages); !ok || len(pages) != 1 {
		t.Errorf("expected one page anchor, got %v", pages)
	}
	if _, ok := doc.Anchors(SectionSubcategories); ok {
		t.Error("expected no subcategory section")
	}

	if _, err := f.Fetch(context.Background(), catURL("B")); !errors.Is(err, ErrNotHTML) {
		t.Errorf("expected ErrNotHTML, got %v", err)
	}
	if _, err := f.Fetch(context.Background(), catURL("C")); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}

// TestSkipPatterns tests excluding categories by name.
func TestSkipPatterns(t *testing.T) {
	t.Parallel()

	s := newSkipList([]string{"*_images", "Stub pages", "  ", "[bad"})

	tests := []struct {
		name string
		want bool
	}{
		{"Item_images", true},
		{"Monster images", true},
		{"Stub_pages", true},
		{"stub_pages", true},
		{"Slayer_monsters", false},
		{"Images", false},
	}
	for _, tt := range tests {
		if got := s.match(tt.name); got != tt.want {
			t.Errorf("match(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}

	f := newFakeFetcher(map[string]string{
		catURL("Items"):       categoryHTML([]string{catLink("Item_images"), catLink("Weapons")}, nil),
		catURL("Weapons"):     categoryHTML(nil, []string{pageLink("Whip")}),
		catURL("Item_images"): categoryHTML(nil, []string{pageLink("File:Whip.png")}),
	})
	g := newTestGraph(catURL("Items"))
	c := New(f, testResolver(), WithLogger(discardLogger()), WithSkipPatterns([]string{"*_images"}))
	if err := c.Crawl(context.Background(), g, catURL("Items")); err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if g.HasNode("Item_images") {
		t.Error("expected skipped category to have no node")
	}
	if f.count(catURL("Item_images")) != 0 {
		t.Error("expected skipped category not to be fetched")
	}
	if c.Stats().Skipped != 1 {
		t.Errorf("expected 1 skipped link, got %d", c.Stats().Skipped)
	}
}

// memorySource is a PageSource over a fixed set of pages.
type memorySource struct {
	pages map[string]*model.Page
}

func (m *memorySource) FetchPage(_ context.Context, address string) (*model.Page, error) {
	p, ok := m.pages[address]
	if !ok {
		return nil, errors.Join(ErrUnexpectedStatus, errors.New(address+" returned 404"))
	}
	return p, nil
}
