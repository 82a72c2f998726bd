package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// DefaultUserAgent identifies wikigraph to wiki servers.
const DefaultUserAgent = "wikigraph/1.0 (+https://github.com/thomas-dorrington/Runescape2Vec)"

// DefaultMaxBodySize caps the bytes read from a single response.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Fetcher returns parsed category pages.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (Document, error)
}

// PageSource returns raw page responses.
// HTTPFetcher and the database fetch cache implement it.
type PageSource interface {
	FetchPage(ctx context.Context, address string) (*model.Page, error)
}

// SourceFetcher turns a PageSource into a Fetcher by parsing each page.
type SourceFetcher struct {
	source PageSource
}

// NewSourceFetcher creates a Fetcher over source.
func NewSourceFetcher(source PageSource) *SourceFetcher {
	return &SourceFetcher{source: source}
}

// Fetch implements Fetcher.
func (f *SourceFetcher) Fetch(ctx context.Context, address string) (Document, error) {
	page, err := f.source.FetchPage(ctx, address)
	if err != nil {
		return nil, err
	}
	return parsePage(page)
}

// parsePage parses the body of an HTML page.
func parsePage(page *model.Page) (*HTMLDocument, error) {
	if !page.IsHTML() {
		return nil, fmt.Errorf("%w: %s has content type %q", ErrNotHTML, page.URL, page.ContentType)
	}
	doc, err := ParseDocument(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", page.URL, err)
	}
	return doc, nil
}

// HTTPFetcher fetches wiki pages over HTTP.
// It is safe for concurrent use.
type HTTPFetcher struct {
	// client performs the requests. It may route through a proxy, see
	// NewHTTPClient.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// cookie is sent as the Cookie header when non-empty, for wikis that
	// require a session.
	cookie string

	// headers are extra request headers.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCookie sets the Cookie header.
func WithCookie(cookie string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(headers map[string]string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size.
// Non-positive values keep the default.
func WithMaxBodySize(size int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher using client.
func NewHTTPFetcher(client *http.Client, opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage implements PageSource.
// A non-2xx response is an error wrapping ErrUnexpectedStatus, a body over
// the size limit one wrapping ErrBodyTooLarge.
func (f *HTTPFetcher) FetchPage(ctx context.Context, address string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", address, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, address, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", address, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, address, f.maxBodySize)
	}

	page := &model.Page{
		URL:         address,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}
	page.ComputeHash()
	return page, nil
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, address string) (Document, error) {
	page, err := f.FetchPage(ctx, address)
	if err != nil {
		return nil, err
	}
	return parsePage(page)
}
