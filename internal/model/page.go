package model

import (
	"encoding/hex"
	"mime"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Page is one fetched wiki page as returned by the transport, before any
// HTML parsing. Cached fetches are stored in this form.
type Page struct {
	// URL is the address that was requested.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the Content-Type header of the response.
	ContentType string `json:"content_type"`

	// Body is the response body, capped at the fetcher's size limit.
	Body []byte `json:"-"`

	// Hash is the hex BLAKE2b-256 digest of Body.
	// A refetch with the same hash means the page has not changed.
	Hash string `json:"hash"`

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetched_at"`
}

// ComputeHash sets Hash from Body. An empty body has an empty hash.
func (p *Page) ComputeHash() {
	if len(p.Body) == 0 {
		p.Hash = ""
		return
	}
	sum := blake2b.Sum256(p.Body)
	p.Hash = hex.EncodeToString(sum[:])
}

// IsHTML reports whether the content type is an HTML document type.
// A missing content type is treated as HTML, as wiki servers always send
// markup for article and category pages.
func (p *Page) IsHTML() bool {
	if p.ContentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Age returns how long ago the page was fetched, relative to now.
func (p *Page) Age(now time.Time) time.Duration {
	return now.Sub(p.FetchedAt)
}
