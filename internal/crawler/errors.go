package crawler

import "errors"

var (
	// ErrUnexpectedStatus is returned when a fetch gets a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned when a response body exceeds the
	// fetcher's size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrNotHTML is returned when a fetched page is not an HTML document.
	ErrNotHTML = errors.New("response is not HTML")

	// ErrIdentityDrift is returned when a listing continuation resolves to
	// a different category than the one being scraped.
	ErrIdentityDrift = errors.New("category identity changed across pagination")

	// ErrInvalidProxyAddress is returned when a proxy address is not in
	// "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")

	// ErrNoArticleContent is returned when a page has no article body.
	ErrNoArticleContent = errors.New("page has no article content")

	// ErrMissingSection is returned when a special page lacks the section
	// that holds its listing.
	ErrMissingSection = errors.New("page is missing its listing section")
)
