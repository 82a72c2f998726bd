package model

import "fmt"

// DiagnosticKind classifies a recoverable crawl failure.
type DiagnosticKind int

const (
	// DiagnosticMalformedAddress means an address is not a category page
	// of the wiki. The branch that led to it is abandoned.
	DiagnosticMalformedAddress DiagnosticKind = iota

	// DiagnosticIdentityDrift means a listing continuation resolved to a
	// different category than the one being scraped, usually after an
	// unexpected redirect. Scraping of that listing stops.
	DiagnosticIdentityDrift

	// DiagnosticFetchFailure means a page could not be retrieved or parsed.
	// The branch that needed it is abandoned.
	DiagnosticFetchFailure
)

// String returns the name of the diagnostic kind.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticMalformedAddress:
		return "malformed_address"
	case DiagnosticIdentityDrift:
		return "identity_drift"
	case DiagnosticFetchFailure:
		return "fetch_failure"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DiagnosticKind) UnmarshalText(text []byte) error {
	for _, kind := range []DiagnosticKind{
		DiagnosticMalformedAddress,
		DiagnosticIdentityDrift,
		DiagnosticFetchFailure,
	} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", text)
}

// Diagnostic records one local failure during a crawl.
// A diagnostic never stops the crawl; only the affected branch ends.
type Diagnostic struct {
	// Kind classifies the failure.
	Kind DiagnosticKind `json:"kind"`

	// Address is the page address being processed.
	Address string `json:"address"`

	// Category is the category being processed, when known.
	Category string `json:"category,omitempty"`

	// Detail is a human-readable description of the failure.
	Detail string `json:"detail"`
}

// String formats the diagnostic for logs and plain-text reports.
func (d Diagnostic) String() string {
	if d.Category != "" {
		return fmt.Sprintf("%s: %s (%s): %s", d.Kind, d.Address, d.Category, d.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Address, d.Detail)
}

// CrawlStats summarizes one crawl.
type CrawlStats struct {
	// CategoriesVisited counts categories expanded on their first visit.
	CategoriesVisited int `json:"categories_visited"`

	// Continuations counts subcategory listing continuations followed.
	Continuations int `json:"continuations"`

	// ListingPages counts page listing continuations followed.
	ListingPages int `json:"listing_pages"`

	// Revisits counts already known categories reached through another
	// parent. Each adds an edge but is not expanded again.
	Revisits int `json:"revisits"`

	// Skipped counts links to categories excluded by skip patterns.
	Skipped int `json:"skipped"`

	// Fetches counts page fetches attempted.
	Fetches int `json:"fetches"`

	// PagesAdded counts page addresses newly added to category nodes.
	PagesAdded int `json:"pages_added"`

	// Diagnostics lists every recoverable failure in encounter order.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Count returns the number of diagnostics of the given kind.
func (s CrawlStats) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range s.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
