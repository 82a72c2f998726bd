package model

// PageValidation compares the categories the graph assigns to a page with
// the categories the page declares itself.
type PageValidation struct {
	// URL is the page address.
	URL string `json:"url"`

	// GraphCategories are the graph nodes that directly contain the page.
	GraphCategories []string `json:"graph_categories"`

	// DeclaredCategories are the visible categories scraped from the page.
	DeclaredCategories []string `json:"declared_categories"`

	// MissingFromGraph are declared categories with no matching node
	// containing the page.
	MissingFromGraph []string `json:"missing_from_graph,omitempty"`

	// MissingFromPage are graph categories the page declares neither
	// visibly nor as hidden.
	MissingFromPage []string `json:"missing_from_page,omitempty"`

	// Error is set when the page could not be scraped.
	Error string `json:"error,omitempty"`
}

// Consistent reports whether both category sets agree.
func (v *PageValidation) Consistent() bool {
	return v.Error == "" && len(v.MissingFromGraph) == 0 && len(v.MissingFromPage) == 0
}
