package model

// Article is the scraped content of one wiki article page.
type Article struct {
	// URL is the address the article was fetched from.
	URL string `json:"url"`

	// Title is the plain-text page title.
	Title string `json:"title"`

	// Paragraphs are the body paragraphs in document order, with
	// footnote markers and locale-variant annotations removed and
	// whitespace collapsed. Empty paragraphs are dropped.
	Paragraphs []string `json:"paragraphs"`

	// Categories are the visible category names the page declares,
	// in display form (e.g. "Slayer monsters").
	Categories []string `json:"categories"`

	// HiddenCategories are the maintenance categories the page declares.
	HiddenCategories []string `json:"hidden_categories"`
}

// Text joins the paragraphs with blank lines.
func (a *Article) Text() string {
	n := 0
	for _, p := range a.Paragraphs {
		n += len(p) + 2
	}
	b := make([]byte, 0, n)
	for i, p := range a.Paragraphs {
		if i > 0 {
			b = append(b, '\n', '\n')
		}
		b = append(b, p...)
	}
	return string(b)
}
