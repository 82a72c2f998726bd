package category

import "errors"

var (
	// ErrNotCategoryPage is returned when an address does not match the
	// category page pattern. Callers skip such addresses and report them.
	ErrNotCategoryPage = errors.New("not a valid category page address")

	// ErrInvalidHomepage is returned when the configured homepage is not an
	// absolute http(s) URL.
	ErrInvalidHomepage = errors.New("invalid homepage: must be an absolute http(s) URL")
)
