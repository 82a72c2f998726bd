// Package category resolves wiki category page addresses to category names.
//
// A category page address has the form
//
//	<homepage>/w/Category:<name>[?<pagination>]
//
// where the optional pagination suffix is either a page-listing continuation
// (pagefrom/pageuntil, anchored at #mw-pages) or a subcategory-listing
// continuation (subcatfrom/subcatuntil, anchored at #mw-subcategories).
// Both forms resolve to the same name as the first page of the listing, which
// is how the crawler confirms that a continuation still belongs to the
// category it started on.
//
// The package also normalizes names so that identifiers taken from URLs
// (Slayer_monsters, Pok%C3%A9mon) can be compared with the names a page
// declares in its category footer (Slayer monsters, Pokémon).
package category
