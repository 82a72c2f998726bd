// Package crawler discovers the category hierarchy of a MediaWiki site.
//
// # Components
//
//   - Crawler: depth-first traversal of category pages into a graph.Graph
//   - Document and HTMLDocument: the listing sections of a category page
//   - HTTPFetcher: HTTP transport with an optional SOCKS5 proxy
//   - ArticleScraper: title, paragraphs and declared categories of an article
//   - AllPagesLister: the Special:AllPages index of a wiki
//
// # Pagination
//
// MediaWiki splits long listings over several pages linked by "next page"
// and "previous page" anchors, usually at both the top and the bottom of
// the listing. Traversal is forward-only: the first "next page" anchor of a
// page is followed, later ones and every "previous page" anchor are not.
// Every entry point is page one of a listing, so nothing is missed.
//
// # Usage
//
//	client, _ := crawler.NewHTTPClient("", 30*time.Second)
//	fetcher := crawler.NewHTTPFetcher(client)
//	c := crawler.New(fetcher, category.MustNewResolver("https://oldschool.runescape.wiki"))
//	g := graph.New("Old_School_RuneScape_Wiki", rootURL)
//	err := c.Crawl(ctx, g, rootURL)
package crawler
