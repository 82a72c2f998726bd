// Package database stores wikigraph state in SQLite (modernc.org/sqlite,
// no cgo).
//
// CrawlDB keeps two tables in a single file:
//   - fetches: the latest response for every wiki page fetched, used by
//     FetchCache so that re-crawls and resumed crawls skip pages fetched
//     recently
//   - graph_snapshots: a copy of the graph document with headline counts
//     after every completed crawl, listed by "wikigraph history"
package database
