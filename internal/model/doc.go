// Package model defines the data structures shared by wikigraph packages.
//
// This package contains the following main types:
//   - Page: a fetched page body with its content hash
//   - Article: the scraped text and declared categories of an article
//   - Diagnostic and CrawlStats: recoverable crawl failures and counters
//   - AuditResult: the outcome of operator-directed edge removal
//   - PageValidation: a page's graph categories against its own list
//   - Session: the state of one run as it passes through the pipeline
//
// Design decision: the crawler, audit, database, pipeline and report
// packages all exchange these types, so they live in a leaf package that
// imports nothing but the graph store.
package model
