// Package main provides the entry point for the wikigraph CLI.
//
// wikigraph crawls the category hierarchy of a MediaWiki site (by default
// the Old School RuneScape wiki) into a directed graph of categories, each
// carrying the articles filed directly under it.
//
// Usage:
//
//	wikigraph crawl
//	wikigraph crawl --resume
//	wikigraph cycles
//	wikigraph pages --under Slayer_monsters
//
// See --help for all available options.
package main

// main is the entry point for wikigraph.
func main() {
	Execute()
}
