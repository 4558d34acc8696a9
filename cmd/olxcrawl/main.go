// Package main provides the entry point for the olxcrawl CLI.
//
// olxcrawl walks marketplace listing pages and resolves ad detail
// pages into a streaming CSV of records, filtered by keywords.
//
// Usage:
//
//	olxcrawl list <listing-url>
//	olxcrawl list <listing-url> | olxcrawl detail
//
// See --help for all available options.
package main

import "os"

// main is the entry point for olxcrawl.
func main() {
	os.Exit(Execute())
}
