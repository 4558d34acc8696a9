// Package walker drives pagination over listing pages.
//
// A Walker fetches the start URL, extracts ad cards, follows the
// next-page control and repeats until the control disappears, a limit
// is reached or a page fails to fetch. Records are emitted in page
// order as soon as their page is processed, so partial results survive
// a mid-walk failure. Links are normalized and deduplicated within a
// single walk; nothing persists across walks.
package walker
