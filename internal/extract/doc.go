// Package extract pulls ad records out of parsed listing and detail
// pages using a configurable selector profile.
//
// Extraction is tolerant per field: a selector that matches nothing
// degrades its one field to absent and logs at debug level, it never
// fails the page. Marketplace markup differs between categories and
// shifts over time, so a missing price or location element is normal
// operation, not an error. The only structural failure is a detail page
// without an ad content container at all, which yields ErrNotAdPage.
package extract
