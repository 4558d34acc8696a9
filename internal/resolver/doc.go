// Package resolver turns ad links into full detail records.
//
// A Resolver fetches each ad's detail page, extracts the selected
// fields, merges any summary values the caller already had and runs the
// keyword filter against title and description. Each link resolves to
// exactly one Result classified as Resolved, FilteredOut, FetchFailed
// or ParseFailed, so a run can account for every input link.
//
// ResolveAll processes a stream of seeds concurrently with a bounded
// worker pool; results are delivered in completion order.
package resolver
