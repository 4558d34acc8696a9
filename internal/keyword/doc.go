// Package keyword implements the multi-pattern relevance filter.
//
// A Matcher holds a set of keywords compiled into an Aho-Corasick
// automaton, so one pass over an ad's text checks every keyword at once
// regardless of how many there are. Matching is case-insensitive via
// Unicode case folding and runs against substrings, matching the loose
// relevance semantics of the site's own search box.
//
// An empty Matcher (no keywords) matches everything: filtering is
// opt-in, and commands run unfiltered unless keywords were given.
package keyword
