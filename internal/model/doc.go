// Package model defines the record types exchanged between crawl stages.
//
// This package contains the following main types:
//   - Ad: A single classified ad record; listing pages produce sparse
//     records, detail pages enrich them
//   - Price: A parsed monetary value with currency and negotiability
//   - Kind: The ad category (sale, rent, exchange)
//   - Field / Selection: The set of fields a caller asked the pipeline
//     to populate, and the codec between field names and Ad values
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (extract, walker, resolver,
// stream) need these types, so centralizing them prevents import cycles.
//
// Every Ad field except Link is optional: a record with only a link is
// still a valid record. Absence is the zero value (empty string, nil
// Price, empty Kind), never an error.
package model
