// Package catalog holds the product catalog and the logic that derives
// filtered, sorted views from it.
//
// This package is independent of HTTP and HTML. The web layer reads
// criteria from requests, calls [DeriveView], and hands each resulting
// [Product] to the row renderer.
//
// # Store
//
// [Store] keeps the last successfully fetched catalog as an immutable
// [Snapshot]. Snapshots are replaced wholesale and never edited in place.
// Every fetch carries a generation number and the store only accepts a
// generation newer than the one it holds, so a slow response can never
// overwrite data from a later fetch.
//
// # Fetching
//
// [Fetcher] pulls products from a [Source]. Concurrent callers share one
// outstanding request (single-flight). A failed fetch leaves the snapshot
// untouched and is recorded in [Status] so the page can show the error row
// until the next successful fetch.
//
// # Views
//
// [DeriveView] applies, in order: case-insensitive search over title and
// description, exact category match, and a stable sort by price or by
// collated title. It never mutates its input.
//
// # Error Handling
//
// Fetch errors are mapped to user-facing messages with [MapError]:
//
//   - FETCH001-FETCH004: upstream unreachable, bad status, malformed body, timeout
//   - REQ001: invalid view criteria
//   - RATE001: rate limited
//   - ERR000: anything else
package catalog
