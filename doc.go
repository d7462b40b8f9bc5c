// Package fetch implements a deferred data-fetching engine in the style of
// Haxl: callers describe what data they need by composing Fetch values with
// pure combinators, and an executor decides how to resolve that description,
// automatically batching and deduplicating requests to the same data source
// and caching responses within a single run.
//
// A Fetch[A] never performs I/O while it is being built. Requests are only
// issued when a Fetch value is handed to Run (or one of its variants), which
// interprets the value round by round: each round resolves every request
// that is currently blocking progress, in parallel across data sources and
// batched within each data source, before resuming.
package fetch
