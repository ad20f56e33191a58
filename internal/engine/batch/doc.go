// Package batch runs a function over a list of items with bounded concurrency.
//
// ProcessEach is the settle-all mode used for per-row status mutations: every item is
// attempted, a failure never cancels its siblings, and the per-item errors come back in
// input order. An optional ProgressCallback observes the settled and failed counts as
// items finish.
package batch
