// Package grid holds the state behind a tabular view: typed columns, per-column and
// quick filters, a stable sort, and row selection keyed by record ID.
//
// The rows a user can act on are always the SelectionSet: rows that are both selected
// and currently visible. A selection made before a filter hid its row is kept but is
// excluded until the row is visible again.
package grid
