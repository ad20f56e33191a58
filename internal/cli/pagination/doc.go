// Package pagination windows CLI list output.
//
// Rows are always fetched and filtered in full; pagination only limits what a
// list command prints. Two modes are supported and are mutually exclusive:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
package pagination
