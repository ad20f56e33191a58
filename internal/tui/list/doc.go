// Package listview provides a scrollable single-column list for Bubble Tea
// programs. Only the rows inside the viewport are rendered, so long
// notification histories stay cheap to draw.
package listview
