package grid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Grid errors.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidFilter = errors.New("invalid filter: use 'column=value'")
)

// Row is implemented by records shown in a Grid. RowID identifies the record
// across refetches.
type Row interface {
	RowID() int
}

// Column describes one grid column.
type Column[T any] struct {
	// Key is the stable identifier used by filters and sort expressions.
	Key string
	// Title is the header text, also used as the export header.
	Title string
	// Width is the preferred display width in cells.
	Width int
	// Value renders the cell.
	Value func(T) string
	// Numeric makes the column sort by parsed number when both cells parse.
	Numeric bool
}

// Grid is the state of one tabular view. It is not safe for concurrent use.
type Grid[T Row] struct {
	columns  []Column[T]
	rows     []T
	selected map[int]bool
	filters  map[string]string
	quick    string

	sortKey   string
	sortOrder string

	fold cases.Caser
}

// New creates an empty grid with the given columns.
func New[T Row](columns []Column[T]) *Grid[T] {
	return &Grid[T]{
		columns:   columns,
		selected:  make(map[int]bool),
		filters:   make(map[string]string),
		sortOrder: SortOrderAsc,
		fold:      cases.Fold(),
	}
}

// Columns returns the grid columns in display order.
func (g *Grid[T]) Columns() []Column[T] {
	return g.columns
}

// Column returns the column with the given key.
func (g *Grid[T]) Column(key string) (Column[T], bool) {
	for _, c := range g.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// ColumnKeys returns every column key in display order.
func (g *Grid[T]) ColumnKeys() []string {
	keys := make([]string, len(g.columns))
	for i, c := range g.columns {
		keys[i] = c.Key
	}
	return keys
}

// Replace swaps in a freshly fetched row list. Selections for IDs that are
// gone are dropped; selections for IDs still present are kept.
func (g *Grid[T]) Replace(rows []T) {
	g.rows = rows
	present := make(map[int]bool, len(rows))
	for _, r := range rows {
		present[r.RowID()] = true
	}
	for id := range g.selected {
		if !present[id] {
			delete(g.selected, id)
		}
	}
}

// Rows returns every row regardless of filters.
func (g *Grid[T]) Rows() []T {
	return g.rows
}

// Len returns the number of rows regardless of filters.
func (g *Grid[T]) Len() int {
	return len(g.rows)
}

// SetFilter sets a case-insensitive substring filter on a column. An empty
// value clears it.
func (g *Grid[T]) SetFilter(key, value string) error {
	if _, ok := g.Column(key); !ok {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownColumn, key, strings.Join(g.ColumnKeys(), ", "))
	}
	if value == "" {
		delete(g.filters, key)
		return nil
	}
	g.filters[key] = value
	return nil
}

// ApplyFilterExpression parses "column=value" and sets that filter.
func (g *Grid[T]) ApplyFilterExpression(expr string) error {
	key, value, ok := strings.Cut(expr, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}
	return g.SetFilter(key, strings.TrimSpace(value))
}

// Filters returns a copy of the active column filters.
func (g *Grid[T]) Filters() map[string]string {
	out := make(map[string]string, len(g.filters))
	for k, v := range g.filters {
		out[k] = v
	}
	return out
}

// ClearFilters removes every column filter and the quick filter.
func (g *Grid[T]) ClearFilters() {
	g.filters = make(map[string]string)
	g.quick = ""
}

// SetQuickFilter sets a substring filter matched against every column.
func (g *Grid[T]) SetQuickFilter(q string) {
	g.quick = q
}

// QuickFilter returns the quick filter text.
func (g *Grid[T]) QuickFilter() string {
	return g.quick
}

// SetSort sorts by the column key in the given order. An empty key removes sorting.
func (g *Grid[T]) SetSort(key, order string) error {
	if order == "" {
		order = SortOrderAsc
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	if key != "" {
		if _, ok := g.Column(key); !ok {
			return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownColumn, key, strings.Join(g.ColumnKeys(), ", "))
		}
	}
	g.sortKey = key
	g.sortOrder = order
	return nil
}

// SortBy applies a "key[:order]" expression.
func (g *Grid[T]) SortBy(expr string) error {
	key, order, err := ParseSortExpression(expr)
	if err != nil {
		return err
	}
	return g.SetSort(key, order)
}

// Sort returns the active sort key and order.
func (g *Grid[T]) Sort() (string, string) {
	return g.sortKey, g.sortOrder
}

// Visible returns the rows passing every filter, in sort order.
func (g *Grid[T]) Visible() []T {
	visible := make([]T, 0, len(g.rows))
	for _, r := range g.rows {
		if g.matches(r) {
			visible = append(visible, r)
		}
	}

	col, ok := g.Column(g.sortKey)
	if !ok {
		return visible
	}
	desc := g.sortOrder == SortOrderDesc
	sort.SliceStable(visible, func(i, j int) bool {
		a, b := col.Value(visible[i]), col.Value(visible[j])
		if desc {
			return g.less(col, b, a)
		}
		return g.less(col, a, b)
	})
	return visible
}

func (g *Grid[T]) less(col Column[T], a, b string) bool {
	if col.Numeric {
		fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
		fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if errA == nil && errB == nil {
			return fa < fb
		}
	}
	return g.fold.String(a) < g.fold.String(b)
}

func (g *Grid[T]) matches(r T) bool {
	for key, want := range g.filters {
		col, ok := g.Column(key)
		if !ok {
			continue
		}
		if !g.contains(col.Value(r), want) {
			return false
		}
	}
	if g.quick == "" {
		return true
	}
	for _, col := range g.columns {
		if g.contains(col.Value(r), g.quick) {
			return true
		}
	}
	return false
}

func (g *Grid[T]) contains(value, sub string) bool {
	return strings.Contains(g.fold.String(value), g.fold.String(sub))
}

// Toggle flips the selection of the row with the given ID.
func (g *Grid[T]) Toggle(id int) {
	if g.selected[id] {
		delete(g.selected, id)
		return
	}
	g.selected[id] = true
}

// Select marks the given IDs as selected. IDs not in the grid are ignored.
func (g *Grid[T]) Select(ids ...int) {
	present := make(map[int]bool, len(g.rows))
	for _, r := range g.rows {
		present[r.RowID()] = true
	}
	for _, id := range ids {
		if present[id] {
			g.selected[id] = true
		}
	}
}

// IsSelected reports whether the row with the given ID is selected.
func (g *Grid[T]) IsSelected(id int) bool {
	return g.selected[id]
}

// SelectAllVisible selects every visible row. Hidden rows are not touched.
func (g *Grid[T]) SelectAllVisible() {
	for _, r := range g.Visible() {
		g.selected[r.RowID()] = true
	}
}

// DeselectVisible deselects every visible row. Selections on hidden rows are kept.
func (g *Grid[T]) DeselectVisible() {
	for _, r := range g.Visible() {
		delete(g.selected, r.RowID())
	}
}

// AllVisibleSelected reports whether every visible row is selected, which is
// what a header checkbox shows. It is false when nothing is visible.
func (g *Grid[T]) AllVisibleSelected() bool {
	visible := g.Visible()
	if len(visible) == 0 {
		return false
	}
	for _, r := range visible {
		if !g.selected[r.RowID()] {
			return false
		}
	}
	return true
}

// ClearSelection deselects every row.
func (g *Grid[T]) ClearSelection() {
	g.selected = make(map[int]bool)
}

// SelectedCount returns how many rows are selected, visible or not.
func (g *Grid[T]) SelectedCount() int {
	return len(g.selected)
}

// SelectionSet returns the rows that are both visible and selected, in visible order.
func (g *Grid[T]) SelectionSet() []T {
	var out []T
	for _, r := range g.Visible() {
		if g.selected[r.RowID()] {
			out = append(out, r)
		}
	}
	return out
}

// ExportRows returns the SelectionSet, or every visible row when the SelectionSet is empty.
func (g *Grid[T]) ExportRows() []T {
	if set := g.SelectionSet(); len(set) > 0 {
		return set
	}
	return g.Visible()
}
