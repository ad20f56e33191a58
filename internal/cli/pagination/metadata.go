package pagination

import (
	"fmt"
)

// Meta describes the window a list command printed.
type Meta struct {
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalItems  int
	First       int
	Last        int
}

// NewMeta computes window metadata for p over totalCount rows.
func NewMeta(p Params, totalCount int) Meta {
	start, end := p.Bounds(totalCount)

	pageSize := p.EffectiveLimit()
	if pageSize == 0 {
		pageSize = totalCount
	}

	currentPage := 1
	totalPages := 0
	if pageSize > 0 {
		currentPage = start/pageSize + 1
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		First:       start + 1,
		Last:        end,
	}
}

// String renders a one-line footer such as "Showing 11-20 of 42 rows (page 2 of 5)".
func (m Meta) String() string {
	if m.Last < m.First {
		return fmt.Sprintf("Showing 0 of %d rows", m.TotalItems)
	}
	return fmt.Sprintf("Showing %d-%d of %d rows (page %d of %d)",
		m.First, m.Last, m.TotalItems, m.CurrentPage, m.TotalPages)
}
