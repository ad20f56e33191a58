package pagination

import (
	"errors"
)

// Common validation errors.
var (
	ErrNegativeValue        = errors.New("pagination values cannot be negative")
	ErrMixedPaginationModes = errors.New("page and offset parameters are mutually exclusive")
	ErrPageSizeWithoutPage  = errors.New("page must be specified when using page-size")
	ErrPageWithoutPageSize  = errors.New("page-size must be specified when using page")
)

// Params holds the list pagination flags. The zero value prints every row.
type Params struct {
	// Limit is the maximum number of rows to print (offset-based mode). 0 is unlimited.
	Limit int

	// Offset is the number of rows to skip (offset-based mode).
	Offset int

	// Page is the 1-based page number (page-based mode).
	Page int

	// PageSize is the number of rows per page (page-based mode).
	PageSize int
}

// Validate checks that the parameters are non-negative and use one mode only.
func (p Params) Validate() error {
	if p.Limit < 0 || p.Offset < 0 || p.Page < 0 || p.PageSize < 0 {
		return ErrNegativeValue
	}
	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedPaginationModes
	}
	if p.Page == 0 && p.PageSize > 0 {
		return ErrPageSizeWithoutPage
	}
	if p.PageSize == 0 && p.Page > 0 {
		return ErrPageWithoutPageSize
	}
	return nil
}

// IsPageBased returns true if page-based pagination is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// IsEnabled returns true if any pagination parameter is set.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0 || p.Page > 0 || p.PageSize > 0
}

// EffectiveLimit is PageSize in page mode and Limit otherwise. 0 is unlimited.
func (p Params) EffectiveLimit() int {
	if p.IsPageBased() {
		return p.PageSize
	}
	return p.Limit
}

// EffectiveOffset is derived from Page in page mode and is Offset otherwise.
func (p Params) EffectiveOffset() int {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize
	}
	return p.Offset
}

// Bounds returns the half-open [start, end) window over total rows.
func (p Params) Bounds(total int) (int, int) {
	start := min(p.EffectiveOffset(), total)
	end := total
	if limit := p.EffectiveLimit(); limit > 0 {
		end = min(start+limit, total)
	}
	return start, end
}

// Slice returns the window of rows selected by p and the index of its first row.
func Slice[T any](rows []T, p Params) ([]T, int) {
	start, end := p.Bounds(len(rows))
	return rows[start:end], start
}
