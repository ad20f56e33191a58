package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Sort orders.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// sortPartsMax is the maximum number of parts in a sort string (key:order).
const sortPartsMax = 2

// Sort expression errors.
var (
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'key' or 'key:order' (e.g., 'cpi:desc')")
	ErrEmptySortKey      = errors.New("sort key cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
)

// ParseSortExpression parses "key" or "key:order". An empty expression means no sort.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSortExpression(expr string) (key, order string, err error) {
	if strings.TrimSpace(expr) == "" {
		return "", SortOrderAsc, nil
	}

	parts := strings.Split(expr, ":")
	switch len(parts) {
	case 1:
		key = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		key = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	if key == "" {
		return "", "", ErrEmptySortKey
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return key, order, nil
}
