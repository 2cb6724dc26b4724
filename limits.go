package tablequery

import "time"

const (
	DefaultCurrentPage = 1
	DefaultPageSize    = 7
	DefaultTotalItems  = 1

	// MaxPageSize bounds the LIMIT emitted by QueryScope. The engine itself
	// never clamps page sizes.
	MaxPageSize = 100

	DefaultDebounceInterval = 100 * time.Millisecond

	// DefaultUnsetMarker is the placeholder option of a dropdown filter.
	DefaultUnsetMarker = "Select one"
)

func IsNormalizedPageSizeMax(pageSize int, maxPageSize int) (int, bool) {
	if pageSize <= 0 {
		return DefaultPageSize, false
	} else if pageSize > maxPageSize {
		return maxPageSize, false
	}

	return pageSize, true
}

func NormalizePageSizeMax(pageSize int, maxPageSize int) int {
	ret, _ := IsNormalizedPageSizeMax(pageSize, maxPageSize)
	return ret
}

func NormalizePageSize(pageSize int) int {
	return NormalizePageSizeMax(pageSize, MaxPageSize)
}
