package tablequery

import (
	"iter"
	"slices"
)

// PageRange converts pagination facts into page numbers and boundary flags.
// It is a plain value with no state of its own.
type PageRange struct {
	PageSize    int
	TotalItems  int
	CurrentPage int
}

// TotalPages returns ceil(TotalItems / PageSize). A non-positive PageSize
// yields 0 pages.
func (r PageRange) TotalPages() int {
	if r.PageSize <= 0 || r.TotalItems <= 0 {
		return 0
	}

	return (r.TotalItems + r.PageSize - 1) / r.PageSize
}

// Pages yields 1..TotalPages in order. The sequence may be ranged over any
// number of times.
func (r PageRange) Pages() iter.Seq[int] {
	totalPages := r.TotalPages()

	return func(yield func(int) bool) {
		for page := 1; page <= totalPages; page++ {
			if !yield(page) {
				return
			}
		}
	}
}

// PageNumbers collects Pages into a slice.
func (r PageRange) PageNumbers() []int {
	ret := slices.Collect(r.Pages())
	if ret == nil {
		return []int{}
	}

	return ret
}

// IsFirstPage does not check that CurrentPage lies within the range.
func (r PageRange) IsFirstPage() bool {
	return r.CurrentPage == 1
}

// IsLastPage does not check that CurrentPage lies within the range.
func (r PageRange) IsLastPage() bool {
	return r.CurrentPage == r.TotalPages()
}
