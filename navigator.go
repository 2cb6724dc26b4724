package tablequery

import (
	"github.com/rs/zerolog"
)

// PageChange is a navigation intent. TotalItems and PageSize are passed
// through unchanged next to the requested CurrentPage.
type PageChange struct {
	TotalItems  int `json:"totalItems"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
}

// PageChangeListener receives navigation intents.
type PageChangeListener func(PageChange)

// Navigator turns previous/next/goto gestures into PageChange intents. It never
// validates the requested page: hosts hide the previous and next controls
// using IsFirstPageSelected and IsLastPageSelected.
//
// Navigator does not mutate any Store. Wire it explicitly:
//
//	nav := NewNavigator(store.PageRange()).OnPageChange(store.HandlePageChange)
type Navigator struct {
	pageRange PageRange
	listener  PageChangeListener
	logger    zerolog.Logger
}

func NewNavigator(pageRange PageRange) *Navigator {
	return &Navigator{
		pageRange: pageRange,
		logger:    zerolog.Nop(),
	}
}

// OnPageChange registers the listener, replacing the previous one.
func (n *Navigator) OnPageChange(listener PageChangeListener) *Navigator {
	if n == nil {
		n = NewNavigator(PageRange{})
	}

	n.listener = listener

	return n
}

func (n *Navigator) WithLogger(logger zerolog.Logger) *Navigator {
	if n == nil {
		n = NewNavigator(PageRange{})
	}

	n.logger = logger

	return n
}

// Update replaces the pagination facts, e.g. after the host re-rendered.
func (n *Navigator) Update(pageRange PageRange) {
	n.pageRange = pageRange
}

func (n *Navigator) PageRange() PageRange {
	return n.pageRange
}

// Previous requests CurrentPage-1. Page 0 may be requested.
func (n *Navigator) Previous() PageChange {
	return n.emit(n.pageRange.CurrentPage - 1)
}

// Next requests CurrentPage+1 without an upper bound check.
func (n *Navigator) Next() PageChange {
	return n.emit(n.pageRange.CurrentPage + 1)
}

// GoToPage requests exactly page.
func (n *Navigator) GoToPage(page int) PageChange {
	return n.emit(page)
}

func (n *Navigator) Pages() []int {
	return n.pageRange.PageNumbers()
}

func (n *Navigator) IsFirstPageSelected() bool {
	return n.pageRange.IsFirstPage()
}

func (n *Navigator) IsLastPageSelected() bool {
	return n.pageRange.IsLastPage()
}

// IsCurrent reports whether page is the selected one. The selected page is
// rendered without a goto affordance.
func (n *Navigator) IsCurrent(page int) bool {
	return n.pageRange.CurrentPage == page
}

func (n *Navigator) emit(page int) PageChange {
	change := PageChange{
		TotalItems:  n.pageRange.TotalItems,
		PageSize:    n.pageRange.PageSize,
		CurrentPage: page,
	}

	n.logger.Debug().
		Int("from", n.pageRange.CurrentPage).
		Int("to", page).
		Msg("page change requested")

	if n.listener != nil {
		n.listener(change)
	}

	return change
}
