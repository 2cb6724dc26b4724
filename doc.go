// Package tablequery provides the query-state engine behind a filterable,
// sortable, paginated data table.
//
// Overview
//
// The engine does not render anything and does not touch the item collection.
// It only decides which parameters a host should ask its data source for, and
// when:
//   - Store: holds the merged Params (column filters, sort order, pagination)
//     and exposes one mutation per facet. Every mutation produces a new Params.
//   - Notifier: collapses bursts of mutations into a single ChangeEvent and
//     tells the host whether only pagination changed since the last event.
//   - PageRange and Navigator: turn pagination facts into page numbers,
//     boundary flags and page-change intents.
//   - QueryScope: applies emitted Params to a GORM query when the host has to
//     re-fetch.
//
// Key concepts
//   - Pagination-only change: a burst of mutations whose net effect, compared
//     to the last emitted filters, alters only pagination. Hosts may serve it
//     from a local cache.
//   - Quiescence window: the debounce interval after the last mutation before
//     a ChangeEvent is emitted (DefaultDebounceInterval).
//   - Unset marker: the placeholder option of a dropdown filter, stored as an
//     empty filter value.
//
// Typical wiring:
//
//	store := tablequery.NewStore(columns, func(e tablequery.ChangeEvent) {
//	    if e.PaginationOnly {
//	        // serve from cache
//	        return
//	    }
//	    // re-fetch with e.Params
//	})
//	store.Initialize()
//
//	nav := tablequery.NewNavigator(store.PageRange()).OnPageChange(store.HandlePageChange)
//	nav.Next()
package tablequery
