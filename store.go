package tablequery

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type (
	// FilterInput is a value change reported by a filter widget.
	FilterInput struct {
		SourceName string
		Value      string
	}

	// SortClick is an activation of a column's sort affordance.
	SortClick struct {
		Column ColumnSpec
	}
)

// Store owns the merged query Params of one table. The host mutates it only
// through the facet operations below and reads it only through snapshots and
// ChangeEvents.
//
// Configure a Store with the With* methods before calling Initialize.
type Store struct {
	columns     []ColumnSpec
	listener    Listener
	unsetMarker string
	logger      zerolog.Logger

	notifier *Notifier

	mu     sync.Mutex
	params Params
}

// NewStore creates a Store with empty filters, no pagination and dispatch
// disabled. Events go to listener after a DefaultDebounceInterval window.
func NewStore(columns []ColumnSpec, listener Listener) *Store {
	s := &Store{
		columns:     columns,
		listener:    listener,
		unsetMarker: DefaultUnsetMarker,
		logger:      zerolog.Nop(),
	}
	s.notifier = NewNotifier(s.Params, listener, NewDebounceScheduler(DefaultDebounceInterval))

	return s
}

// NewStoreFromConfig creates a Store from a loaded table definition.
func NewStoreFromConfig(cfg Config, listener Listener) *Store {
	s := NewStore(cfg.Columns, listener).
		WithDebounce(cfg.DebounceInterval).
		WithUnsetMarker(cfg.UnsetMarker)
	if cfg.PageSize > 0 {
		s.SetPageSize(cfg.PageSize)
	}

	return s
}

// WithScheduler replaces the emission scheduler. Use ImmediateScheduler for
// synchronous delivery.
func (s *Store) WithScheduler(scheduler Scheduler) *Store {
	s.notifier.Stop()
	s.notifier.scheduler = scheduler

	return s
}

// WithDebounce sets the quiescence window. Non-positive values keep the
// current scheduler.
func (s *Store) WithDebounce(interval time.Duration) *Store {
	if interval <= 0 {
		return s
	}

	return s.WithScheduler(NewDebounceScheduler(interval))
}

// WithUnsetMarker sets the placeholder value that clears a filter. An empty
// marker keeps the current one.
func (s *Store) WithUnsetMarker(marker string) *Store {
	if marker != "" {
		s.unsetMarker = marker
	}

	return s
}

// WithLogger sets the logger of the store and its notifier. The default
// logger discards everything.
func (s *Store) WithLogger(logger zerolog.Logger) *Store {
	s.logger = logger
	s.notifier.logger = logger

	return s
}

// Initialize seeds the filters from the column specs and then opens the
// dispatch gate, so the seeding itself never reaches the listener.
func (s *Store) Initialize() {
	s.InitializeFilters()
	s.notifier.Enable()

	s.logger.Debug().Int("columns", len(s.columns)).Msg("table query store initialized")
}

// InitializeFilters replaces the filters with one empty value per filterable
// column. Pagination is kept. Calling it again with the same columns yields
// the same filters.
func (s *Store) InitializeFilters() {
	s.update(func(p Params) Params {
		p.Filters = InitialFilters(s.columns)
		return p
	})
}

// SetColumns replaces the column specs. Filters are not re-seeded.
func (s *Store) SetColumns(columns []ColumnSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.columns = columns
}

// Columns returns the column specs the filters are seeded from.
func (s *Store) Columns() []ColumnSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.columns
}

// SetFilterValue stores value under name. The unset marker is stored as "".
// Names unknown to the column specs are added as-is.
func (s *Store) SetFilterValue(name, value string) {
	if value == s.unsetMarker {
		value = ""
	}

	s.logger.Debug().Str("filter", name).Str("value", value).Msg("filter value set")

	s.update(func(p Params) Params {
		p.Filters = p.Filters.With(name, value)
		return p
	})
}

// ToggleSort advances the sort cycle of column: unsorted, asc, desc, unsorted.
// Only one column is sorted at a time. Whether the column is sortable is not
// checked.
func (s *Store) ToggleSort(column string) {
	s.update(func(p Params) Params {
		next := NextSortOrder(p.Filters.SortOrder, column)
		p.Filters = p.Filters.WithSortOrder(next)

		event := s.logger.Debug().Str("column", column)
		if next != nil {
			event = event.Str("direction", string(next.Direction))
		}
		event.Msg("sort toggled")

		return p
	})
}

// SetPagination replaces one pagination field and keeps the other two.
// Values are stored without range checks.
func (s *Store) SetPagination(field PaginationField, value int) {
	s.logger.Debug().Str("field", string(field)).Int("value", value).Msg("pagination set")

	s.update(func(p Params) Params {
		p.Pagination = p.Pagination.With(field, value)
		return p
	})
}

func (s *Store) SetCurrentPage(page int) {
	s.SetPagination(FieldCurrentPage, page)
}

func (s *Store) SetPageSize(pageSize int) {
	s.SetPagination(FieldPageSize, pageSize)
}

func (s *Store) SetTotalItems(totalItems int) {
	s.SetPagination(FieldTotalItems, totalItems)
}

// CurrentPage returns DefaultCurrentPage when the page was never set.
func (s *Store) CurrentPage() int {
	return s.Params().Pagination.GetCurrentPage()
}

// PageSize returns DefaultPageSize when the page size was never set.
func (s *Store) PageSize() int {
	return s.Params().Pagination.GetPageSize()
}

// TotalItems returns DefaultTotalItems when the total was never set.
func (s *Store) TotalItems() int {
	return s.Params().Pagination.GetTotalItems()
}

func (s *Store) PageRange() PageRange {
	return s.Params().Pagination.PageRange()
}

// Params returns a snapshot of the current params.
func (s *Store) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.params.Clone()
}

// IsSortedBy reports whether column is the sorted column in direction.
func (s *Store) IsSortedBy(column string, direction Direction) bool {
	order := s.Params().Filters.SortOrder

	return order != nil && order.Column == column && order.Direction == direction
}

// HandleFilterInput routes a widget value change to SetFilterValue.
func (s *Store) HandleFilterInput(input FilterInput) {
	s.SetFilterValue(input.SourceName, input.Value)
}

// HandleSortClick routes a sort activation to ToggleSort, keyed by the
// column's filter name.
func (s *Store) HandleSortClick(click SortClick) {
	s.ToggleSort(click.Column.FilterName())
}

// HandlePageChange routes a navigation intent to the pagination setters.
func (s *Store) HandlePageChange(change PageChange) {
	s.SetTotalItems(change.TotalItems)
	s.SetPageSize(change.PageSize)
	s.SetCurrentPage(change.CurrentPage)
}

// Close drops a pending emission. The Store stays usable.
func (s *Store) Close() {
	s.notifier.Stop()
}

// update applies fn to a copy of the params, publishes the result and then
// notifies outside the lock.
func (s *Store) update(fn func(Params) Params) {
	s.mu.Lock()
	s.params = fn(s.params.Clone())
	s.mu.Unlock()

	s.notifier.Notify()
}
