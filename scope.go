package tablequery

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// QueryScope applies emitted Params to a GORM query. Hosts use it to re-fetch
// when a ChangeEvent is not pagination-only:
//
//	scope := NewQueryScope(columns...).WithColumnMapping(ColumnMapping{"name": "users.name"})
//	err := db.Model(&User{}).Scopes(scope.Scope(event.Params)).Find(&users).Error
type QueryScope struct {
	kinds       map[string]FilterKind
	mapping     ColumnMapping
	maxPageSize int
	logger      *zerolog.Logger
}

// NewQueryScope creates a scope that compares each column's filter according
// to its FilterKind.
func NewQueryScope(columns ...ColumnSpec) *QueryScope {
	return new(QueryScope).WithColumns(columns...)
}

// WithColumns registers the filter kinds of columns.
func (q *QueryScope) WithColumns(columns ...ColumnSpec) *QueryScope {
	if q == nil {
		q = new(QueryScope)
	}

	if q.kinds == nil {
		q.kinds = make(map[string]FilterKind, len(columns))
	}
	for _, column := range columns {
		if column.IsFilterable() {
			q.kinds[column.FilterName()] = column.FilterKind()
		}
	}

	return q
}

// WithColumnMapping resolves filter names through mapping. Once set, filter
// names missing from the mapping are rejected.
func (q *QueryScope) WithColumnMapping(mapping ColumnMapping) *QueryScope {
	if q == nil {
		q = new(QueryScope)
	}

	q.mapping = mapping

	return q
}

// WithMaxPageSize bounds the LIMIT. Non-positive values mean MaxPageSize.
func (q *QueryScope) WithMaxPageSize(maxPageSize int) *QueryScope {
	if q == nil {
		q = new(QueryScope)
	}

	q.maxPageSize = maxPageSize

	return q
}

// WithLogger logs the filter clause and page window of every applied query at
// debug level. Without a logger nothing is logged.
func (q *QueryScope) WithLogger(logger zerolog.Logger) *QueryScope {
	if q == nil {
		q = new(QueryScope)
	}

	q.logger = &logger

	return q
}

// GetMaxPageSize returns the effective LIMIT bound.
func (q *QueryScope) GetMaxPageSize() int {
	if q == nil || q.maxPageSize <= 0 {
		return MaxPageSize
	}

	return q.maxPageSize
}

// Apply applies filters, sort order and the page window to db. Returns an
// error if a column cannot be resolved.
func (q *QueryScope) Apply(db *gorm.DB, params Params) (*gorm.DB, error) {
	db, err := q.ApplyFilters(db, params)
	if err != nil {
		return nil, err
	}

	db, err = q.ApplySort(db, params)
	if err != nil {
		return nil, err
	}

	window := NewPageWindow(params.Pagination, q.GetMaxPageSize())
	q.getLogger().Debug().
		Str("window", window.ToSQL()).
		Bool("firstPage", window.IsFirst()).
		Msg("page window applied")

	return window.Apply(db), nil
}

// ApplyFilters applies only the filter conditions. Use it to count the total
// number of matching items.
func (q *QueryScope) ApplyFilters(db *gorm.DB, params Params) (*gorm.DB, error) {
	conjunction, err := q.conjunction(params.Filters)
	if err != nil {
		return nil, fmt.Errorf("cannot apply filters: %w", err)
	}

	where, vars := conjunction.toSQLClause()
	q.getLogger().Debug().
		Str("where", where).
		Interface("vars", vars).
		Msg("filters applied")

	expr := conjunction.toGORMExpression()
	if expr == nil {
		return db, nil
	}

	return db.Where(expr), nil
}

// ApplySort applies the sort order, if any.
func (q *QueryScope) ApplySort(db *gorm.DB, params Params) (*gorm.DB, error) {
	order := params.Filters.SortOrder
	if order == nil {
		return db, nil
	}

	column, err := resolveColumn(order.Column, q.getMapping())
	if err != nil {
		return nil, fmt.Errorf("cannot apply sort: %w", err)
	}

	resolved := SortOrder{Column: column, Direction: order.Direction}
	if err = resolved.validate(); err != nil {
		return nil, fmt.Errorf("cannot apply sort: %w", err)
	}

	return db.Order(resolved.ToSQL()), nil
}

// Scope returns a gorm scope. Errors are recorded on the query with AddError.
func (q *QueryScope) Scope(params Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		scoped, err := q.Apply(db, params)
		if err != nil {
			_ = db.AddError(err)
			return db
		}

		return scoped
	}
}

// Count returns the number of items matching the filters of params.
func (q *QueryScope) Count(db *gorm.DB, params Params) (int64, error) {
	filtered, err := q.ApplyFilters(db, params)
	if err != nil {
		return 0, err
	}

	var total int64
	if err = filtered.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("cannot count items: %w", err)
	}

	return total, nil
}

// conjunction builds one conjunct per non-empty filter, in filter name order.
func (q *QueryScope) conjunction(filters Filters) (tConjunction, error) {
	names := lo.Keys(filters.Values)
	slices.Sort(names)

	ret := make(tConjunction, 0, len(names))
	for _, name := range names {
		value := filters.Values[name]
		if value == "" {
			continue
		}

		column, err := resolveColumn(name, q.getMapping())
		if err != nil {
			return nil, err
		}

		ret = append(ret, tConjunct{
			Column:   column,
			Value:    value,
			Operator: ForFilterKind(q.getKind(name)),
		})
	}

	return ret, nil
}

func (q *QueryScope) getMapping() ColumnMapping {
	if q == nil {
		return nil
	}

	return q.mapping
}

func (q *QueryScope) getLogger() *zerolog.Logger {
	if q == nil || q.logger == nil {
		return lo.ToPtr(zerolog.Nop())
	}

	return q.logger
}

func (q *QueryScope) getKind(name string) FilterKind {
	if q == nil {
		return FilterKindNone
	}

	return q.kinds[name]
}
