package tablequery

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/samber/lo"
)

// SortOrderKey is the reserved filters key holding the SortOrder.
const SortOrderKey = "sortOrder"

// Filters maps filter names to their current values. An empty value means
// the filter is unset. SortOrder is stored next to the values and is
// serialized under SortOrderKey.
//
// Filters is a value type: every method that changes something returns a
// new Filters and leaves the receiver untouched.
type Filters struct {
	Values    map[string]string
	SortOrder *SortOrder
}

// Get returns the value of the named filter and whether it is present.
func (f Filters) Get(name string) (string, bool) {
	v, ok := f.Values[name]
	return v, ok
}

// With returns a copy of f with the named filter set to value.
func (f Filters) With(name, value string) Filters {
	ret := f.Clone()
	ret.Values[name] = value

	return ret
}

// WithSortOrder returns a copy of f with its sort order replaced. A nil order
// removes sorting.
func (f Filters) WithSortOrder(order *SortOrder) Filters {
	ret := f.Clone()
	ret.SortOrder = order

	return ret
}

// Clone returns a shallow copy that shares nothing mutable with f.
func (f Filters) Clone() Filters {
	ret := Filters{
		Values: make(map[string]string, len(f.Values)),
	}
	maps.Copy(ret.Values, f.Values)
	if f.SortOrder != nil {
		ret.SortOrder = lo.ToPtr(*f.SortOrder)
	}

	return ret
}

// Equal reports structural equality, including the sort order. A nil map and
// an empty map are equal.
func (f Filters) Equal(other Filters) bool {
	if !maps.Equal(f.Values, other.Values) {
		return false
	}

	switch {
	case f.SortOrder == nil && other.SortOrder == nil:
		return true
	case f.SortOrder == nil || other.SortOrder == nil:
		return false
	default:
		return *f.SortOrder == *other.SortOrder
	}
}

// MarshalJSON flattens the sort order into the values object.
func (f Filters) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(f.Values)+1)
	for name, value := range f.Values {
		flat[name] = value
	}
	if f.SortOrder != nil {
		flat[SortOrderKey] = f.SortOrder
	}

	return json.Marshal(flat)
}

func (f *Filters) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("failed to decode filters: %w", err)
	}

	ret := Filters{Values: make(map[string]string, len(flat))}
	for name, raw := range flat {
		if name == SortOrderKey {
			if string(raw) == "null" {
				continue
			}

			order := new(SortOrder)
			if err := json.Unmarshal(raw, order); err != nil {
				return fmt.Errorf("failed to decode sort order: %w", err)
			}
			ret.SortOrder = order

			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("failed to decode filter '%s': %w", name, err)
		}
		ret.Values[name] = value
	}

	*f = ret

	return nil
}

// PaginationField names one field of Pagination.
type PaginationField string

const (
	FieldCurrentPage PaginationField = "currentPage"
	FieldPageSize    PaginationField = "pageSize"
	FieldTotalItems  PaginationField = "totalItems"
)

// Pagination holds the pagination facet. A nil field was never set; its
// getter returns the documented default without storing it.
type Pagination struct {
	CurrentPage *int `json:"currentPage,omitempty"`
	PageSize    *int `json:"pageSize,omitempty"`
	TotalItems  *int `json:"totalItems,omitempty"`
}

func (p Pagination) GetCurrentPage() int {
	return lo.FromPtrOr(p.CurrentPage, DefaultCurrentPage)
}

func (p Pagination) GetPageSize() int {
	return lo.FromPtrOr(p.PageSize, DefaultPageSize)
}

func (p Pagination) GetTotalItems() int {
	return lo.FromPtrOr(p.TotalItems, DefaultTotalItems)
}

// With returns a copy of p with one field replaced. Unknown fields leave the
// copy unchanged.
func (p Pagination) With(field PaginationField, value int) Pagination {
	ret := p.Clone()

	switch field {
	case FieldCurrentPage:
		ret.CurrentPage = lo.ToPtr(value)
	case FieldPageSize:
		ret.PageSize = lo.ToPtr(value)
	case FieldTotalItems:
		ret.TotalItems = lo.ToPtr(value)
	}

	return ret
}

func (p Pagination) Clone() Pagination {
	clonePtr := func(v *int) *int {
		if v == nil {
			return nil
		}

		return lo.ToPtr(*v)
	}

	return Pagination{
		CurrentPage: clonePtr(p.CurrentPage),
		PageSize:    clonePtr(p.PageSize),
		TotalItems:  clonePtr(p.TotalItems),
	}
}

// PageRange returns the page-range facts of p with defaults applied.
func (p Pagination) PageRange() PageRange {
	return PageRange{
		PageSize:    p.GetPageSize(),
		TotalItems:  p.GetTotalItems(),
		CurrentPage: p.GetCurrentPage(),
	}
}

// Params is the merged query state reported to the host. Treat it as
// immutable: the Store replaces it on every change.
type Params struct {
	Filters    Filters    `json:"filters"`
	Pagination Pagination `json:"pagination"`
}

func (p Params) Clone() Params {
	return Params{
		Filters:    p.Filters.Clone(),
		Pagination: p.Pagination.Clone(),
	}
}
