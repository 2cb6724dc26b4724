package tablequery

// FilterKind tells which widget collects a column's filter value and how
// QueryScope compares it.
type FilterKind string

const (
	FilterKindNone   FilterKind = ""
	FilterKindText   FilterKind = "text"
	FilterKindSelect FilterKind = "select"
)

type (
	// ColumnSpec describes one table column. It is supplied by the host and
	// is read-only for the engine.
	ColumnSpec struct {
		// Header display label, opaque to the engine.
		Header string `yaml:"header" json:"header"`
		// Filter optional filter descriptor. Filter.Name is the key in Filters.
		Filter *FilterSpec `yaml:"filter,omitempty" json:"filter,omitempty"`
		// Sortable only gates the sort affordance on the host side.
		Sortable bool `yaml:"sortable,omitempty" json:"sortable,omitempty"`
		// Width optional column width, opaque to the engine.
		Width string `yaml:"width,omitempty" json:"width,omitempty"`
		// Row renders one item for this column, opaque to the engine.
		Row func(item any) string `yaml:"-" json:"-"`
	}

	FilterSpec struct {
		Name  string       `yaml:"name" json:"name"`
		Items []FilterItem `yaml:"items,omitempty" json:"items,omitempty"`
	}

	FilterItem struct {
		Code  string `yaml:"code" json:"code"`
		Label string `yaml:"label" json:"label"`
	}
)

// FilterName returns the filter key of the column or "" when the column is
// not filterable.
func (c ColumnSpec) FilterName() string {
	if c.Filter == nil {
		return ""
	}

	return c.Filter.Name
}

func (c ColumnSpec) IsFilterable() bool {
	return c.FilterName() != ""
}

func (c ColumnSpec) FilterKind() FilterKind {
	switch {
	case !c.IsFilterable():
		return FilterKindNone
	case len(c.Filter.Items) > 0:
		return FilterKindSelect
	default:
		return FilterKindText
	}
}

// InitialFilters builds the seed filters: one empty value per column that
// declares a named filter. Duplicate names collide, the last one wins.
func InitialFilters(columns []ColumnSpec) Filters {
	values := make(map[string]string, len(columns))
	for _, column := range columns {
		if column.IsFilterable() {
			values[column.FilterName()] = ""
		}
	}

	return Filters{Values: values}
}
