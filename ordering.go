package tablequery

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction of the single sorted column.
type Direction string

const (
	DirectionASC  Direction = "asc"
	DirectionDESC Direction = "desc"
)

func (d Direction) Valid() bool {
	return d == DirectionASC || d == DirectionDESC
}

// SQL returns the direction keyword as it appears in an ORDER BY clause.
func (d Direction) SQL() string {
	return strings.ToUpper(string(d))
}

// SortOrder is the value stored under the reserved "sortOrder" filter key.
type SortOrder struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

type (
	ColumnAlias = string

	// ColumnMapping maps filter names to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

// sortState is the state of one column in the sort cycle.
type sortState int

const (
	sortUnsorted sortState = iota
	sortAscending
	sortDescending
)

// _sortTransitions: unsorted -> asc -> desc -> unsorted.
var _sortTransitions = map[sortState]sortState{
	sortUnsorted:   sortAscending,
	sortAscending:  sortDescending,
	sortDescending: sortUnsorted,
}

// stateOf returns the sort state of column. Only one column is sorted at a
// time, so every column other than the current one is unsorted.
func (s *SortOrder) stateOf(column string) sortState {
	if s == nil || s.Column != column {
		return sortUnsorted
	}

	switch s.Direction {
	case DirectionASC:
		return sortAscending
	case DirectionDESC:
		return sortDescending
	default:
		return sortUnsorted
	}
}

// NextSortOrder returns the sort order after column was clicked. A nil result
// means the column went back to unsorted and no sort is applied. Clicking a
// column other than the current one abandons the old column and restarts the
// new one at ascending.
func NextSortOrder(current *SortOrder, column string) *SortOrder {
	switch _sortTransitions[current.stateOf(column)] {
	case sortAscending:
		return &SortOrder{Column: column, Direction: DirectionASC}
	case sortDescending:
		return &SortOrder{Column: column, Direction: DirectionDESC}
	default:
		return nil
	}
}

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func validateColumnName(column string) error {
	if column == "" {
		return fmt.Errorf("empty column name")
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
		return fmt.Errorf("column name contains forbidden symbols '%s'", column)
	}

	return nil
}

func (s SortOrder) validate() error {
	if !s.Direction.Valid() {
		return fmt.Errorf("invalid sort direction '%s'", s.Direction)
	}

	return validateColumnName(s.Column)
}

// ToSQL converts SortOrder to "<column> <DIRECTION>" suitable for an ORDER BY
// clause. Example: {"name", "desc"} returns "name DESC".
func (s SortOrder) ToSQL() string {
	return fmt.Sprintf("%s %s", s.Column, s.Direction.SQL())
}

// ParseSortOrder builds a SortOrder from a string in the format
// "column asc|desc". The column alias is resolved via ColumnMapping when the
// mapping is not empty. Returns an error if the alias is not found.
func ParseSortOrder(stringOrder string, columnMapping ColumnMapping) (SortOrder, error) {
	cutStringOrder := strings.Fields(stringOrder)
	if len(cutStringOrder) != 2 {
		return SortOrder{}, fmt.Errorf("invalid sort order string format '%s'", stringOrder)
	}

	column, err := resolveColumn(cutStringOrder[0], columnMapping)
	if err != nil {
		return SortOrder{}, err
	}

	ret := SortOrder{
		Column:    column,
		Direction: Direction(strings.ToLower(cutStringOrder[1])),
	}

	return ret, ret.validate()
}

// resolveColumn maps alias through columnMapping. An empty mapping means
// aliases are column names.
func resolveColumn(alias ColumnAlias, columnMapping ColumnMapping) (string, error) {
	if len(columnMapping) == 0 {
		return alias, validateColumnName(alias)
	}

	columnName := columnMapping[alias]
	if columnName == "" {
		return "", fmt.Errorf("invalid column alias '%s'. closest: '%s'", alias, closestAlias(alias, lo.Keys(columnMapping)))
	}

	return columnName, validateColumnName(columnName)
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
