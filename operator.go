package tablequery

import "fmt"

// Operator defines a comparison operator for filtering by column.
type Operator string

const (
	OperatorEq   Operator = "="
	OperatorLike Operator = "LIKE"
)

func (o Operator) Valid() bool {
	return o == OperatorEq || o == OperatorLike
}

// ForFilterKind picks the operator for a filter widget: dropdown values are
// exact codes, free text is a substring search.
func ForFilterKind(kind FilterKind) Operator {
	switch kind {
	case FilterKindSelect:
		return OperatorEq
	case FilterKindText, FilterKindNone:
		return OperatorLike
	default:
		panic(fmt.Errorf("cannot map filter kind '%s' to operator", kind))
	}
}
