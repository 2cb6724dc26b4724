package tablequery

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

type (
	tConjunct struct {
		Column   string
		Value    any
		Operator Operator
	}

	// tConjunction is a list of conjuncts joined by AND. Every active filter
	// contributes one conjunct.
	tConjunction []tConjunct
)

var _likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// toGORMExpression converts a conjunct of the form Operator(Column, Value)
// into an SQL condition "Column Operator ?" represented as a clause.Expression.
//
// Example:
//
//	tConjunct = {Column: "name", Operator: "LIKE", Value: "abc"}
//
// Result:
//
//	"name LIKE ?" with "%abc%"
func (c tConjunct) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a conjunct to "Column Operator ?" and the value for
// the placeholder.
func (c tConjunct) toSQLClause() (string, driver.Value) {
	if c.Operator == OperatorLike {
		return fmt.Sprintf("%s %s ?", c.Column, c.Operator), likePattern(c.Value)
	}

	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), parseAnyValue(c.Value)
}

func likePattern(v any) string {
	return "%" + _likeEscaper.Replace(fmt.Sprint(v)) + "%"
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// toGORMExpression converts (K1, K2, K3) into "K1 AND K2 AND K3". Returns nil
// for an empty conjunction.
func (d tConjunction) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, conjunct := range d {
		andExpressions = append(andExpressions, conjunct.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts (K1, K2, K3) into "(K1 AND K2 AND K3)" and the values
// for its placeholders. An empty conjunction is "TRUE".
//
// Example:
//
//	tConjunction = {
//		{Column: "status", Operator: "=", Value: "active"},
//		{Column: "name", Operator: "LIKE", Value: "abc"},
//	}
//
// Result:
//
//	("(status = ? AND name LIKE ?)", ["active", "%abc%"])
func (d tConjunction) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]driver.Value, 0, len(d))

	for _, conjunct := range d {
		andClause, andValue := conjunct.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "TRUE", nil
}
