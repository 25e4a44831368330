package filter

import (
	"fmt"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

// Comparison operators of the SQL parser that have
// a direct filter language counterpart
var operators = map[string]Operator{
	sqlparser.EqualStr:        EQ,
	sqlparser.NotEqualStr:     NEQ,
	"<>":                      NEQ,
	sqlparser.GreaterThanStr:  GT,
	sqlparser.GreaterEqualStr: GTE,
	sqlparser.LessThanStr:     LT,
	sqlparser.LessEqualStr:    LTE,
	sqlparser.LikeStr:         LIKE,
}

// Names a column can be qualified with: the queried table and its alias
type scope []string

/*
 * Convert a parsed WHERE expression into the Expression tree.
 * Receives the table name and alias of the FROM clause,
 * their qualifiers are removed from the column names.
 *
 * Never fails: shapes outside the supported subset become Unsupported
 * nodes and are reported by Translate
 */
func FromSQL(expr sqlparser.Expr, tables ...string) Expression {
	return scope(tables).convert(expr)
}

func (sc scope) convert(expr sqlparser.Expr) Expression {
	switch n := expr.(type) {
	case *sqlparser.AndExpr:
		return Logical{Operator: AND, Left: sc.convert(n.Left), Right: sc.convert(n.Right)}

	case *sqlparser.OrExpr:
		return Logical{Operator: OR, Left: sc.convert(n.Left), Right: sc.convert(n.Right)}

	case *sqlparser.ParenExpr:
		return Group{Inner: sc.convert(n.Expr)}

	case *sqlparser.ComparisonExpr:
		return sc.fromComparison(n)

	case *sqlparser.IsExpr:
		return sc.fromIs(n, false)

	case *sqlparser.NotExpr:
		// Only "NOT field IS NULL" is recognized,
		// there is no general negation in the filter language
		if is, ok := n.Expr.(*sqlparser.IsExpr); ok && is.Operator == sqlparser.IsNullStr {
			return sc.fromIs(is, true)
		}
		return Unsupported{Reason: "'not' expression is supported for 'IS NULL' only"}

	case nil:
		return Unsupported{Reason: "empty expression"}
	}

	return Unsupported{Reason: fmt.Sprintf("unexpected SQL expression type: %T", expr)}
}

func (sc scope) fromComparison(expr *sqlparser.ComparisonExpr) Expression {
	colName, ok := expr.Left.(*sqlparser.ColName)
	if !ok {
		return Unsupported{Reason: "the left side of a comparison must be a column name"}
	}

	op, ok := operators[expr.Operator]
	if !ok {
		return Unsupported{Reason: fmt.Sprintf("operator '%s'", expr.Operator)}
	}

	literal, err := sc.literal(expr.Right)
	if err != nil {
		return Unsupported{Reason: err.Error()}
	}

	return Comparison{Operator: op, Field: FieldName(colName, sc...), Literal: literal}
}

func (sc scope) fromIs(expr *sqlparser.IsExpr, negate bool) Expression {
	colName, ok := expr.Expr.(*sqlparser.ColName)
	if !ok {
		return Unsupported{Reason: "'is' expression must be applied to a column name"}
	}

	switch expr.Operator {
	case sqlparser.IsNullStr:
		return NullCheck{Field: FieldName(colName, sc...), Negated: negate}

	case sqlparser.IsNotNullStr:
		// The parser folds "IS NOT NULL" into a single node,
		// a NOT on top of it is a double negation
		if !negate {
			return NullCheck{Field: FieldName(colName, sc...), Negated: true}
		}
	}

	return Unsupported{Reason: fmt.Sprintf("'%s' expression", expr.Operator)}
}

/*
 * Render the right side of a comparison the way
 * the filter language expects it: values without quotes
 */
func (sc scope) literal(expr sqlparser.Expr) (string, error) {
	switch v := expr.(type) {
	case *sqlparser.SQLVal:
		switch v.Type {
		case sqlparser.StrVal, sqlparser.IntVal, sqlparser.FloatVal:
			return string(v.Val), nil
		}
		return sqlparser.String(v), nil

	case *sqlparser.UnaryExpr:
		if num, ok := v.Expr.(*sqlparser.SQLVal); ok && v.Operator == sqlparser.UMinusStr {
			return "-" + string(num.Val), nil
		}

	case *sqlparser.NullVal:
		return "null", nil

	case sqlparser.BoolVal:
		return fmt.Sprint(bool(v)), nil

	case *sqlparser.BoolVal:
		return fmt.Sprint(bool(*v)), nil

	case *sqlparser.ColName:
		// Unquoted words, e.g. "status = active"
		return FieldName(v, sc...), nil
	}

	return "", fmt.Errorf("unexpected value on the right side of a comparison: %T", expr)
}

// ColumnName returns a column name without quotes,
// dotted paths of the nested fields are kept
func ColumnName(col *sqlparser.ColName) string {
	return strings.Replace(sqlparser.String(col), "`", "", -1)
}

/*
 * Field name as the search service knows it.
 * A qualifier naming one of the given tables or aliases is dropped,
 * any other qualifier is a part of a nested field path
 */
func FieldName(col *sqlparser.ColName, tables ...string) string {
	if col.Qualifier.Qualifier.String() == "" && col.Qualifier.Name.String() != "" {
		for _, table := range tables {
			if table != "" && col.Qualifier.Name.String() == table {
				return col.Name.String()
			}
		}
	}

	return ColumnName(col)
}
