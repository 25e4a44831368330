package filter

import (
	"errors"
	"fmt"
)

var (
	// Returned (wrapped) when WHERE uses a construct
	// the filter language can't express
	ErrUnsupportedConstruct = errors.New("Unsupported WHERE clause construct")

	// Filter language symbols of the comparison operators
	symbols = map[Operator]string{
		EQ:   ":=",
		NEQ:  ":!=",
		GT:   ":>",
		GTE:  ":>=",
		LT:   ":<",
		LTE:  ":<=",
		LIKE: ":",
	}
)

/*
 * Translate an expression tree into the search service filter string.
 *
 * Both sides of a logical node are fully translated before joining,
 * so a single unsupported node anywhere fails the whole translation
 */
func Translate(e Expression) (string, error) {
	switch n := e.(type) {
	case Logical:
		left, err := Translate(n.Left)
		if err != nil {
			return "", err
		}
		right, err := Translate(n.Right)
		if err != nil {
			return "", err
		}

		switch n.Operator {
		case AND:
			return left + " && " + right, nil
		case OR:
			return left + " || " + right, nil
		}

		return "", fmt.Errorf("%w: logical operator %d", ErrUnsupportedConstruct, n.Operator)

	case Comparison:
		symbol, ok := symbols[n.Operator]
		if !ok {
			return "", fmt.Errorf("%w: comparison operator %d", ErrUnsupportedConstruct, n.Operator)
		}

		// LIKE patterns are passed as is, '%' wildcards included
		return n.Field + symbol + n.Literal, nil

	case NullCheck:
		if n.Negated {
			return n.Field + ":!=null", nil
		}
		return n.Field + ":=null", nil

	case Group:
		inner, err := Translate(n.Inner)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil

	case Unsupported:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedConstruct, n.Reason)
	}

	return "", fmt.Errorf("%w: %T", ErrUnsupportedConstruct, e)
}
