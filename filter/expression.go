/*
 * WHERE clause expressions understood by the search service.
 *
 * The set of node kinds is closed: every value of the Expression interface
 * is one of the structs below, anything else the SQL parser may produce
 * is turned into Unsupported by FromSQL
 */

package filter

// Comparison operators
type Operator int

const (
	EQ Operator = iota
	NEQ
	GT
	GTE
	LT
	LTE
	LIKE
)

// Boolean connectives
type Connective int

const (
	AND Connective = iota
	OR
)

type Expression interface {
	expression()
}

// Comparison is "field <op> literal"
type Comparison struct {
	Operator Operator
	Field    string
	Literal  string
}

// Logical joins two expressions with AND or OR
type Logical struct {
	Operator    Connective
	Left, Right Expression
}

// NullCheck is "field IS NULL", or "field IS NOT NULL" when negated
type NullCheck struct {
	Field   string
	Negated bool
}

// Group is a parenthesized sub-expression
type Group struct {
	Inner Expression
}

// Unsupported marks a node outside the supported subset
type Unsupported struct {
	Reason string
}

func (Comparison) expression()  {}
func (Logical) expression()     {}
func (NullCheck) expression()   {}
func (Group) expression()       {}
func (Unsupported) expression() {}
