package main

import (
	"fmt"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

/*
 * Parse SQL query for the later translation,
 * textual SQL query into a logical object.
 *
 * Receives a query to parse and the fields to rename
 */
func parseSQL(sql string, replaceFields map[string]string) (*sqlparser.Select, error) {

	/*
	 * Parse and validate received SQL query
	 */

	ast, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("Can't parse SQL query: %s", err.Error())
	}

	query, ok := ast.(*sqlparser.Select)
	if !ok {
		return nil, fmt.Errorf("Only SELECT statements are supported")
	}

	// Handle multiple FROM
	if len(query.From) > 1 {
		return nil, fmt.Errorf("Multiple FROM currently not supported")
	}

	for _, from := range query.From {
		aliased, ok := from.(*sqlparser.AliasedTableExpr)
		if !ok {
			return nil, fmt.Errorf("JOIN currently not supported")
		}

		if _, ok := aliased.Expr.(sqlparser.TableName); !ok {
			return nil, fmt.Errorf("Subqueries currently not supported")
		}
	}

	// Handle DISTINCT
	if query.Distinct != "" {
		return nil, fmt.Errorf("DISTINCT currently not supported")
	}

	// Handle group by
	if len(query.GroupBy) > 0 || query.Having != nil || checkNeedAgg(query.SelectExprs) {
		return nil, fmt.Errorf("'GROUP BY' & aggregation are not supported")
	}

	/*
	 * Replace user defined fields
	 */

	err = replaceSQL(query, replaceFields)
	if err != nil {
		return nil, fmt.Errorf("Can't replace fields: %s", err.Error())
	}

	return query, nil
}

// Check whether selected expressions contain functions
func checkNeedAgg(sqlSelect sqlparser.SelectExprs) bool {
	for _, v := range sqlSelect {
		expr, ok := v.(*sqlparser.AliasedExpr)
		if !ok {
			// No need to handle, star expression * just skip is ok
			continue
		}

		if _, ok := expr.Expr.(*sqlparser.FuncExpr); ok {
			return true
		}
	}

	return false
}
