/*
 * Replace user query fields as the search service expects.
 *
 * Walking the syntax tree instead of a regexp replacing:
 *   - Much harder to break SQL syntax
 *   - Avoid accident replacing of the given values instead column names
 */

package main

import (
	"github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/cert-lv/tscli/filter"
)

/*
 * Traverse a syntax tree and rename every column found in
 * 'replaceFields' map: in the selected fields, WHERE and ORDER BY.
 *
 * The tree is modified in place
 */
func replaceSQL(node sqlparser.SQLNode, replaceFields map[string]string) error {
	if len(replaceFields) == 0 {
		return nil
	}

	return sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		col, ok := node.(*sqlparser.ColName)
		if !ok {
			return true, nil
		}

		if field, ok := replaceFields[filter.ColumnName(col)]; ok {
			col.Name = sqlparser.NewColIdent(field)
			col.Qualifier = sqlparser.TableName{}
		}

		return true, nil
	}, node)
}
