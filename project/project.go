/*
 * Search hits to table rows conversion
 */

package project

import (
	"fmt"

	"github.com/cert-lv/tscli/query"
)

/*
 * Project hits into columns and rows.
 *
 * Requested fields define the columns, otherwise the first hit's fields do.
 * No hits give no columns and no rows, which is not an error
 */
func Project(hits []query.Document, projection []string) ([]string, [][]string) {
	columns := []string{}
	rows := [][]string{}

	if len(projection) > 0 {
		columns = append(columns, projection...)
	} else if len(hits) > 0 {
		for _, e := range hits[0] {
			columns = append(columns, e.Key)
		}
	}

	if len(hits) == 0 {
		return columns[:0], rows
	}

	for _, doc := range hits {
		values := make(map[string]interface{}, len(doc))
		for _, e := range doc {
			values[e.Key] = e.Value
		}

		row := make([]string, len(columns))
		for i, col := range columns {
			value, ok := values[col]
			if !ok {
				continue
			}

			row[i] = Format(value)
		}

		rows = append(rows, row)
	}

	return columns, rows
}

// Format converts any field value to its textual form
func Format(value interface{}) string {
	if value == nil {
		return "null"
	}

	return fmt.Sprint(value)
}
