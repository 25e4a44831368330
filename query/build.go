/*
 * SELECT statement to the search request converter
 */

package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/cert-lv/tscli/filter"
)

var (
	// Neither FROM nor a connected collection is given
	ErrNoCollectionSpecified = errors.New("No collection specified. Use FROM [collection] or connect using \\c")
)

/*
 * Build a search request from the parsed SELECT statement.
 *
 * Receives a collection to use when the statement has no FROM,
 * may be empty
 */
func Build(sel *sqlparser.Select, defaultCollection string) (Spec, error) {
	spec := Spec{
		TextQuery: MatchAll,
		Page:      DefaultPage,
		PerPage:   DefaultPerPage,
	}

	// Handle FROM
	collection, alias := collectionName(sel.From)

	spec.Collection = collection
	if spec.Collection == "" {
		spec.Collection = defaultCollection
	}
	if spec.Collection == "" {
		return Spec{}, ErrNoCollectionSpecified
	}

	// "users.age" and "u.age" of "FROM users u" both mean "age"
	tables := []string{spec.Collection, alias}

	// Handle selected fields
	spec.Projection = projection(sel.SelectExprs, tables)

	// Handle WHERE
	if sel.Where != nil && sel.Where.Expr != nil {
		f, err := filter.Translate(filter.FromSQL(sel.Where.Expr, tables...))
		if err != nil {
			return Spec{}, err
		}

		spec.Filter = f
	}

	// Handle order by
	for _, orderByExpr := range sel.OrderBy {
		direction := Asc
		if orderByExpr.Direction == sqlparser.DescScr {
			direction = Desc
		}

		spec.Sort = append(spec.Sort, SortField{
			Field:     fieldName(orderByExpr.Expr, tables),
			Direction: direction,
		})
	}

	// Handle limit
	if sel.Limit != nil {
		spec.Page, spec.PerPage = pagination(sel.Limit)
	}

	return spec, nil
}

/*
 * Find the first table reference.
 * Parser puts an implicit "dual" table when FROM is missing
 */
func collectionName(from sqlparser.TableExprs) (string, string) {
	for _, expr := range from {
		aliased, ok := expr.(*sqlparser.AliasedTableExpr)
		if !ok {
			continue
		}

		table, ok := aliased.Expr.(sqlparser.TableName)
		if !ok {
			continue
		}

		name := table.Name.String()
		if name == "" || strings.EqualFold(name, "dual") {
			return "", ""
		}

		return name, aliased.As.String()
	}

	return "", ""
}

/*
 * Ordered unique list of selected columns, nil when all fields are requested.
 * Aliases are accepted, but the original name is used
 */
func projection(exprs sqlparser.SelectExprs, tables []string) []string {
	fields := []string{}
	seen := make(map[string]bool)

	for _, expr := range exprs {
		switch e := expr.(type) {
		case *sqlparser.StarExpr:
			return nil

		case *sqlparser.AliasedExpr:
			col, ok := e.Expr.(*sqlparser.ColName)
			if !ok {
				continue
			}

			name := filter.FieldName(col, tables...)
			if seen[name] {
				continue
			}

			seen[name] = true
			fields = append(fields, name)
		}
	}

	if len(fields) == 0 {
		return nil
	}

	return fields
}

func fieldName(expr sqlparser.Expr, tables []string) string {
	if col, ok := expr.(*sqlparser.ColName); ok {
		return filter.FieldName(col, tables...)
	}

	return strings.Replace(sqlparser.String(expr), "`", "", -1)
}

/*
 * Page and page size of the LIMIT clause.
 *
 * Unparsable rowcount keeps the default page size instead of
 * failing the whole statement. An offset is used only when
 * it points to the beginning of some page
 */
func pagination(limit *sqlparser.Limit) (int, int) {
	page, perPage := DefaultPage, DefaultPerPage

	if limit.Rowcount != nil {
		rowcount, err := strconv.Atoi(sqlparser.String(limit.Rowcount))
		if err == nil && rowcount >= 0 {
			perPage = rowcount
		}
	}

	if limit.Offset != nil && perPage > 0 {
		offset, err := strconv.Atoi(sqlparser.String(limit.Offset))
		if err == nil && offset > 0 && offset%perPage == 0 {
			page = offset/perPage + 1
		}
	}

	return page, perPage
}
