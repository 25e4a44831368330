package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/cert-lv/tscli/filter"
)

func parse(t *testing.T, sql string) *sqlparser.Select {
	t.Helper()

	ast, err := sqlparser.Parse(sql)
	if err != nil {
		t.Fatalf("Can't parse '%s': %s", sql, err.Error())
	}

	stmt, ok := ast.(*sqlparser.Select)
	if !ok {
		t.Fatalf("Only SELECT statement is allowed: %s", sql)
	}

	return stmt
}

/*
 * Test SQL conversion to the search request
 */
func TestBuild(t *testing.T) {

	// Pairs of SQLs and the expected results
	tables := []struct {
		sql      string
		fallback string
		spec     Spec
	}{
		{
			`SELECT name, age FROM users WHERE age > 30 AND country = 'US' ORDER BY age DESC LIMIT 5`, "",
			Spec{Collection: "users", TextQuery: "*", Filter: "age:>30 && country:=US", Sort: []SortField{{"age", "desc"}}, Projection: []string{"name", "age"}, Page: 1, PerPage: 5},
		},
		{
			`SELECT * FROM users`, "",
			Spec{Collection: "users", TextQuery: "*", Page: 1, PerPage: 10},
		},
		{
			`SELECT name, age, name FROM users`, "",
			Spec{Collection: "users", TextQuery: "*", Projection: []string{"name", "age"}, Page: 1, PerPage: 10},
		},
		{
			`SELECT name AS n, age FROM users ORDER BY name, age ASC`, "",
			Spec{Collection: "users", TextQuery: "*", Sort: []SortField{{"name", "asc"}, {"age", "asc"}}, Projection: []string{"name", "age"}, Page: 1, PerPage: 10},
		},
		{
			`SELECT name, * FROM users`, "",
			Spec{Collection: "users", TextQuery: "*", Page: 1, PerPage: 10},
		},
		{
			`SELECT * WHERE active IS NOT NULL`, "books",
			Spec{Collection: "books", TextQuery: "*", Filter: "active:!=null", Page: 1, PerPage: 10},
		},
		{
			`SELECT * FROM users WHERE score != 10`, "books",
			Spec{Collection: "users", TextQuery: "*", Filter: "score:!=10", Page: 1, PerPage: 10},
		},
		{
			`SELECT u.name FROM users u WHERE u.age > 3 ORDER BY u.age`, "",
			Spec{Collection: "users", TextQuery: "*", Filter: "age:>3", Sort: []SortField{{"age", "asc"}}, Projection: []string{"name"}, Page: 1, PerPage: 10},
		},
		{
			`SELECT users.name, name FROM users WHERE users.age >= 18`, "",
			Spec{Collection: "users", TextQuery: "*", Filter: "age:>=18", Projection: []string{"name"}, Page: 1, PerPage: 10},
		},
		{
			`SELECT books.title, address.city FROM books ORDER BY address.city DESC`, "",
			Spec{Collection: "books", TextQuery: "*", Sort: []SortField{{"address.city", "desc"}}, Projection: []string{"title", "address.city"}, Page: 1, PerPage: 10},
		},
		{
			`SELECT books.title WHERE books.year > 2000`, "books",
			Spec{Collection: "books", TextQuery: "*", Filter: "year:>2000", Projection: []string{"title"}, Page: 1, PerPage: 10},
		},
		{
			`SELECT * FROM users LIMIT abc`, "",
			Spec{Collection: "users", TextQuery: "*", Page: 1, PerPage: 10},
		},
		{
			`SELECT * FROM users LIMIT 20, 10`, "",
			Spec{Collection: "users", TextQuery: "*", Page: 3, PerPage: 10},
		},
		{
			`SELECT * FROM users LIMIT 5, 10`, "",
			Spec{Collection: "users", TextQuery: "*", Page: 1, PerPage: 10},
		},
	}

	for _, table := range tables {
		spec, err := Build(parse(t, table.sql), table.fallback)
		if err != nil {
			t.Errorf("Can't build '%s': %s", table.sql, err.Error())
			continue
		}

		if !reflect.DeepEqual(spec, table.spec) {
			t.Errorf("Invalid request of '%s': %#v, expected: %#v", table.sql, spec, table.spec)
		}
	}
}

func TestBuildNoCollection(t *testing.T) {
	_, err := Build(parse(t, `SELECT * WHERE a = 1`), "")
	if !errors.Is(err, ErrNoCollectionSpecified) {
		t.Errorf("Expected missing collection error, got: %v", err)
	}
}

func TestBuildUnsupported(t *testing.T) {
	_, err := Build(parse(t, `SELECT * FROM users WHERE NOT a = 1`), "")
	if !errors.Is(err, filter.ErrUnsupportedConstruct) {
		t.Errorf("Expected unsupported construct error, got: %v", err)
	}
}

func TestWithFilter(t *testing.T) {
	spec := Spec{Collection: "users", Filter: "rating:!=null", Sort: []SortField{{"rating", "asc"}}, Projection: []string{"rating"}}

	retry := spec.WithFilter("rating:>= -2000000000")
	retry.Sort[0].Direction = "desc"
	retry.Projection[0] = "name"

	if spec.Filter != "rating:!=null" || spec.Sort[0].Direction != "asc" || spec.Projection[0] != "rating" {
		t.Errorf("Original request is modified: %#v", spec)
	}
	if retry.Filter != "rating:>= -2000000000" || retry.Collection != "users" {
		t.Errorf("Invalid derived request: %#v", retry)
	}
}
