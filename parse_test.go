package main

import (
	"reflect"
	"testing"

	"github.com/cert-lv/tscli/query"
)

// Test SQL validation before the translation
func TestParseSQL(t *testing.T) {

	// Pairs of SQLs and whether they must be accepted
	tables := []struct {
		sql   string
		valid bool
	}{
		{`SELECT * FROM books`, true},
		{`SELECT title, year FROM books WHERE year > 2000 ORDER BY year DESC LIMIT 5`, true},
		{`SELECT * WHERE rating IS NOT NULL`, true},
		{`SELEC * FROM books`, false},
		{`DELETE FROM books WHERE id = 1`, false},
		{`SELECT * FROM books, authors`, false},
		{`SELECT * FROM books JOIN authors ON books.author_id = authors.id`, false},
		{`SELECT * FROM (SELECT * FROM books) AS b`, false},
		{`SELECT DISTINCT title FROM books`, false},
		{`SELECT year FROM books GROUP BY year`, false},
		{`SELECT count(*) FROM books`, false},
	}

	for _, table := range tables {
		_, err := parseSQL(table.sql, nil)

		if table.valid && err != nil {
			t.Errorf("Can't parse '%s': %s", table.sql, err.Error())
		} else if !table.valid && err == nil {
			t.Errorf("Invalid SQL accepted: %s", table.sql)
		}
	}
}

// Test user defined fields renaming
func TestReplaceSQL(t *testing.T) {
	replace := map[string]string{
		"year":   "publication_year",
		"a.name": "author_name",
	}

	tables := []struct {
		sql        string
		projection []string
		filter     string
		sort       []query.SortField
	}{
		{
			`SELECT title, year FROM books WHERE year > 2000 ORDER BY year DESC`,
			[]string{"title", "publication_year"},
			"publication_year:>2000",
			[]query.SortField{{Field: "publication_year", Direction: query.Desc}},
		},
		{
			`SELECT a.name FROM books WHERE a.name = 'year'`,
			[]string{"author_name"},
			"author_name:=year",
			nil,
		},
		{
			`SELECT * FROM books WHERE pages < 100`,
			nil,
			"pages:<100",
			nil,
		},
	}

	for _, table := range tables {
		sel, err := parseSQL(table.sql, replace)
		if err != nil {
			t.Errorf("Can't parse '%s': %s", table.sql, err.Error())
			continue
		}

		spec, err := query.Build(sel, "")
		if err != nil {
			t.Errorf("Can't build '%s': %s", table.sql, err.Error())
			continue
		}

		if !reflect.DeepEqual(spec.Projection, table.projection) {
			t.Errorf("Invalid projection of '%s': %v, expected: %v", table.sql, spec.Projection, table.projection)
		}

		if spec.Filter != table.filter {
			t.Errorf("Invalid filter of '%s': %s, expected: %s", table.sql, spec.Filter, table.filter)
		}

		if len(spec.Sort) != len(table.sort) || (len(spec.Sort) > 0 && !reflect.DeepEqual(spec.Sort, table.sort)) {
			t.Errorf("Invalid sort of '%s': %v, expected: %v", table.sql, spec.Sort, table.sort)
		}
	}
}
