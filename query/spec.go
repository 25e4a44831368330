package query

import (
	"go.mongodb.org/mongo-driver/bson"
)

const (
	// Text query matching every document
	MatchAll = "*"

	// Defaults of the search service pagination
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Sort directions
const (
	Asc  = "asc"
	Desc = "desc"
)

type SortField struct {
	Field     string
	Direction string
}

/*
 * Spec is a structured search request built from one SELECT statement.
 *
 * It is a value: the With* methods return modified copies,
 * so the original request stays available for logging
 */
type Spec struct {
	Collection string
	TextQuery  string

	// Filter language string, empty when no WHERE given
	Filter string

	Sort []SortField

	// Fields to return, nil means all of them
	Projection []string

	Page    int
	PerPage int
}

// WithFilter returns a copy of the spec with a different filter
func (s Spec) WithFilter(filter string) Spec {
	c := s.clone()
	c.Filter = filter
	return c
}

// WithPerPage returns a copy of the spec with a different page size
func (s Spec) WithPerPage(perPage int) Spec {
	c := s.clone()
	c.PerPage = perPage
	return c
}

func (s Spec) clone() Spec {
	c := s

	if s.Sort != nil {
		c.Sort = append([]SortField(nil), s.Sort...)
	}
	if s.Projection != nil {
		c.Projection = append([]string(nil), s.Projection...)
	}

	return c
}

// Document is a single search hit, fields are kept in the order
// the search service returned them
type Document = bson.D

// Result of a successful search
type Result struct {
	Hits         []Document
	Found        int64
	SearchTimeMS int64
}
