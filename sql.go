package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cert-lv/tscli/engine"
	"github.com/cert-lv/tscli/project"
	"github.com/cert-lv/tscli/query"
	"github.com/google/uuid"
)

/*
 * Translate SQL query into a search request, execute it
 * and print the results.
 *
 * Every failure is printed and the shell continues
 */
func (s *Shell) executeSQL(sql string) {
	// Unique ID to find all the statement's log events
	id := uuid.NewString()

	sel, err := parseSQL(sql, config.ReplaceFields)
	if err != nil {
		fmt.Fprintf(s.out, "SQL Parse Error: %s\n", err.Error())
		log.Debug().Str("id", id).Str("sql", sql).Msg(err.Error())
		return
	}

	spec, err := query.Build(sel, s.collection)
	if errors.Is(err, query.ErrNoCollectionSpecified) {
		fmt.Fprintln(s.out, `Error: No collection specified. Use FROM [collection] or connect using \c.`)
		return
	} else if err != nil {
		fmt.Fprintf(s.out, "Translation Error: %s\n", err.Error())
		log.Debug().Str("id", id).Str("sql", sql).Msg(err.Error())
		return
	}

	// Decrease the amount of requested entries to the allowed limit
	if config.Limit > 0 && spec.PerPage > config.Limit {
		spec = spec.WithPerPage(config.Limit)
	}

	log.Info().
		Str("id", id).
		Str("sql", sql).
		Str("collection", spec.Collection).
		Str("filter", spec.Filter).
		Int("page", spec.Page).
		Int("per_page", spec.PerPage).
		Msg("Executing")

	// Original request and a single possible retry
	ctx, cancel := context.WithTimeout(context.Background(), 2*config.Server.Timeout)
	defer cancel()

	result, err := s.engine.Execute(ctx, spec)
	if err != nil {
		s.printFailure(err)
		log.Error().Str("id", id).Msg(err.Error())
		return
	}

	log.Info().
		Str("id", id).
		Int64("found", result.Found).
		Int("hits", len(result.Hits)).
		Msg("Done")

	columns, rows := project.Project(result.Hits, spec.Projection)
	if len(rows) == 0 {
		fmt.Fprintln(s.out, "No results found.")
		return
	}

	err = render(s.out, config.Format, columns, rows)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
		return
	}

	fmt.Fprintf(s.out, "Found %d hits in %dms\n", result.Found, result.SearchTimeMS)
}

/*
 * Explain the engine's failure to the user
 */
func (s *Shell) printFailure(err error) {
	var failure *engine.Failure
	if !errors.As(err, &failure) {
		fmt.Fprintf(s.out, "Query Error: %s\n", err.Error())
		return
	}

	switch failure.Kind {
	case engine.ServiceFailureRetried:
		fmt.Fprintln(s.out, "Numeric field detected, retried with range query")
		fmt.Fprintf(s.out, "Retry Failed: %s\n", failure.Message)
	case engine.NullComparisonUnsupported:
		fmt.Fprintf(s.out, "Note: %s.\n", failure.Message)
	default:
		fmt.Fprintf(s.out, "Query Error: %s\n", failure.Message)
	}
}
