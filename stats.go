package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/cert-lv/tscli/query"
	"github.com/cert-lv/tscli/typesense"
	"github.com/umpc/go-sortedmap"
	"github.com/umpc/go-sortedmap/desc"
	"golang.org/x/sync/errgroup"
)

// Max length of the error in a statistics table
const statsErrorLength = 20

/*
 * Population of a single field
 */
type fieldStats struct {
	count int64

	// Shown instead of the count when it's unknown
	note string
}

/*
 * "\s" - show how many documents contain each field.
 *
 * Non-optional fields are present in all documents,
 * others are counted with a "field:!=null" filter in parallel
 */
func (s *Shell) stats(name string) {
	if name == "" {
		name = s.collection
	}

	if name == "" {
		fmt.Fprintln(s.out, `No collection selected. usage: \stats [collection] or connect to one first.`)
		return
	}

	ctx, cancel := s.requestContext()
	info, err := s.service.Collection(ctx, name)
	cancel()

	if err != nil {
		fmt.Fprintf(s.out, "Error getting stats for '%s': %s\n", name, err.Error())
		return
	}

	if info.NumDocuments == 0 {
		fmt.Fprintf(s.out, "Collection '%s' is empty.\n", name)
		return
	}

	results := s.countFields(info)

	fmt.Fprintf(s.out, "Field Statistics: %s (Total Docs: %d)\n", name, info.NumDocuments)
	renderTable(s.out, []string{"Field Name", "Count", "Percentage"}, statsRows(info, results))
}

/*
 * Count documents per field using a limited amount of workers
 */
func (s *Shell) countFields(info *typesense.Collection) map[string]fieldStats {
	results := make(map[string]fieldStats, len(info.Fields))
	mx := sync.Mutex{}

	group := errgroup.Group{}
	group.SetLimit(config.StatsWorkers)

	for _, field := range info.Fields {
		if !field.Optional {
			results[field.Name] = fieldStats{count: info.NumDocuments}
			continue
		}

		if !field.Index {
			results[field.Name] = fieldStats{note: "N/A (Not Indexed)"}
			continue
		}

		group.Go(func() error {
			stats := s.countField(info.Name, field.Name)

			mx.Lock()
			results[field.Name] = stats
			mx.Unlock()

			return nil
		})
	}

	// Errors are stored per field
	group.Wait()

	return results
}

/*
 * Amount of documents where the field is set.
 * Goes through the engine, so numeric fields
 * fall back to the range query
 */
func (s *Shell) countField(collection, field string) fieldStats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*config.Server.Timeout)
	defer cancel()

	result, err := s.engine.Execute(ctx, query.Spec{
		Collection: collection,
		TextQuery:  query.MatchAll,
		Filter:     field + ":!=null",
		Page:       query.DefaultPage,
		PerPage:    0,
	})
	if err != nil {
		log.Debug().
			Str("collection", collection).
			Str("field", field).
			Msg("Can't count field: " + err.Error())

		return fieldStats{note: "Err: " + truncate(err.Error(), statsErrorLength)}
	}

	return fieldStats{count: result.Found}
}

/*
 * Table rows: counted fields from the most populated one,
 * fields without a count at the end in a schema order
 */
func statsRows(info *typesense.Collection, results map[string]fieldStats) [][]string {
	sorted := sortedmap.New(len(results), desc.Int)
	rows := make([][]string, 0, len(results))
	notes := [][]string{}

	for _, field := range info.Fields {
		stats, ok := results[field.Name]
		if !ok {
			continue
		}

		if stats.note != "" {
			notes = append(notes, []string{field.Name, stats.note, "N/A"})
			continue
		}

		sorted.Insert(field.Name, int(stats.count))
	}

	if len(sorted.Keys()) != 0 {
		iterCh, err := sorted.IterCh()
		if err == nil {
			defer iterCh.Close()

			for rec := range iterCh.Records() {
				count := int64(rec.Val.(int))
				percentage := float64(count) / float64(info.NumDocuments) * 100

				rows = append(rows, []string{
					rec.Key.(string),
					strconv.FormatInt(count, 10),
					fmt.Sprintf("%.1f%%", percentage),
				})
			}
		}
	}

	return append(rows, notes...)
}

// First n characters of the text
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[:n])
}
