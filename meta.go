package main

import (
	"fmt"
	"strconv"

	"github.com/cert-lv/tscli/typesense"
	"github.com/olekukonko/tablewriter"
)

/*
 * "\l" - list all available collections
 */
func (s *Shell) list() {
	ctx, cancel := s.requestContext()
	defer cancel()

	collections, err := s.service.Collections(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error listing collections: %s\n", err.Error())
		return
	}

	s.refreshMetadata(collections)

	rows := make([][]string, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, []string{c.Name, strconv.FormatInt(c.NumDocuments, 10), strconv.FormatInt(c.CreatedAt, 10)})
	}

	renderTable(s.out, []string{"Name", "Num Documents", "Created At"}, rows)
}

/*
 * "\c" - set a default collection for the next queries
 */
func (s *Shell) connect(name string) {
	if name == "" {
		fmt.Fprintln(s.out, `Usage: \c [collection]`)
		return
	}

	ctx, cancel := s.requestContext()
	defer cancel()

	_, err := s.service.Collection(ctx, name)
	if err != nil {
		log.Debug().Str("collection", name).Msg("Can't connect: " + err.Error())
		fmt.Fprintf(s.out, "Collection '%s' does not exist.\n", name)
		return
	}

	s.collection = name
	fmt.Fprintf(s.out, "You are now connected to collection %s.\n", name)
}

/*
 * "\d" - show the collection's schema
 */
func (s *Shell) describe(name string) {
	if name == "" {
		name = s.collection
	}

	if name == "" {
		fmt.Fprintln(s.out, `No collection selected. usage: \d [collection] or connect to one first.`)
		return
	}

	ctx, cancel := s.requestContext()
	defer cancel()

	c, err := s.service.Collection(ctx, name)
	if err != nil {
		fmt.Fprintf(s.out, "Error describing collection '%s': %s\n", name, err.Error())
		return
	}

	rows := make([][]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		rows = append(rows, []string{
			f.Name,
			f.Type,
			strconv.FormatBool(f.Facet),
			strconv.FormatBool(f.Optional),
			strconv.FormatBool(f.Index),
		})
	}

	fmt.Fprintf(s.out, "Collection: %s\n", name)
	renderTable(s.out, []string{"Field Name", "Type", "Facet?", "Optional?", "Index?"}, rows)

	sorting := c.DefaultSortingField
	if sorting == "" {
		sorting = "None"
	}
	fmt.Fprintf(s.out, "Default Sorting Field: %s\n", sorting)
}

/*
 * "\?" - list of the meta commands
 */
func (s *Shell) help() {
	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Command", "Description"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.AppendBulk([][]string{
		{`\l`, "List all available collections."},
		{`\c [collection]`, "Connect to a specified collection."},
		{`\d [collection]`, "Describe a collection."},
		{`\s [collection]`, "Show field statistics (population)."},
		{`\?`, "Display help information."},
		{`\q`, "Quit the shell."},
		{`\i [file]`, "Execute commands from a JSON script file."},
		{"SELECT ...", "Run SQL query on collection."},
	})

	table.Render()
}

/*
 * Update autocompletion with the known collections and their fields
 */
func (s *Shell) refreshMetadata(collections []*typesense.Collection) {
	s.completer.update(collections)
}
