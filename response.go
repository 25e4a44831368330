package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"go.mongodb.org/mongo-driver/bson"
)

/*
 * Print query results in the configured format.
 * Receives columns and rows produced by the projector
 */
func render(w io.Writer, format string, columns []string, rows [][]string) error {
	if format == "json" {
		return renderJSON(w, columns, rows)
	}

	renderTable(w, columns, rows)
	return nil
}

/*
 * Draw an ASCII table
 */
func renderTable(w io.Writer, columns []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)

	// Show field names as they are
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	table.AppendBulk(rows)
	table.Render()
}

/*
 * One JSON object per row.
 * Ordered documents are used to keep the columns order
 */
func renderJSON(w io.Writer, columns []string, rows [][]string) error {
	for _, row := range rows {
		doc := make(bson.D, 0, len(columns))
		for i, col := range columns {
			doc = append(doc, bson.E{Key: col, Value: row[i]})
		}

		b, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return fmt.Errorf("Can't format row to JSON: %s", err.Error())
		}

		_, err = fmt.Fprintln(w, string(b))
		if err != nil {
			return err
		}
	}

	return nil
}
