package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Jeffail/gabs/v2"
)

/*
 * "\i" - execute commands from a JSON file.
 * File must contain a list of command strings, like:
 *
 *     ["\\c books", "SELECT * FROM books LIMIT 5"]
 *
 * Returns false when the script asked to quit
 */
func (s *Shell) executeFile(path string) bool {
	if path == "" {
		fmt.Fprintln(s.out, `Usage: \i [file]`)
		return true
	}

	buffer, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(s.out, "File '%s' not found.\n", path)
		return true
	} else if err != nil {
		fmt.Fprintf(s.out, "Error reading file: %s\n", err.Error())
		return true
	}

	parsed, err := gabs.ParseJSON(buffer)
	if err != nil {
		fmt.Fprintf(s.out, "Error parsing JSON file: %s\n", err.Error())
		return true
	}

	commands, ok := parsed.Data().([]interface{})
	if !ok {
		fmt.Fprintln(s.out, "Error: JSON file must contain a list of command strings.")
		return true
	}

	for _, item := range commands {
		command, ok := item.(string)
		if !ok {
			fmt.Fprintf(s.out, "Skipping non-string item: %v\n", item)
			continue
		}

		fmt.Fprintf(s.out, "> %s\n", command)

		if !s.process(strings.TrimSpace(command)) {
			return false
		}
	}

	return true
}
