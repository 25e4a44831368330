package main

import (
	"sort"
	"strings"
	"sync"

	"github.com/cert-lv/tscli/typesense"
)

var (
	keywords = []string{
		"SELECT", "FROM", "WHERE", "ORDER BY", "LIMIT", "OFFSET",
		"AND", "OR", "NOT", "IS", "LIKE", "NULL", "DESC", "ASC",
	}

	metaCommands = []string{`\l`, `\c`, `\d`, `\s`, `\?`, `\q`, `\i`}
)

/*
 * Tab completion of the meta commands, SQL keywords,
 * collections and fields names
 */
type completer struct {
	mx    sync.RWMutex
	words []string
}

func newCompleter() *completer {
	c := &completer{}
	c.update(nil)

	return c
}

/*
 * Replace known collections and fields
 */
func (c *completer) update(collections []*typesense.Collection) {
	seen := make(map[string]bool)
	words := append([]string{}, keywords...)

	for _, col := range collections {
		if !seen[col.Name] {
			seen[col.Name] = true
			words = append(words, col.Name)
		}

		for _, f := range col.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				words = append(words, f.Name)
			}
		}
	}

	sort.Strings(words[len(keywords):])

	c.mx.Lock()
	c.words = words
	c.mx.Unlock()
}

/*
 * Complete the last word of the line.
 * Returns full lines as liner expects
 */
func (c *completer) complete(line string) []string {
	trimmed := strings.TrimLeft(line, " ")
	if strings.HasPrefix(trimmed, `\`) && !strings.Contains(trimmed, " ") {
		return candidates(line[:len(line)-len(trimmed)], trimmed, metaCommands, false)
	}

	start := strings.LastIndexAny(line, " ,(") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	c.mx.RLock()
	defer c.mx.RUnlock()

	return candidates(prefix, word, c.words, true)
}

func candidates(prefix, word string, words []string, fold bool) []string {
	result := []string{}
	for _, w := range words {
		if fold && strings.HasPrefix(strings.ToLower(w), strings.ToLower(word)) ||
			!fold && strings.HasPrefix(w, word) {
			result = append(result, prefix+w)
		}
	}

	return result
}
