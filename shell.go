package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cert-lv/tscli/engine"
	"github.com/cert-lv/tscli/typesense"
	"github.com/peterh/liner"
)

/*
 * Search service operations the shell needs
 */
type service interface {
	engine.Searcher
	Collections(ctx context.Context) ([]*typesense.Collection, error)
	Collection(ctx context.Context, name string) (*typesense.Collection, error)
}

/*
 * Interactive shell's state
 */
type Shell struct {
	service service
	engine  *engine.Engine

	// Default collection for the queries without FROM
	collection string

	// Output of the results
	out io.Writer

	// Autocompletion data
	completer *completer
}

func newShell(svc service, out io.Writer) *Shell {
	return &Shell{
		service:   svc,
		engine:    engine.New(svc, engine.WithLogger(log)),
		out:       out,
		completer: newCompleter(),
	}
}

/*
 * Read-eval-print loop until "\q" or EOF
 */
func (s *Shell) run() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.completer.complete)

	if f, err := os.Open(config.History); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	defer s.saveHistory(line)

	s.help()

	for {
		text, err := line.Prompt(s.prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		} else if err != nil {
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		line.AppendHistory(text)

		if !s.process(text) {
			return nil
		}
	}
}

func (s *Shell) saveHistory(line *liner.State) {
	f, err := os.Create(config.History)
	if err != nil {
		log.Error().Msg("Can't save a history file: " + err.Error())
		return
	}
	defer f.Close()

	_, err = line.WriteHistory(f)
	if err != nil {
		log.Error().Msg("Can't write a history file: " + err.Error())
	}
}

func (s *Shell) prompt() string {
	if s.collection != "" {
		return "tscli (" + s.collection + ")> "
	}

	return "tscli> "
}

/*
 * Handle a single command: meta command or SQL query.
 * Returns false when the shell must exit
 */
func (s *Shell) process(text string) bool {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return true
	}

	if !strings.HasPrefix(parts[0], `\`) {
		s.executeSQL(text)
		return true
	}

	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch parts[0] {
	case `\q`:
		fmt.Fprintln(s.out, "Bye!")
		return false
	case `\l`:
		s.list()
	case `\c`:
		s.connect(arg)
	case `\d`:
		s.describe(arg)
	case `\s`, `\stats`:
		s.stats(arg)
	case `\?`:
		s.help()
	case `\i`:
		return s.executeFile(arg)
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", parts[0])
	}

	return true
}

/*
 * Context for a single request to the search service
 */
func (s *Shell) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.Server.Timeout)
}
