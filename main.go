package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cert-lv/tscli/typesense"
	"github.com/rs/zerolog"
)

var (
	// Holder all shell's configuration
	config *Config

	// Instance of the global logger
	log zerolog.Logger

	// Current shell's version
	version string
)

func main() {
	/*
	 * Parse configuration file
	 */
	err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't load configuration: %s\n", err.Error())
		os.Exit(1)
	}

	/*
	 * Setup a global logger to the file or stderr
	 */
	setupLogger()

	/*
	 * Setup a search service client
	 */
	client, err := typesense.New(typesense.Config{
		URL:     config.serverURL(),
		APIKey:  config.Server.APIKey,
		Timeout: config.Server.Timeout,
	})
	if err != nil {
		log.Fatal().Msg("Can't setup a search service client: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Server.Timeout)
	collections, err := client.Collections(ctx)
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection failed: %s\n", err.Error())
		log.Fatal().
			Str("url", config.serverURL()).
			Msg("Can't connect to the search service: " + err.Error())
	}

	log.Info().
		Str("version", version).
		Str("url", config.serverURL()).
		Int("collections", len(collections)).
		Msg("Connected")

	sh := newShell(client, os.Stdout)
	sh.refreshMetadata(collections)

	/*
	 * Non interactive mode: every argument is a command
	 */
	if len(os.Args) > 1 {
		for _, arg := range os.Args[1:] {
			if !sh.process(strings.TrimSpace(arg)) {
				break
			}
		}

		return
	}

	fmt.Printf("Connected to Typesense at %s:%s\n", config.Server.Host, config.Server.Port)

	err = sh.run()
	if err != nil {
		log.Fatal().Msg("Shell failed: " + err.Error())
	}
}
