package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"
)

/*
 * Structure to store all the shell settings.
 * Check "tscli.yaml.example" file for a detailed all fields description
 */
type Config struct {
	Server *ServerConfig `yaml:"server"`

	Environment  string `yaml:"environment"`
	Limit        int    `yaml:"limit"`
	Format       string `yaml:"format"`
	History      string `yaml:"history"`
	StatsWorkers int    `yaml:"statsWorkers"`

	// SQL column name -> search service field name
	ReplaceFields map[string]string `yaml:"replaceFields"`

	Log *LogConfig `yaml:"log"`
}

// Search service access
type ServerConfig struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	Protocol string        `yaml:"protocol"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	File       string        `yaml:"file"`
	MaxSize    int           `yaml:"maxSize"`
	MaxBackups int           `yaml:"maxBackups"`
	MaxAge     int           `yaml:"maxAge"`
	Level      zerolog.Level `yaml:"level"`
}

/*
 * Load configuration from a YAML file.
 *
 * Shell searches for the "./tscli.yaml" file by default,
 * however, "CONFIG" environment variable can be set to use a different file.
 * A missing default file is not an error, environment variables
 * and built-in defaults are used then
 */
func loadConfig() error {
	path := "tscli.yaml"
	explicit := false

	if os.Getenv("CONFIG") != "" {
		path = os.Getenv("CONFIG")
		explicit = true
	}

	config = &Config{}

	buffer, err := os.ReadFile(path)
	if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return fmt.Errorf("Failed to open configuration file '%s': %s", path, err.Error())
	}

	if err == nil {
		err = yaml.Unmarshal(buffer, config)
		if err != nil {
			return fmt.Errorf("Invalid configuration YAML file '%s': %s", path, err.Error())
		}
	}

	config.applyEnv()
	config.applyDefaults()

	return config.validate()
}

/*
 * Environment variables take precedence over the file
 */
func (c *Config) applyEnv() {
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}

	if v := os.Getenv("TYPESENSE_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("TYPESENSE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("TYPESENSE_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("TYPESENSE_PROTOCOL"); v != "" {
		c.Server.Protocol = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8108"
	}
	if c.Server.Protocol == "" {
		c.Server.Protocol = "http"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 2 * time.Second
	}

	if c.Format == "" {
		c.Format = "table"
	}
	if c.History == "" {
		c.History = ".tscli_history"
	}
	if c.StatsWorkers <= 0 {
		c.StatsWorkers = 4
	}

	if c.Log == nil {
		c.Log = &LogConfig{Level: zerolog.WarnLevel}
	}
}

func (c *Config) validate() error {
	if c.Server.APIKey == "" {
		return fmt.Errorf("TYPESENSE_API_KEY is not set and 'server.apiKey' is not defined")
	}

	if c.Format != "table" && c.Format != "json" {
		return fmt.Errorf("Unexpected output format: '%s', 'table' or 'json' expected", c.Format)
	}

	if c.Limit < 0 {
		return fmt.Errorf("'limit' can't be less than 0")
	}

	if c.Environment == "prod" && c.Log.File == "" {
		return fmt.Errorf("'log.file' must be defined in a production environment")
	}

	return nil
}

// Base URL of the search service
func (c *Config) serverURL() string {
	return c.Server.Protocol + "://" + c.Server.Host + ":" + c.Server.Port
}
