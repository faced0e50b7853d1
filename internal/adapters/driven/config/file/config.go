// Package file loads the dbfeed TOML configuration.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
)

// Config is the TOML configuration file shape.
type Config struct {
	Connector ConnectorSection `toml:"connector"`
	Database  DatabaseSection  `toml:"database"`
	Feed      FeedSection      `toml:"feed"`
	Output    OutputSection    `toml:"output"`
	Traversal TraversalSection `toml:"traversal"`
}

// ConnectorSection names the connector.
type ConnectorSection struct {
	Name string `toml:"name"`
}

// DatabaseSection configures the source database and the traversal
// query.
type DatabaseSection struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
	Query  string `toml:"query"`
}

// FeedSection configures how rows become documents.
type FeedSection struct {
	Mode               string   `toml:"mode"`
	PrimaryKey         []string `toml:"primary_key"`
	SkipColumns        []string `toml:"skip_columns"`
	LastModifiedColumn string   `toml:"last_modified_column"`
	URLColumn          string   `toml:"url_column"`
	DocIDColumn        string   `toml:"docid_column"`
	BaseURL            string   `toml:"base_url"`
	LobColumn          string   `toml:"lob_column"`
	MIMETypeOverride   string   `toml:"mime_type_override"`
	MaxContentBytes    int64    `toml:"max_content_bytes"`
}

// OutputSection configures the feed spool and snapshot storage.
type OutputSection struct {
	FeedPath string `toml:"feed_path"`
	DataDir  string `toml:"data_dir"`
}

// TraversalSection tunes the traversal pass.
type TraversalSection struct {
	RowsPerSecond float64 `toml:"rows_per_second"`
}

// DefaultPath returns the default configuration location,
// ~/.dbfeed/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".dbfeed", "config.toml"), nil
}

// Load reads and parses a configuration file, applying defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Output.FeedPath == "" {
		cfg.Output.FeedPath = "dbfeed.jsonl"
	}
	return &cfg, nil
}

// ConnectorConfig maps the file shape onto the domain configuration.
// Mode strings are matched case-insensitively; unknown modes pass
// through so the factory's fallback can log and normalize them.
func (c *Config) ConnectorConfig() domain.ConnectorConfig {
	return domain.ConnectorConfig{
		Name:               c.Connector.Name,
		PrimaryKey:         c.Feed.PrimaryKey,
		SkipColumns:        c.Feed.SkipColumns,
		LastModifiedColumn: c.Feed.LastModifiedColumn,
		Mode:               domain.FeedMode(strings.ToLower(c.Feed.Mode)),
		URLColumn:          c.Feed.URLColumn,
		DocIDColumn:        c.Feed.DocIDColumn,
		BaseURL:            c.Feed.BaseURL,
		LobColumn:          c.Feed.LobColumn,
		MIMETypeOverride:   c.Feed.MIMETypeOverride,
		MaxContentBytes:    c.Feed.MaxContentBytes,
	}
}
