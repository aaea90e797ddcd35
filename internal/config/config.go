package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// Model is the OpenAI model used for generation, rewriting, and
	// summarization.
	Model string `json:"model"`

	// SummarizeAfter is the stored-message count above which a conversation
	// with no summary gets its older turns compressed.
	SummarizeAfter int `json:"summarize_after"`

	// KeepRecent is the number of most recent turns kept verbatim in the
	// context window. Must be lower than SummarizeAfter so a triggered
	// summarization always has at least one turn to compress.
	KeepRecent int `json:"keep_recent"`

	// MaxMessageChars caps incoming user messages. Over-length messages are
	// rejected at the boundary with a friendly redirect, never forwarded to
	// the LLM.
	MaxMessageChars int `json:"max_message_chars"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default. Set to 1 to serialize all database access.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:           "gpt-4o-mini",
		SummarizeAfter:  10,
		KeepRecent:      8,
		MaxMessageChars: 1000,
	}
}

// Load loads configuration from baseDir/config.json, merged over defaults.
// Returns default config if the file doesn't exist. The baseDir parameter
// allows tests to use t.TempDir() instead of ~/.spurchat.
func Load(baseDir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configured windowing policy is coherent.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	if c.KeepRecent < 1 {
		return errors.New("keep_recent must be >= 1")
	}
	if c.SummarizeAfter <= c.KeepRecent {
		return errors.New("summarize_after must be greater than keep_recent")
	}
	if c.MaxMessageChars < 1 {
		return errors.New("max_message_chars must be >= 1")
	}
	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
		return errors.New("db connection limits must be >= 0")
	}
	return nil
}
