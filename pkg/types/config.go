// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the content adapters.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "study-scroller/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FeedConfig holds settings for the feed assembler and its adapters.
type FeedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// SampleSize is the number of works sampled from OpenAlex (default 10).
	SampleSize int `json:"sample_size" yaml:"sample_size" mapstructure:"sample_size"`

	// DrugLimit is the number of openFDA labels requested (default 5).
	DrugLimit int `json:"drug_limit" yaml:"drug_limit" mapstructure:"drug_limit"`

	// TextLimit is the number of characters kept in a card body (default 250).
	TextLimit int `json:"text_limit" yaml:"text_limit" mapstructure:"text_limit"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
}

// LibraryBackend selects the durable key-value store behind the library.
type LibraryBackend string

const (
	BackendSQLite LibraryBackend = "sqlite"
	BackendBolt   LibraryBackend = "bolt"
)

// LibraryConfig holds settings for the library store.
type LibraryConfig struct {
	// Backend selects sqlite or bolt (default sqlite).
	Backend LibraryBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// DataDir is the directory holding the database file.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Slot is the name of the key holding the saved cards.
	Slot string `json:"slot" yaml:"slot" mapstructure:"slot"`
}

// ServerConfig holds settings for the web surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Feed    FeedConfig    `json:"feed" yaml:"feed" mapstructure:"feed"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

const (
	DefaultSampleSize = 10
	DefaultDrugLimit  = 5
	DefaultTextLimit  = 250
	DefaultSlot       = "studyScrollerLib"
	DefaultAddr       = ":8080"
)

// WithDefaults fills zero values with the documented defaults.
func (c FeedConfig) WithDefaults() FeedConfig {
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	if c.DrugLimit <= 0 {
		c.DrugLimit = DefaultDrugLimit
	}
	if c.TextLimit <= 0 {
		c.TextLimit = DefaultTextLimit
	}
	return c
}

// WithDefaults fills zero values with the documented defaults.
func (c LibraryConfig) WithDefaults() LibraryConfig {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.Slot == "" {
		c.Slot = DefaultSlot
	}
	return c
}
