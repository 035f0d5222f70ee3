package config

import "time"

// GathererConfig is the root configuration for a gatherer instance.
type GathererConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Poller   PollerConfig   `yaml:"poller"`
	Writer   WriterConfig   `yaml:"writer"`
}

// InstanceConfig identifies this gatherer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Universalis API settings.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds the PostgreSQL connection for gathered snapshots.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds market board poller settings.
type PollerConfig struct {
	Scope        string        `yaml:"scope"`    // World, datacenter or region to poll
	ItemIDs      []int         `yaml:"item_ids"` // Items to track
	Interval     time.Duration `yaml:"interval"`
	Concurrency  int           `yaml:"concurrency"`
	ListingLimit int           `yaml:"listing_limit"`
	HistoryLimit int           `yaml:"history_limit"`
}

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}
