package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL       = "https://universalis.app/api/v2"
	DefaultAPITimeout    = 30 * time.Second
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 10
	DefaultMinConns      = 2
	DefaultPollInterval  = 5 * time.Minute
	DefaultConcurrency   = 4
	DefaultListingLimit  = 100
	DefaultHistoryLimit  = 25
	DefaultBatchSize     = 500
	DefaultFlushInterval = 1 * time.Second
	DefaultBufferSize    = 2000
)

func (c *GathererConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Database defaults
	db := &c.Database.Postgres
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultConcurrency
	}
	if c.Poller.ListingLimit == 0 {
		c.Poller.ListingLimit = DefaultListingLimit
	}
	if c.Poller.HistoryLimit == 0 {
		c.Poller.HistoryLimit = DefaultHistoryLimit
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}
}
