package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-gatherer
api:
  base_url: http://localhost:9000/api/v2
  user_agent: gatherer-test/0.1
database:
  postgres:
    host: localhost
    port: 5432
    name: test_db
    user: testuser
    password: testpass
poller:
  scope: Crystal
  item_ids: [5, 7, 44162]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-gatherer" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-gatherer")
	}
	if cfg.API.BaseURL != "http://localhost:9000/api/v2" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:9000/api/v2")
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "localhost")
	}
	if cfg.Poller.Scope != "Crystal" {
		t.Errorf("Poller.Scope = %q, want %q", cfg.Poller.Scope, "Crystal")
	}
	if len(cfg.Poller.ItemIDs) != 3 || cfg.Poller.ItemIDs[2] != 44162 {
		t.Errorf("Poller.ItemIDs = %v, want [5 7 44162]", cfg.Poller.ItemIDs)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-gatherer
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Database.Postgres.Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-gatherer
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
poller:
  scope: Crystal
  item_ids: [7]
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Database.Postgres.Port = %d, want default %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Poller.Concurrency != DefaultConcurrency {
		t.Errorf("Poller.Concurrency = %d, want default %d", cfg.Poller.Concurrency, DefaultConcurrency)
	}
	if cfg.Writer.BatchSize != DefaultBatchSize {
		t.Errorf("Writer.BatchSize = %d, want default %d", cfg.Writer.BatchSize, DefaultBatchSize)
	}
}

func TestValidate(t *testing.T) {
	validDB := DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 10, MinConns: 2}

	tests := []struct {
		name    string
		cfg     GathererConfig
		wantErr string
	}{
		{
			name:    "missing instance id",
			cfg:     GathererConfig{},
			wantErr: "instance.id is required",
		},
		{
			name: "missing postgres host",
			cfg: GathererConfig{
				Instance: InstanceConfig{ID: "test"},
			},
			wantErr: "database.postgres.host is required",
		},
		{
			name: "missing scope",
			cfg: GathererConfig{
				Instance: InstanceConfig{ID: "test"},
				Database: DatabaseConfig{Postgres: validDB},
			},
			wantErr: "poller.scope is required",
		},
		{
			name: "empty item ids",
			cfg: GathererConfig{
				Instance: InstanceConfig{ID: "test"},
				Database: DatabaseConfig{Postgres: validDB},
				Poller:   PollerConfig{Scope: "Crystal"},
			},
			wantErr: "poller.item_ids must not be empty",
		},
		{
			name: "invalid item id",
			cfg: GathererConfig{
				Instance: InstanceConfig{ID: "test"},
				Database: DatabaseConfig{Postgres: validDB},
				Poller:   PollerConfig{Scope: "Crystal", ItemIDs: []int{7, 0}, Concurrency: 4},
			},
			wantErr: "poller.item_ids contains invalid id 0",
		},
		{
			name: "min_conns exceeds max_conns",
			cfg: GathererConfig{
				Instance: InstanceConfig{ID: "test"},
				Database: DatabaseConfig{
					Postgres: DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10},
				},
			},
			wantErr: "database.postgres.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name: "valid config",
			cfg: GathererConfig{
				Instance: InstanceConfig{ID: "test"},
				Database: DatabaseConfig{Postgres: validDB},
				Poller: PollerConfig{
					Scope:       "Crystal",
					ItemIDs:     []int{7},
					Concurrency: 4,
				},
				Writer: WriterConfig{
					BatchSize:     500,
					FlushInterval: time.Second,
					BufferSize:    2000,
				},
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
