// Package config loads application configuration from an optional YAML file
// with environment variable overrides. Every field has a usable default so
// the binaries run with no config file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dvloznov/financial-analyzer/internal/analytics"
)

// BigQueryConfig identifies the dataset holding transactions and audit tables.
type BigQueryConfig struct {
	ProjectID string `yaml:"project_id"`
	Dataset   string `yaml:"dataset"`
	Location  string `yaml:"location"`
}

// GCSConfig identifies the bucket statement exports are uploaded to.
type GCSConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// EmbeddingConfig selects the embedding model. Disabled skips embedding
// during ingestion, which also disables semantic search over new records.
type EmbeddingConfig struct {
	Model    string `yaml:"model"`
	Disabled bool   `yaml:"disabled"`
}

// NotionConfig holds the integration token and target database for the
// Notion export. Both empty disables the export.
type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
}

// WatchConfig controls folder-watch ingestion mode.
type WatchConfig struct {
	Dir          string        `yaml:"dir"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Config is the root configuration shared by all binaries.
type Config struct {
	LogLevel  string           `yaml:"log_level"`
	BigQuery  BigQueryConfig   `yaml:"bigquery"`
	GCS       GCSConfig        `yaml:"gcs"`
	Embedding EmbeddingConfig  `yaml:"embedding"`
	Notion    NotionConfig     `yaml:"notion"`
	Watch     WatchConfig      `yaml:"watch"`
	Rules     []analytics.Rule `yaml:"category_rules"`
}

// Load reads the YAML file at path, fills in defaults and applies
// environment overrides. An empty path skips the file and returns the
// default configuration with overrides applied.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("Load: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("Load: parse config: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if cfg.BigQuery.ProjectID == "" {
		return nil, fmt.Errorf("Load: bigquery.project_id is required (or set GOOGLE_CLOUD_PROJECT)")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.BigQuery.Dataset == "" {
		cfg.BigQuery.Dataset = "finance"
	}
	if cfg.BigQuery.Location == "" {
		cfg.BigQuery.Location = "EU"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "gemini-embedding-001"
	}
	if cfg.Watch.Dir == "" {
		cfg.Watch.Dir = "./statements"
	}
	if cfg.Watch.PollInterval == 0 {
		cfg.Watch.PollInterval = 30 * time.Second
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = analytics.DefaultRules()
	}
}

func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"GOOGLE_CLOUD_PROJECT": &cfg.BigQuery.ProjectID,
		"BQ_DATASET":           &cfg.BigQuery.Dataset,
		"GCS_BUCKET":           &cfg.GCS.Bucket,
		"NOTION_TOKEN":         &cfg.Notion.Token,
		"NOTION_DATABASE_ID":   &cfg.Notion.DatabaseID,
		"LOG_LEVEL":            &cfg.LogLevel,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}
