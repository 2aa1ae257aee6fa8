package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BigQuery.ProjectID != "test-project" {
		t.Errorf("ProjectID = %q", cfg.BigQuery.ProjectID)
	}
	if cfg.BigQuery.Dataset != "finance" || cfg.LogLevel != "info" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Watch.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v", cfg.Watch.PollInterval)
	}
	if len(cfg.Rules) == 0 {
		t.Error("default category rules missing")
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log_level: debug
bigquery:
  project_id: file-project
  dataset: custom
gcs:
  bucket: file-bucket
category_rules:
  - category: Pets
    keywords: [petco]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GCS_BUCKET", "env-bucket")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BigQuery.ProjectID != "file-project" || cfg.BigQuery.Dataset != "custom" {
		t.Errorf("file values lost: %+v", cfg.BigQuery)
	}
	if cfg.GCS.Bucket != "env-bucket" {
		t.Errorf("env override lost, Bucket = %q", cfg.GCS.Bucket)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Category != "Pets" {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
}

func TestLoadRequiresProject(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing project id")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
