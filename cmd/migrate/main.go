// Command migrate applies versioned SQL migrations to the BigQuery dataset.
// Applied versions are tracked in a schema_migrations table, so reruns are
// safe and only pending files execute.
package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// migrationFilePattern matches files like 0001_create_transactions.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

type migration struct {
	Version  int
	Name     string
	Filename string
	SQL      string
	Checksum string
}

type migrator struct {
	client    *bigquery.Client
	projectID string
	dataset   string
	appliedBy string
}

func main() {
	projectID := flag.String("project", os.Getenv("GOOGLE_CLOUD_PROJECT"), "GCP project ID (required)")
	dataset := flag.String("dataset", "finance", "BigQuery dataset ID")
	appliedBy := flag.String("applied-by", "migrate-cli", "Name recorded against applied migrations")
	migrationsDir := flag.String("migrations", "migrations/bigquery", "Path to migrations directory")
	flag.Parse()

	if *projectID == "" {
		log.Fatal("Error: -project flag or GOOGLE_CLOUD_PROJECT is required")
	}

	ctx := context.Background()

	client, err := bigquery.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	m := &migrator{
		client:    client,
		projectID: *projectID,
		dataset:   *dataset,
		appliedBy: *appliedBy,
	}

	log.Printf("Connected to BigQuery project %s, dataset %s", m.projectID, m.dataset)

	if err := m.ensureMigrationsTable(ctx); err != nil {
		log.Fatalf("Failed to ensure schema_migrations table: %v", err)
	}

	migrations, err := readMigrations(*migrationsDir, m.projectID, m.dataset)
	if err != nil {
		log.Fatalf("Failed to read migrations: %v", err)
	}
	log.Printf("Found %d migration files", len(migrations))

	appliedVersions, err := m.appliedVersions(ctx)
	if err != nil {
		log.Fatalf("Failed to read applied migrations: %v", err)
	}
	log.Printf("Found %d already applied migrations", len(appliedVersions))

	var appliedCount int
	for _, mig := range migrations {
		if appliedVersions[mig.Version] {
			log.Printf("  [SKIP] %04d_%s (already applied)", mig.Version, mig.Name)
			continue
		}

		log.Printf("  [RUN]  %04d_%s", mig.Version, mig.Name)
		if err := m.execute(ctx, mig.SQL); err != nil {
			log.Fatalf("Failed to execute migration %04d_%s: %v", mig.Version, mig.Name, err)
		}
		if err := m.record(ctx, mig); err != nil {
			log.Fatalf("Failed to record migration %04d_%s: %v", mig.Version, mig.Name, err)
		}
		log.Printf("  [OK]   %04d_%s", mig.Version, mig.Name)
		appliedCount++
	}

	if appliedCount == 0 {
		log.Println("No new migrations to apply. Dataset is up to date.")
	} else {
		log.Printf("Successfully applied %d migration(s)", appliedCount)
	}
}

// parseMigrationFilename splits "0007_add_embedding.sql" into its version
// and name. ok is false when the filename does not follow the convention.
func parseMigrationFilename(filename string) (version int, name string, ok bool) {
	matches := migrationFilePattern.FindStringSubmatch(filename)
	if matches == nil {
		return 0, "", false
	}
	version, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, "", false
	}
	return version, matches[2], true
}

// readMigrations loads all migration files from dir sorted by version.
// {{PROJECT_ID}} and {{DATASET_ID}} placeholders are substituted, but the
// checksum covers the raw file so moving datasets does not look like an edit.
func readMigrations(dir, projectID, dataset string) ([]migration, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		// Allow running from cmd/migrate during development.
		alt := filepath.Join("..", "..", dir)
		if _, err := os.Stat(alt); os.IsNotExist(err) {
			return nil, fmt.Errorf("migrations directory not found: %s", dir)
		}
		dir = alt
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []migration
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		version, name, ok := parseMigrationFilename(file.Name())
		if !ok {
			log.Printf("Skipping file with invalid name: %s", file.Name())
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", file.Name(), err)
		}

		sql := string(content)
		sql = strings.ReplaceAll(sql, "{{PROJECT_ID}}", projectID)
		sql = strings.ReplaceAll(sql, "{{DATASET_ID}}", dataset)

		migrations = append(migrations, migration{
			Version:  version,
			Name:     name,
			Filename: file.Name(),
			SQL:      sql,
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (m *migrator) ensureMigrationsTable(ctx context.Context) error {
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s.%s.schema_migrations`"+` (
			version     INT64 NOT NULL,
			name        STRING NOT NULL,
			applied_at  TIMESTAMP NOT NULL,
			checksum    STRING,
			applied_by  STRING
		)
	`, m.projectID, m.dataset)
	return m.execute(ctx, sql)
}

func (m *migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	sql := fmt.Sprintf(`
		SELECT version
		FROM `+"`%s.%s.schema_migrations`"+`
		ORDER BY version ASC
	`, m.projectID, m.dataset)

	it, err := m.client.Query(sql).Read(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "Not found") {
			return map[int]bool{}, nil
		}
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}

	applied := make(map[int]bool)
	for {
		var row struct {
			Version int64
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating results: %w", err)
		}
		applied[int(row.Version)] = true
	}
	return applied, nil
}

func (m *migrator) execute(ctx context.Context, sql string) error {
	job, err := m.client.Query(sql).Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}

func (m *migrator) record(ctx context.Context, mig migration) error {
	sql := fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.schema_migrations`"+`
		(version, name, applied_at, checksum, applied_by)
		VALUES (@version, @name, CURRENT_TIMESTAMP(), @checksum, @applied_by)
	`, m.projectID, m.dataset)

	query := m.client.Query(sql)
	query.Parameters = []bigquery.QueryParameter{
		{Name: "version", Value: mig.Version},
		{Name: "name", Value: mig.Name},
		{Name: "checksum", Value: mig.Checksum},
		{Name: "applied_by", Value: m.appliedBy},
	}

	job, err := query.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}
