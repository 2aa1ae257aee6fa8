package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/logger"
)

// Watcher polls a directory and publishes an ingestion job for every new
// statement export it finds. Files are remembered by path, so renaming a
// file re-ingests it; identical content is still deduplicated by storage.
type Watcher struct {
	Dir          string
	PollInterval time.Duration
	Publisher    Publisher

	seen map[string]bool
}

var statementExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// Run polls until the context is cancelled. The first scan publishes jobs
// for files already present in the directory.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	w.seen = make(map[string]bool)

	log.Info().Str("dir", w.Dir).Dur("poll_interval", w.PollInterval).Msg("Watching for statement files")

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.scan(ctx); err != nil {
			log.Error().Err(err).Str("dir", w.Dir).Msg("Directory scan failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Watcher) scan(ctx context.Context) error {
	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !statementExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(w.Dir, entry.Name())
		if w.seen[path] {
			continue
		}
		w.seen[path] = true

		log.Info().Str("file", path).Msg("New statement file detected")
		if err := w.Publisher.PublishIngest(ctx, &IngestJob{FilePath: path}); err != nil {
			// Forget the file so the next scan retries it.
			delete(w.seen, path)
			log.Error().Err(err).Str("file", path).Msg("Failed to enqueue statement")
		}
	}
	return nil
}
