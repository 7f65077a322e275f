package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	sweepInterval = time.Hour
	// minUploadAge keeps files uploaded moments ago safe while their owning
	// profile or event save is still in flight.
	minUploadAge = 24 * time.Hour
)

// UploadJanitor removes files from the upload directory that no member
// profile or event references anymore.
type UploadJanitor struct {
	pool      *pgxpool.Pool
	uploadDir string
	log       zerolog.Logger
}

// NewUploadJanitor creates a new UploadJanitor.
func NewUploadJanitor(pool *pgxpool.Pool, uploadDir string, log zerolog.Logger) *UploadJanitor {
	return &UploadJanitor{
		pool:      pool,
		uploadDir: uploadDir,
		log:       log.With().Str("component", "upload_janitor").Logger(),
	}
}

// Start begins the hourly sweep loop. Call in a goroutine.
func (w *UploadJanitor) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.log.Error().Err(err).Msg("Sweep failed")
			}
		}
	}
}

func (w *UploadJanitor) sweep(ctx context.Context) error {
	referenced, err := w.referencedFilenames(ctx)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(w.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < minUploadAge {
			continue
		}

		if err := os.Remove(filepath.Join(w.uploadDir, entry.Name())); err != nil {
			w.log.Warn().Err(err).Str("file", entry.Name()).Msg("Remove failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		w.log.Info().Int("removed", removed).Msg("Unreferenced uploads removed")
	}
	return nil
}

// referencedFilenames collects every upload path stored on members (photo,
// portfolio images) and events (image), reduced to bare filenames.
func (w *UploadJanitor) referencedFilenames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := w.pool.Query(ctx,
		`SELECT photo FROM members WHERE photo IS NOT NULL
		 UNION
		 SELECT jsonb_array_elements_text(portfolio_images) FROM members
		 UNION
		 SELECT image FROM events WHERE image IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referenced := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		if name := uploadBasename(path); name != "" {
			referenced[name] = struct{}{}
		}
	}
	return referenced, rows.Err()
}

// uploadBasename extracts the filename from a stored "/uploads/<name>" path.
// Paths outside the upload mount return empty and are ignored.
func uploadBasename(path string) string {
	if !strings.HasPrefix(path, "/uploads/") {
		return ""
	}
	return strings.TrimPrefix(path, "/uploads/")
}
