package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/shinra"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ shinra.CatalogStore = (*PageIndexService)(nil)

// PageIndexService implements shinra.CatalogStore using SQLite.
type PageIndexService struct {
	db *DB
}

// NewPageIndexService creates a new PageIndexService.
func NewPageIndexService(db *DB) *PageIndexService {
	return &PageIndexService{db: db}
}

// BeginRun starts a new catalog run.
func (s *PageIndexService) BeginRun(ctx context.Context, datasetDir string) (*shinra.CatalogRun, error) {
	run := &shinra.CatalogRun{
		ID:         uuid.New().String(),
		DatasetDir: datasetDir,
		StartedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_runs (id, dataset_dir, pages, started_at)
		VALUES (?, ?, 0, ?)
	`, run.ID, run.DatasetDir, run.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return run, nil
}

// SavePage persists one page record. Saving the same page twice within a run
// replaces the earlier record.
func (s *PageIndexService) SavePage(ctx context.Context, rec *shinra.PageRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO pages
			(run_id, category, page_id, title, html_file_size, text_file_size,
			 is_disambiguation, infobox_count, annotations, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.Category, rec.PageID, rec.Title, rec.HTMLFileSize, rec.TextFileSize,
		rec.Disambiguation, rec.InfoboxCount, rec.Annotations, rec.ContentHash)

	return err
}

// FinishRun marks a run complete with its final page count.
func (s *PageIndexService) FinishRun(ctx context.Context, runID string, pages int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE catalog_runs
		SET pages = ?, finished_at = ?
		WHERE id = ?
	`, pages, time.Now().UTC().Format(time.RFC3339), runID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return shinra.Errorf(shinra.ENOTFOUND, "catalog run not found")
	}

	return nil
}

// FindRuns retrieves all recorded runs, newest first.
func (s *PageIndexService) FindRuns(ctx context.Context) ([]*shinra.CatalogRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_dir, pages, started_at, finished_at
		FROM catalog_runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*shinra.CatalogRun
	for rows.Next() {
		var run shinra.CatalogRun
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.DatasetDir, &run.Pages, &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		run.StartedAt, err = parseRFC3339(startedAt, "started_at")
		if err != nil {
			return nil, err
		}
		if finishedAt != "" {
			run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at")
			if err != nil {
				return nil, err
			}
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindRunByID retrieves a run by ID.
func (s *PageIndexService) FindRunByID(ctx context.Context, id string) (*shinra.CatalogRun, error) {
	var run shinra.CatalogRun
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, dataset_dir, pages, started_at, finished_at
		FROM catalog_runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.DatasetDir, &run.Pages, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, shinra.Errorf(shinra.ENOTFOUND, "catalog run not found")
	}
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = parseRFC3339(startedAt, "started_at")
	if err != nil {
		return nil, err
	}
	if finishedAt != "" {
		run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at")
		if err != nil {
			return nil, err
		}
	}

	return &run, nil
}

// CountPagesByCategory returns the number of indexed pages per category for
// one run.
func (s *PageIndexService) CountPagesByCategory(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM pages
		WHERE run_id = ?
		GROUP BY category
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}

	return counts, rows.Err()
}
