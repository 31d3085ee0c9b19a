package shinra

import (
	"context"
	"time"
)

// CatalogRun records one catalog build over a dataset directory.
type CatalogRun struct {
	ID         string    `json:"id"`
	DatasetDir string    `json:"datasetDir"`
	Pages      int       `json:"pages"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// PageRecord is one cataloged page as persisted in the page index.
type PageRecord struct {
	RunID          string `json:"runId"`
	Category       string `json:"category"`
	PageID         int    `json:"pageId"`
	Title          string `json:"title"`
	HTMLFileSize   int64  `json:"htmlFileSize"`
	TextFileSize   int64  `json:"textFileSize"`
	Disambiguation bool   `json:"disambiguation"`
	InfoboxCount   int    `json:"infoboxCount"`
	Annotations    int    `json:"annotations"`
	ContentHash    string `json:"contentHash"`
}

// Validate returns an error if the record contains invalid fields.
func (r *PageRecord) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "page record run ID required")
	}
	if !IsCategory(r.Category) {
		return Errorf(EINVALID, "page record category %q unknown", r.Category)
	}
	return nil
}

// CatalogStore persists catalog runs and page records for ad-hoc querying.
// The CSV catalogs remain the primary artifact; the store is an optional
// queryable index built alongside them.
type CatalogStore interface {
	// BeginRun starts a new catalog run and returns it with its ID set.
	BeginRun(ctx context.Context, datasetDir string) (*CatalogRun, error)

	// SavePage persists one page record.
	SavePage(ctx context.Context, rec *PageRecord) error

	// FinishRun marks a run complete with its final page count.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, runID string, pages int) error

	// FindRuns retrieves all recorded runs, newest first.
	FindRuns(ctx context.Context) ([]*CatalogRun, error)
}
