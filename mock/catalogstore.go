package mock

import (
	"context"

	"github.com/fwojciec/shinra"
)

var _ shinra.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is a mock implementation of shinra.CatalogStore.
type CatalogStore struct {
	BeginRunFn  func(ctx context.Context, datasetDir string) (*shinra.CatalogRun, error)
	SavePageFn  func(ctx context.Context, page *shinra.PageRecord) error
	FinishRunFn func(ctx context.Context, runID string, pages int) error
	FindRunsFn  func(ctx context.Context) ([]*shinra.CatalogRun, error)
}

func (s *CatalogStore) BeginRun(ctx context.Context, datasetDir string) (*shinra.CatalogRun, error) {
	return s.BeginRunFn(ctx, datasetDir)
}

func (s *CatalogStore) SavePage(ctx context.Context, page *shinra.PageRecord) error {
	return s.SavePageFn(ctx, page)
}

func (s *CatalogStore) FinishRun(ctx context.Context, runID string, pages int) error {
	return s.FinishRunFn(ctx, runID, pages)
}

func (s *CatalogStore) FindRuns(ctx context.Context) ([]*shinra.CatalogRun, error) {
	return s.FindRunsFn(ctx)
}
