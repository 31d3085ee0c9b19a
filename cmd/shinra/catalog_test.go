package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/shinra"
	main "github.com/fwojciec/shinra/cmd/shinra"
	"github.com/fwojciec/shinra/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataset writes a minimal arranged dataset with one page per category.
func writeDataset(t *testing.T) shinra.Layout {
	t.Helper()

	layout := shinra.Layout{Root: t.TempDir()}
	require.NoError(t, os.MkdirAll(layout.AnnotationDir(), 0o755))
	for _, category := range shinra.Categories() {
		require.NoError(t, os.MkdirAll(layout.HTMLDir(category), 0o755))
		require.NoError(t, os.MkdirAll(layout.TextDir(category), 0o755))
		require.NoError(t, os.WriteFile(layout.AnnotationFile(category), nil, 0o644))
		require.NoError(t, os.WriteFile(layout.HTMLFile(category, 1), []byte("<html><title>P</title></html>"), 0o644))
		require.NoError(t, os.WriteFile(layout.TextFile(category, 1), []byte("P"), 0o644))
	}
	return layout
}

func TestCatalogCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes catalogs and prints a summary table", func(t *testing.T) {
		t.Parallel()

		layout := writeDataset(t)
		deps, stdout, _ := testDeps("")
		deps.Extractor = &mock.PageInfoExtractor{
			ExtractFn: func(html string) (*shinra.PageInfo, error) {
				return &shinra.PageInfo{Title: "P"}, nil
			},
		}

		output := filepath.Join(t.TempDir(), "catalog")
		cmd := &main.CatalogCmd{Dir: layout.Root, Output: output, Concurrency: 2}

		err := cmd.Run(deps)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(output, "City_catalog.csv"))
		assert.FileExists(t, filepath.Join(output, "summary_catalog.csv"))
		assert.Contains(t, stdout.String(), "City")
		assert.Contains(t, stdout.String(), "Cataloged 35 page(s)")
	})

	t.Run("defaults the output directory into the dataset", func(t *testing.T) {
		t.Parallel()

		layout := writeDataset(t)
		deps, _, _ := testDeps("")
		deps.Extractor = &mock.PageInfoExtractor{
			ExtractFn: func(html string) (*shinra.PageInfo, error) {
				return &shinra.PageInfo{}, nil
			},
		}

		cmd := &main.CatalogCmd{Dir: layout.Root, Concurrency: 2}
		require.NoError(t, cmd.Run(deps))

		assert.FileExists(t, filepath.Join(layout.Root, "catalog", "summary_catalog.csv"))
	})

	t.Run("fails on a directory that is not arranged", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps("")
		cmd := &main.CatalogCmd{Dir: t.TempDir()}

		err := cmd.Run(deps)
		require.Error(t, err)
		assert.NotEmpty(t, stderr.String())
	})
}
