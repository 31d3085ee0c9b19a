package inspect_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeInspectionLayout writes an arranged dataset with one clean page per
// category and empty annotation files.
func writeInspectionLayout(t *testing.T) shinra.Layout {
	t.Helper()

	layout := shinra.Layout{Root: t.TempDir()}
	require.NoError(t, os.MkdirAll(layout.AnnotationDir(), 0o755))
	for _, category := range shinra.Categories() {
		require.NoError(t, os.MkdirAll(layout.HTMLDir(category), 0o755))
		require.NoError(t, os.MkdirAll(layout.TextDir(category), 0o755))
		require.NoError(t, os.WriteFile(layout.AnnotationFile(category), nil, 0o644))
		require.NoError(t, os.WriteFile(layout.HTMLFile(category, 1), []byte("<html><body>Page</body></html>\n"), 0o644))
		require.NoError(t, os.WriteFile(layout.TextFile(category, 1), []byte("Page\n"), 0o644))
	}
	return layout
}

// annotationLine builds one JSONL annotation whose HTML and text offsets
// both cover a single-line span.
func annotationLine(pageID, attribute string, start, end int, text string) string {
	offset := `{"start":{"line_id":0,"offset":` + strconv.Itoa(start) + `},` +
		`"end":{"line_id":0,"offset":` + strconv.Itoa(end) + `},` +
		`"text":"` + text + `"}`
	return `{"page_id":"` + pageID + `","attribute":"` + attribute + `",` +
		`"html_offset":` + offset + `,"text_offset":` + offset + `}` + "\n"
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestInspectPage(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "1.html")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("accepts a clean page", func(t *testing.T) {
		t.Parallel()

		path := write(t, "<html><body>hello &lt;world&gt;</body></html>\n")
		assert.Empty(t, inspect.InspectPage(path, 1))
	})

	t.Run("reports an unescaped reserved character", func(t *testing.T) {
		t.Parallel()

		path := write(t, "<html><body>A < B</body></html>\n")
		errors := inspect.InspectPage(path, 1)
		require.Len(t, errors, 1)
		assert.Equal(t, inspect.UnescapedReservedCharacter, errors[0].Type)
		assert.Equal(t, "Contains html reserved character: <,>", errors[0].Detail)
	})

	t.Run("reports a missing file", func(t *testing.T) {
		t.Parallel()

		errors := inspect.InspectPage(filepath.Join(t.TempDir(), "1.html"), 1)
		require.Len(t, errors, 1)
		assert.Equal(t, inspect.CleanHTMLError, errors[0].Type)
	})
}

func TestPageInspector_Inspect(t *testing.T) {
	t.Parallel()

	layout := writeInspectionLayout(t)
	require.NoError(t, os.WriteFile(layout.HTMLFile("City", 2), []byte("<html><body>A < B</body></html>\n"), 0o644))
	require.NoError(t, os.WriteFile(layout.TextFile("City", 2), []byte("A < B\n"), 0o644))
	require.NoError(t, os.Remove(layout.HTMLFile("Lake", 1)))

	outputDir := filepath.Join(t.TempDir(), "reports")
	inspector := &inspect.PageInspector{Layout: layout, OutputDir: outputDir, Concurrency: 4}

	summaries, err := inspector.Inspect(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, len(shinra.Categories()))

	var city, lake inspect.CategorySummary
	for _, summary := range summaries {
		switch summary.Category {
		case "City":
			city = summary
		case "Lake":
			lake = summary
		}
	}
	assert.Equal(t, 1, city.Counts[inspect.UnescapedReservedCharacter])
	// Lake's page 1 still has a plain text file, so the page is inspected
	// and its missing HTML file reported.
	assert.Equal(t, 1, lake.Counts[inspect.CleanHTMLError])

	rows := readCSV(t, filepath.Join(outputDir, "City_page_inspection.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"error_type", "page_id", "error_detail"}, rows[0])
	assert.Equal(t, []string{"WITH_HTML_UNESCAPED_RESERVED_CHARACTER", "2", "Contains html reserved character: <,>"}, rows[1])

	summaryRows := readCSV(t, filepath.Join(outputDir, "summary_page_inspection.csv"))
	require.Len(t, summaryRows, len(shinra.Categories())+1)
	assert.Equal(t, []string{"category", "CLEAN_HTML_ERROR", "WITH_HTML_UNESCAPED_RESERVED_CHARACTER"}, summaryRows[0])
}
