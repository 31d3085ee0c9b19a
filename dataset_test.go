package shinra_test

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/shinra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	t.Parallel()

	all := shinra.Categories()

	assert.Len(t, all, 35)
	assert.IsIncreasing(t, all)
	assert.Contains(t, all, "Airport")
	assert.Contains(t, all, "Spa")
	assert.Contains(t, all, "Sports_Team")
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, shinra.IsCategory("Person"))
	assert.True(t, shinra.IsCategory("Political_Party"))
	assert.False(t, shinra.IsCategory("person"))
	assert.False(t, shinra.IsCategory("Unknown"))
}

func TestPageIDFromFileName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"12345.html",
		"12345.txt",
		"12345.json.gz",
		"/tmp/12345.html",
		"/tmp/12345.json.gz",
	} {
		id, err := shinra.PageIDFromFileName(name)
		require.NoError(t, err, name)
		assert.Equal(t, 12345, id, name)
	}

	_, err := shinra.PageIDFromFileName("notanid.html")
	assert.Equal(t, shinra.EINVALID, shinra.ErrorCode(err))
}

func TestCategoryFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		category string
		ok       bool
	}{
		{"", "", false},
		{"/tmp/Airport", "Airport", true},
		{"/tmp/Unknown", "", false},
		{"/tmp/Airport/HTML", "Airport", true},
		{"/tmp/Unknown/HTML", "", false},
		{"tmp/Airport", "Airport", true},
		{"tmp/Airport/HTML", "Airport", true},
		{"tmp/Unknown/HTML", "", false},
	}
	for _, tt := range tests {
		category, ok := shinra.CategoryFromPath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.category, category, tt.path)
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	layout := shinra.Layout{Root: "/data/shinra"}

	assert.Equal(t, filepath.Join("/data/shinra", "annotation"), layout.AnnotationDir())
	assert.Equal(t, filepath.Join("/data/shinra", "HTML", "City"), layout.HTMLDir("City"))
	assert.Equal(t, filepath.Join("/data/shinra", "PLAIN", "City"), layout.TextDir("City"))
	assert.Equal(t, filepath.Join("/data/shinra", "annotation", "City_dist.json"), layout.AnnotationFile("City"))
	assert.Equal(t, filepath.Join("/data/shinra", "annotation", "City_dist_for_view.json"), layout.ViewAnnotationFile("City"))
	assert.Equal(t, filepath.Join("/data/shinra", "HTML", "City", "42.html"), layout.HTMLFile("City", 42))
	assert.Equal(t, filepath.Join("/data/shinra", "PLAIN", "City", "42.txt"), layout.TextFile("City", 42))
}
