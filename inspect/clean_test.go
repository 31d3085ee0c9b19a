package inspect_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTML(t *testing.T) {
	t.Parallel()

	raw := "<!DOCTYPE html>\n" +
		"<html>\n" +
		"<head><script>var x = 1;</script><title>T</title></head>\n" +
		"<body>hello <b>world</b><!-- note --></body>\n" +
		"</html>\n"

	cleaned, err := inspect.CleanHTML(raw)
	require.NoError(t, err)

	// Cleaning preserves length and line structure.
	assert.Equal(t, utf8.RuneCountInString(raw), utf8.RuneCountInString(cleaned))
	assert.Equal(t, strings.Count(raw, "\n"), strings.Count(cleaned, "\n"))

	// Text survives at its original position.
	assert.Equal(t, strings.Index(raw, "hello"), strings.Index(cleaned, "hello"))
	assert.Contains(t, cleaned, "world")
	assert.Contains(t, cleaned, "T")

	// Markup, comments, declarations and script bodies are blanked.
	assert.NotContains(t, cleaned, "DOCTYPE")
	assert.NotContains(t, cleaned, "script")
	assert.NotContains(t, cleaned, "var x")
	assert.NotContains(t, cleaned, "note")
	assert.NotContains(t, cleaned, "<")
}

func TestCleanHTML_MultibyteRunes(t *testing.T) {
	t.Parallel()

	raw := `<a href="東京">東京タワー</a>です`

	cleaned, err := inspect.CleanHTML(raw)
	require.NoError(t, err)

	// Blanking is rune for rune, not byte for byte.
	assert.Equal(t, utf8.RuneCountInString(raw), utf8.RuneCountInString(cleaned))
	assert.Contains(t, cleaned, "東京タワー")
	assert.Contains(t, cleaned, "です")
	assert.NotContains(t, cleaned, "href")
}

func TestCleanHTML_KeepsEntityReferences(t *testing.T) {
	t.Parallel()

	cleaned, err := inspect.CleanHTML("a&amp;b &lt;c&gt;")
	require.NoError(t, err)
	assert.Equal(t, "a&amp;b &lt;c&gt;", cleaned)
}

func TestCleanContent(t *testing.T) {
	t.Parallel()

	content := shinra.NewContent("<p>\nab\n</p>\n")

	cleaned, err := inspect.CleanContent(content)
	require.NoError(t, err)

	assert.Equal(t, content.Len(), cleaned.Len())
	assert.Equal(t, "   \nab\n    \n", cleaned.Raw())
	assert.Equal(t, "ab", cleaned.Text(
		shinra.LineOffset{LineID: 1, Offset: 0},
		shinra.LineOffset{LineID: 1, Offset: 2},
	))
}
