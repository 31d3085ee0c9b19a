// Package inspect produces CSV reports flagging anomalies in dataset pages
// and annotations.
package inspect

import (
	"io"
	"strings"

	"github.com/fwojciec/shinra"
	"golang.org/x/net/html"
)

// CleanHTML blanks out markup from raw HTML while preserving its shape:
// declarations, comments, start/end/self-closing tags and script bodies are
// replaced character-for-character with spaces. Newlines are kept, so the
// cleaned string has the same length and line structure as the input and
// annotation offsets remain valid against it. Character and entity
// references are left untouched.
func CleanHTML(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	z := html.NewTokenizer(strings.NewReader(raw))
	scriptDepth := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				break
			}
			return "", shinra.Errorf(shinra.EINVALID, "clean html: %s", z.Err())
		}
		token := string(z.Raw())
		switch tt {
		case html.TextToken:
			if scriptDepth > 0 {
				b.WriteString(blank(token))
			} else {
				b.WriteString(token)
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if tt == html.StartTagToken && string(name) == "script" {
				scriptDepth++
			}
			if tt == html.EndTagToken && string(name) == "script" && scriptDepth > 0 {
				scriptDepth--
			}
			b.WriteString(blank(token))
		case html.CommentToken, html.DoctypeToken:
			b.WriteString(blank(token))
		}
	}
	return b.String(), nil
}

// CleanContent cleans a page and re-indexes the result.
func CleanContent(c *shinra.Content) (*shinra.Content, error) {
	cleaned, err := CleanHTML(c.Raw())
	if err != nil {
		return nil, err
	}
	return shinra.NewContent(cleaned), nil
}

// blank replaces every character with a space, keeping newlines so line
// offsets survive.
func blank(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r != '\n' {
			runes[i] = ' '
		}
	}
	return string(runes)
}
