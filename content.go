package shinra

import (
	"os"
	"sort"
	"strings"
)

// Content is an offset-addressable page body. Annotation offsets count
// characters (runes), not bytes, so the content is indexed as runes.
//
// Lines are split on '\n' only. Unicode line separators such as U+2028 and
// U+2029 occur in page bodies and must not start a new line, because the
// annotation offsets were computed without treating them as line breaks.
type Content struct {
	runes       []rune
	lineOffsets []int
}

// NewContent indexes raw page content.
func NewContent(raw string) *Content {
	c := &Content{runes: []rune(raw)}
	offset := 0
	for _, line := range strings.Split(raw, "\n") {
		c.lineOffsets = append(c.lineOffsets, offset)
		offset += len([]rune(line)) + 1 // +1 for '\n'
	}
	c.lineOffsets = append(c.lineOffsets, offset)
	return c
}

// ContentFromFile reads a file and indexes its content.
func ContentFromFile(path string) (*Content, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Errorf(ENOTFOUND, "content file %q not found", path)
		}
		return nil, err
	}
	return NewContent(string(raw)), nil
}

// Raw returns the content as a string.
func (c *Content) Raw() string {
	return string(c.runes)
}

// Len returns the content length in runes.
func (c *Content) Len() int {
	return len(c.runes)
}

// CharOffset converts a line position to an absolute rune offset.
func (c *Content) CharOffset(pos LineOffset) int {
	return c.lineOffsets[pos.LineID] + pos.Offset
}

// LineOffset converts an absolute rune offset back to a line position.
func (c *Content) LineOffset(charOffset int) LineOffset {
	i := sort.SearchInts(c.lineOffsets, charOffset+1)
	lineID := i - 1
	return LineOffset{
		LineID: lineID,
		Offset: charOffset - c.lineOffsets[lineID],
	}
}

// LastLineOffset returns the position one past the final rune.
func (c *Content) LastLineOffset() LineOffset {
	return c.LineOffset(len(c.runes))
}

// Text returns the span between two line positions. Start is inclusive and
// end exclusive, matching the annotation offset convention.
func (c *Content) Text(start, end LineOffset) string {
	return c.TextByCharOffset(c.CharOffset(start), c.CharOffset(end))
}

// TextByCharOffset returns the span between two absolute rune offsets.
// Start is inclusive and end exclusive. Offsets are clamped to the content
// bounds, so a span recorded past the end of the page yields its truncated
// text; inspection reports the resulting mismatch.
func (c *Content) TextByCharOffset(start, end int) string {
	start = min(max(start, 0), len(c.runes))
	end = min(max(end, 0), len(c.runes))
	if start >= end {
		return ""
	}
	return string(c.runes[start:end])
}
