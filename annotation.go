package shinra

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LineOffset addresses a position within a page as a line number and a rune
// offset within that line. Line ids and offsets are zero-based.
type LineOffset struct {
	LineID int `json:"line_id"`
	Offset int `json:"offset"`
}

// Offset addresses an annotated span. Start is inclusive, End exclusive.
// Text, when present, is the surface form the annotator recorded for the
// span and is checked against the page content during inspection. A nil
// Text means the field was absent from the JSONL line; an empty string is
// a recorded (and checkable) surface form.
type Offset struct {
	Start LineOffset `json:"start"`
	End   LineOffset `json:"end"`
	Text  *string    `json:"text,omitempty"`
}

// Annotation is a single attribute annotation on a Wikipedia page. The id is
// the zero-based line number of the annotation within its JSONL file.
type Annotation struct {
	ID         int
	PageID     int
	Title      string
	ENE        string
	Attribute  string
	HTMLOffset Offset
	TextOffset Offset
}

// pageID unmarshals the page_id field, which appears both as a JSON string
// and as a bare number in the distributed files.
type pageID int

func (p *pageID) UnmarshalJSON(data []byte) error {
	n, err := strconv.Atoi(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("page_id %s is not an integer", data)
	}
	*p = pageID(n)
	return nil
}

// annotationJSON mirrors the distributed JSONL schema.
type annotationJSON struct {
	PageID     pageID `json:"page_id"`
	Title      string `json:"title"`
	ENE        string `json:"ene"`
	Attribute  string `json:"attribute"`
	HTMLOffset Offset `json:"html_offset"`
	TextOffset Offset `json:"text_offset"`
}

// ParseAnnotation parses a single JSONL annotation line.
func ParseAnnotation(id int, line []byte) (*Annotation, error) {
	var raw annotationJSON
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, Errorf(EINVALID, "annotation %d: %s", id, err)
	}
	return &Annotation{
		ID:         id,
		PageID:     int(raw.PageID),
		Title:      raw.Title,
		ENE:        raw.ENE,
		Attribute:  raw.Attribute,
		HTMLOffset: raw.HTMLOffset,
		TextOffset: raw.TextOffset,
	}, nil
}

// maxAnnotationLine bounds a single JSONL line; annotation lines in the 2019
// distribution stay well under 1 MiB.
const maxAnnotationLine = 1 << 20

// ReadAnnotations reads JSONL annotations and groups them by page id,
// preserving file order within each page.
func ReadAnnotations(r io.Reader) (map[int][]*Annotation, error) {
	byPage := make(map[int][]*Annotation)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxAnnotationLine)
	id := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			id++
			continue
		}
		annotation, err := ParseAnnotation(id, line)
		if err != nil {
			return nil, err
		}
		byPage[annotation.PageID] = append(byPage[annotation.PageID], annotation)
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}
	return byPage, nil
}

// ReadAnnotationFile reads a JSONL annotation file and groups annotations by
// page id.
func ReadAnnotationFile(path string) (map[int][]*Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Errorf(ENOTFOUND, "annotation file %q not found", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadAnnotations(f)
}
