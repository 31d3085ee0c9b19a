// Package goquery extracts catalog metadata from Wikipedia dump pages.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/shinra"
)

// Ensure Extractor implements shinra.PageInfoExtractor at compile time.
var _ shinra.PageInfoExtractor = (*Extractor)(nil)

// Extractor reads page titles and structural markers from dump HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// titleSuffixRe strips the dump suffix the exporter appends to every
// <title>, e.g. "成田国際空港 - Wikipedia Dump 20190121".
var titleSuffixRe = regexp.MustCompile(`\s*-\s+Wikipedia Dump.*$`)

// CleanTitle removes the Wikipedia dump suffix from a page title.
func CleanTitle(title string) string {
	return titleSuffixRe.ReplaceAllString(title, "")
}

// Extract parses dump HTML and returns the page title, whether the page is
// a disambiguation page (#disambigbox), and its infobox count (.infobox).
func (e *Extractor) Extract(html string) (*shinra.PageInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, shinra.Errorf(shinra.EINVALID, "parse html: %s", err)
	}

	return &shinra.PageInfo{
		Title:          CleanTitle(doc.Find("title").First().Text()),
		Disambiguation: doc.Find("#disambigbox").Length() > 0,
		InfoboxCount:   doc.Find(".infobox").Length(),
	}, nil
}
