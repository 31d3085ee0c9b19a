package shinra

// PageInfo holds the catalog metadata extracted from a page's HTML.
type PageInfo struct {
	// Title is the page title with the Wikipedia dump suffix removed.
	Title string

	// Disambiguation reports whether the page is a disambiguation page.
	Disambiguation bool

	// InfoboxCount is the number of infobox elements on the page.
	InfoboxCount int
}

// PageInfoExtractor extracts catalog metadata from a page's HTML.
type PageInfoExtractor interface {
	Extract(html string) (*PageInfo, error)
}
