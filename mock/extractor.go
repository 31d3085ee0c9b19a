package mock

import "github.com/fwojciec/shinra"

var _ shinra.PageInfoExtractor = (*PageInfoExtractor)(nil)

// PageInfoExtractor is a mock implementation of shinra.PageInfoExtractor.
type PageInfoExtractor struct {
	ExtractFn func(html string) (*shinra.PageInfo, error)
}

func (e *PageInfoExtractor) Extract(html string) (*shinra.PageInfo, error) {
	return e.ExtractFn(html)
}
