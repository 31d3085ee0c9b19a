// Package slog provides logging decorators for shinra services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/shinra"
)

// Ensure LoggingExtractor implements shinra.PageInfoExtractor.
var _ shinra.PageInfoExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a PageInfoExtractor with debug logging.
type LoggingExtractor struct {
	next   shinra.PageInfoExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next shinra.PageInfoExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract extracts page info, logging the outcome and duration.
func (e *LoggingExtractor) Extract(html string) (*shinra.PageInfo, error) {
	begin := time.Now()
	info, err := e.next.Extract(html)
	if err != nil {
		e.logger.Error("page info extraction failed",
			"error", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}
	title := info.Title
	if title == "" {
		title = "(untitled)"
	}
	e.logger.Debug("page info extraction",
		"title", title,
		"disambiguation", info.Disambiguation,
		"infoboxes", info.InfoboxCount,
		"duration", time.Since(begin),
	)
	return info, nil
}
