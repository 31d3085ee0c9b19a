package slog

import (
	"log/slog"

	"github.com/fwojciec/shinra"
)

// NewProgressLogger returns a ProgressFunc that logs pipeline progress.
// Stage messages, such as skipped files, log at warn level; completion of a
// stage logs at info level; everything else at debug.
func NewProgressLogger(logger *slog.Logger) shinra.ProgressFunc {
	return func(p shinra.Progress) {
		args := []any{"stage", p.Stage}
		if p.Category != "" {
			args = append(args, "category", p.Category)
		}
		if p.Total > 0 {
			args = append(args, "completed", p.Completed, "total", p.Total)
		}
		switch {
		case p.Message != "":
			logger.Warn(p.Message, args...)
		case p.Total > 0 && p.Completed == p.Total:
			logger.Info("stage complete", args...)
		default:
			logger.Debug("progress", args...)
		}
	}
}
