package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/shinra"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Progress  shinra.ProgressFunc
	Extractor shinra.PageInfoExtractor
	Store     shinra.CatalogStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Arrange ArrangeCmd `cmd:"" help:"Unpack the distribution archives into the canonical layout"`
	Catalog CatalogCmd `cmd:"" help:"Build CSV catalogs of an arranged dataset"`
	Inspect InspectCmd `cmd:"" help:"Report anomalies in pages and annotations"`
	Runs    RunsCmd    `cmd:"" help:"List recorded catalog runs from the page index"`
}

// ArrangeCmd is the "arrange" subcommand.
type ArrangeCmd struct {
	Dir         string `arg:"" help:"Dataset directory containing the distribution archives"`
	Manifest    string `short:"m" help:"TOML manifest overriding the built-in archive list"`
	Yes         bool   `short:"y" help:"Skip the confirmation prompt"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent extraction limit"`
}

// CatalogCmd is the "catalog" subcommand.
type CatalogCmd struct {
	Dir         string `arg:"" help:"Arranged dataset directory"`
	Output      string `short:"o" help:"Output directory (default <dir>/catalog)"`
	Index       bool   `help:"Also persist pages to the SQLite page index"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent page limit"`
}

// InspectCmd groups the inspection subcommands.
type InspectCmd struct {
	Pages       InspectPagesCmd       `cmd:"" help:"Check pages for markup anomalies"`
	Annotations InspectAnnotationsCmd `cmd:"" help:"Cross-check annotations against page content"`
}

// InspectPagesCmd is the "inspect pages" subcommand.
type InspectPagesCmd struct {
	Dir         string `arg:"" help:"Arranged dataset directory"`
	Output      string `short:"o" help:"Output directory (default <dir>/inspection)"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent page limit"`
}

// InspectAnnotationsCmd is the "inspect annotations" subcommand.
type InspectAnnotationsCmd struct {
	Dir         string `arg:"" help:"Arranged dataset directory"`
	Output      string `short:"o" help:"Output directory (default <dir>/inspection)"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent page limit"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct{}
