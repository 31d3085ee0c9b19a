package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/catalog"
)

// Run executes the catalog command.
func (c *CatalogCmd) Run(deps *Dependencies) error {
	output := c.Output
	if output == "" {
		output = filepath.Join(c.Dir, "catalog")
	}

	builder := &catalog.Builder{
		Layout:      shinra.Layout{Root: c.Dir},
		OutputDir:   output,
		Extractor:   deps.Extractor,
		Store:       deps.Store,
		Concurrency: c.Concurrency,
		Progress:    deps.Progress,
	}

	summaries, err := builder.Build(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shinra.ErrorMessage(err))
		return err
	}

	rows := make([][]string, 0, len(summaries))
	pages := 0
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Category,
			strconv.Itoa(s.Pages),
			strconv.Itoa(s.PagesWithAnnotation),
			strconv.Itoa(s.TotalAnnotations),
			strconv.Itoa(s.AttributeTypes),
		})
		pages += s.Pages
	}
	fmt.Fprintln(deps.Stdout, renderTable(
		[]string{"Category", "Pages", "Annotated", "Annotations", "Attributes"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(deps.Stdout, "Cataloged %d page(s) into %q\n", pages, output)
	return nil
}
