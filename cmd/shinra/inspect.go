package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/inspect"
)

// Run executes the inspect pages command.
func (c *InspectPagesCmd) Run(deps *Dependencies) error {
	output := c.Output
	if output == "" {
		output = filepath.Join(c.Dir, "inspection")
	}

	inspector := &inspect.PageInspector{
		Layout:      shinra.Layout{Root: c.Dir},
		OutputDir:   output,
		Concurrency: c.Concurrency,
		Progress:    deps.Progress,
	}
	summaries, err := inspector.Inspect(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shinra.ErrorMessage(err))
		return err
	}

	printInspectionSummary(deps, summaries, output)
	return nil
}

// Run executes the inspect annotations command.
func (c *InspectAnnotationsCmd) Run(deps *Dependencies) error {
	output := c.Output
	if output == "" {
		output = filepath.Join(c.Dir, "inspection")
	}

	inspector := &inspect.AnnotationInspector{
		Layout:      shinra.Layout{Root: c.Dir},
		OutputDir:   output,
		Concurrency: c.Concurrency,
		Progress:    deps.Progress,
	}
	summaries, err := inspector.Inspect(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shinra.ErrorMessage(err))
		return err
	}

	printInspectionSummary(deps, summaries, output)
	return nil
}

func printInspectionSummary(deps *Dependencies, summaries []inspect.CategorySummary, output string) {
	rows := make([][]string, 0, len(summaries))
	total := 0
	for _, s := range summaries {
		count := 0
		for _, n := range s.Counts {
			count += n
		}
		rows = append(rows, []string{s.Category, strconv.Itoa(count)})
		total += count
	}
	fmt.Fprintln(deps.Stdout, renderTable(
		[]string{"Category", "Errors"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	fmt.Fprintf(deps.Stdout, "Found %d error(s); reports written to %q\n", total, output)
}
