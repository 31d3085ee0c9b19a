package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fwojciec/shinra"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Store.FindRuns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shinra.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No catalog runs recorded. Use 'shinra catalog --index' to record one.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "-"
		if !run.FinishedAt.IsZero() {
			finished = run.FinishedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			run.ID,
			run.DatasetDir,
			strconv.Itoa(run.Pages),
			run.StartedAt.Format(time.RFC3339),
			finished,
		})
	}
	fmt.Fprintln(deps.Stdout, renderTable(
		[]string{"ID", "Dataset", "Pages", "Started", "Finished"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}
