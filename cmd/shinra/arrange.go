package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/arrange"
	"github.com/fwojciec/shinra/toml"
)

// Run executes the arrange command.
func (c *ArrangeCmd) Run(deps *Dependencies) error {
	manifest := shinra.DefaultManifest()
	if c.Manifest != "" {
		loaded, err := toml.LoadManifest(c.Manifest)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", shinra.ErrorMessage(err))
			return err
		}
		manifest = loaded
	}

	if !c.Yes {
		fmt.Fprintf(deps.Stdout, "Unpack %d archive(s) into %q? [y/N]: ", len(manifest.Archives), c.Dir)
		if !confirmed(deps.Stdin) {
			fmt.Fprintln(deps.Stdout, "Aborted.")
			return nil
		}
	}

	arranger := &arrange.Arranger{
		Layout:      shinra.Layout{Root: c.Dir},
		Manifest:    manifest,
		Concurrency: c.Concurrency,
		Progress:    deps.Progress,
	}
	if err := arranger.Arrange(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", shinra.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Arranged dataset in %q\n", c.Dir)
	return nil
}

// confirmed reads one line and accepts "y" or "yes", case-insensitively.
func confirmed(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
