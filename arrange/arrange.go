// Package arrange unpacks the distributed dataset archives and rearranges
// their contents into the canonical layout: annotation JSONL under
// annotation/, HTML pages under HTML/<Category>/, plain text under
// PLAIN/<Category>/.
package arrange

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/shinra"
	shinrafs "github.com/fwojciec/shinra/fs"
	"golang.org/x/sync/errgroup"
)

// Arranger unpacks a dataset distribution into its canonical layout.
type Arranger struct {
	Layout      shinra.Layout
	Manifest    *shinra.Manifest
	Concurrency int
	Progress    shinra.ProgressFunc
}

// move is one planned file relocation out of the staging directory.
type move struct {
	src string
	dst string
}

// Arrange verifies and extracts the manifest archives into a staging
// directory inside the dataset root, extracts the zips nested within them,
// moves every recognized file into the layout, discards the staging
// directory, and validates the result. The archives are expected next to
// the dataset root's future contents, i.e. at <root>/<archive name>.
func (a *Arranger) Arrange(ctx context.Context) (err error) {
	if err := a.Manifest.Validate(); err != nil {
		return err
	}

	staging, err := shinrafs.NewStaging(a.Layout.Root)
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = staging.Abort()
		}
	}()

	if err := a.extractArchives(ctx, staging.Dir()); err != nil {
		return err
	}
	if err := a.extractNested(ctx, staging.Dir()); err != nil {
		return err
	}

	moves, err := a.planMoves(staging.Dir())
	if err != nil {
		return err
	}
	if err := a.executeMoves(ctx, moves); err != nil {
		return err
	}

	if err := staging.Commit(); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	return Validate(a.Layout)
}

// extractArchives verifies each manifest archive's md5 digest and extracts
// it into its own directory under the staging dir.
func (a *Arranger) extractArchives(ctx context.Context, stagingDir string) error {
	var (
		mu        sync.Mutex
		completed int
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency())
	for _, archive := range a.Manifest.Archives {
		g.Go(func() error {
			zipPath := filepath.Join(a.Layout.Root, archive.Name)
			digest, err := shinrafs.MD5File(zipPath)
			if err != nil {
				return fmt.Errorf("digest %s: %w", archive.Name, err)
			}
			if digest != archive.MD5 {
				return shinra.Errorf(shinra.EINVALID,
					"md5 digest mismatch for %q: actual:%s expected:%s",
					archive.Name, digest, archive.MD5)
			}
			if err := Unzip(zipPath, filepath.Join(stagingDir, archive.Name)); err != nil {
				return err
			}
			mu.Lock()
			completed++
			a.report(shinra.Progress{
				Stage:     "unzip",
				Completed: completed,
				Total:     len(a.Manifest.Archives),
			})
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// extractNested extracts zip files found inside the extracted archives.
// Each nested zip expands into a sibling directory named after it without
// the extension. Empty zip files are skipped with a warning; the 2019
// distribution contains a few.
func (a *Arranger) extractNested(ctx context.Context, stagingDir string) error {
	var nested []string
	err := filepath.WalkDir(stagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".zip") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			a.report(shinra.Progress{
				Stage:   "unzip-nested",
				Message: fmt.Sprintf("skip empty zip file: %s", path),
			})
			return nil
		}
		nested = append(nested, path)
		return nil
	})
	if err != nil {
		return err
	}

	var (
		mu        sync.Mutex
		completed int
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency())
	for _, zipPath := range nested {
		g.Go(func() error {
			if err := Unzip(zipPath, strings.TrimSuffix(zipPath, ".zip")); err != nil {
				return err
			}
			mu.Lock()
			completed++
			a.report(shinra.Progress{
				Stage:     "unzip-nested",
				Completed: completed,
				Total:     len(nested),
			})
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// planMoves walks the staging directory and decides where each file
// belongs. Annotation JSONL files move regardless of location; page files
// only move when a category directory appears somewhere on their path.
// Everything else stays behind and is discarded with the staging dir.
func (a *Arranger) planMoves(stagingDir string) ([]move, error) {
	var moves []move
	err := filepath.WalkDir(stagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		dir := filepath.Dir(path)
		var dst string
		switch {
		case strings.HasSuffix(name, ".json"):
			dst = filepath.Join(a.Layout.AnnotationDir(), name)
		case strings.HasSuffix(name, ".html"):
			if category, ok := shinra.CategoryFromPath(dir); ok {
				dst = filepath.Join(a.Layout.HTMLDir(category), name)
			}
		case strings.HasSuffix(name, ".txt"):
			if category, ok := shinra.CategoryFromPath(dir); ok {
				dst = filepath.Join(a.Layout.TextDir(category), name)
			}
		}
		if dst != "" {
			moves = append(moves, move{src: path, dst: dst})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moves, nil
}

// executeMoves relocates planned files, skipping empty ones with a warning.
func (a *Arranger) executeMoves(ctx context.Context, moves []move) error {
	var (
		mu        sync.Mutex
		completed int
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency())
	for _, m := range moves {
		g.Go(func() error {
			info, err := os.Stat(m.src)
			if err != nil {
				return err
			}
			message := ""
			if info.Size() == 0 {
				message = fmt.Sprintf("skip empty file: %s", m.src)
			} else if err := shinrafs.MoveFile(m.src, m.dst); err != nil {
				return fmt.Errorf("move %s: %w", m.src, err)
			}
			mu.Lock()
			completed++
			a.report(shinra.Progress{
				Stage:     "move",
				Completed: completed,
				Total:     len(moves),
				Message:   message,
			})
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (a *Arranger) concurrency() int {
	if a.Concurrency <= 0 {
		return 8
	}
	return a.Concurrency
}

func (a *Arranger) report(p shinra.Progress) {
	if a.Progress != nil {
		a.Progress(p)
	}
}
