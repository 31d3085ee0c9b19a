package fs

import (
	"os"
)

// Staging is a scratch directory for multi-step file rearrangement.
// Work happens inside Dir(); Commit removes the scratch space once files
// have been moved out, and Abort discards it with whatever is left inside.
type Staging struct {
	dir string
}

// NewStaging creates a scratch directory under baseDir. Placing it inside
// the dataset directory keeps moves on one filesystem so they stay renames.
func NewStaging(baseDir string) (*Staging, error) {
	dir, err := os.MkdirTemp(baseDir, "staging-")
	if err != nil {
		return nil, err
	}
	return &Staging{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Staging) Dir() string {
	return s.dir
}

// Commit removes the scratch directory. Files meant to survive must have
// been moved out before calling it.
func (s *Staging) Commit() error {
	return os.RemoveAll(s.dir)
}

// Abort discards the scratch directory and its contents.
func (s *Staging) Abort() error {
	return os.RemoveAll(s.dir)
}
