package fs

import (
	"io"
	"os"
	"path/filepath"
)

// MoveFile moves src to dst, creating parent directories as needed, and
// marks the destination read-only. Arranged dataset files are immutable
// inputs to every later stage; the permission bit makes that stick.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		// Rename fails across filesystems; fall back to copy+remove.
		if err := copyFile(src, dst); err != nil {
			return err
		}
		if err := os.Remove(src); err != nil {
			return err
		}
	}
	return os.Chmod(dst, 0o444)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
