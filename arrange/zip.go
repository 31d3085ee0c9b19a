package arrange

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/shinra"
)

// Unzip extracts a zip archive into destDir. Entry paths are confined to
// destDir; an entry that would escape it fails the extraction.
func Unzip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return shinra.Errorf(shinra.EINVALID, "open zip %q: %s", zipPath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for _, f := range r.File {
		if err := extractEntry(f, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir string) error {
	path, err := safeJoin(destDir, f.Name)
	if err != nil {
		return err
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(path, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin joins an archive entry name onto destDir, rejecting entries that
// would resolve outside of it (zip slip).
func safeJoin(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", shinra.Errorf(shinra.EINVALID, "zip entry %q has an absolute path", name)
	}
	path := filepath.Join(destDir, filepath.FromSlash(name))
	if path != destDir && !strings.HasPrefix(path, destDir+string(os.PathSeparator)) {
		return "", shinra.Errorf(shinra.EINVALID, "zip entry %q escapes the extraction directory", name)
	}
	return path, nil
}
