package arrange

import (
	"os"

	"github.com/fwojciec/shinra"
)

// Validate checks an arranged dataset layout: every category must have both
// annotation files, and its HTML and PLAIN directories must hold the same
// non-empty, duplicate-free set of page ids.
func Validate(layout shinra.Layout) error {
	for _, category := range shinra.Categories() {
		for _, path := range []string{
			layout.AnnotationFile(category),
			layout.ViewAnnotationFile(category),
		} {
			if _, err := os.Stat(path); err != nil {
				return shinra.Errorf(shinra.ENOTFOUND, "annotation file missing: %s", path)
			}
		}

		htmlIDs, err := pageIDSet(layout.HTMLDir(category))
		if err != nil {
			return err
		}
		textIDs, err := pageIDSet(layout.TextDir(category))
		if err != nil {
			return err
		}
		if len(htmlIDs) == 0 {
			return shinra.Errorf(shinra.EINVALID, "category %s has no HTML pages", category)
		}
		if len(textIDs) == 0 {
			return shinra.Errorf(shinra.EINVALID, "category %s has no plain text pages", category)
		}
		for id := range htmlIDs {
			if _, ok := textIDs[id]; !ok {
				return shinra.Errorf(shinra.EINVALID,
					"category %s: page %d has HTML but no plain text", category, id)
			}
		}
		for id := range textIDs {
			if _, ok := htmlIDs[id]; !ok {
				return shinra.Errorf(shinra.EINVALID,
					"category %s: page %d has plain text but no HTML", category, id)
			}
		}
	}
	return nil
}

// pageIDSet reads the page ids in a directory, rejecting duplicates such as
// "1.html" next to "1.html.gz".
func pageIDSet(dir string) (map[int]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shinra.Errorf(shinra.ENOTFOUND, "page directory missing: %s", dir)
		}
		return nil, err
	}
	ids := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, err := shinra.PageIDFromFileName(entry.Name())
		if err != nil {
			return nil, err
		}
		if _, ok := ids[id]; ok {
			return nil, shinra.Errorf(shinra.ECONFLICT, "duplicate page id %d in %s", id, dir)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}
