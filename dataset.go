package shinra

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// JP5Categories are the categories of the JP-5 distribution.
var JP5Categories = []string{
	"Airport",
	"City",
	"Company",
	"Compound",
	"Person",
}

// JP30LocationCategories are the location categories of the JP-30
// distribution.
var JP30LocationCategories = []string{
	"Bay",
	"Continental_Region",
	"Country",
	"Domestic_Region",
	"GPE_Other",
	"Geological_Region_Other",
	"Island",
	"Lake",
	"Location_Other",
	"Mountain",
	"Province",
	"River",
	"Sea",
	"Spa",
}

// JP30OrganizationCategories are the organization categories of the JP-30
// distribution.
var JP30OrganizationCategories = []string{
	"Cabinet",
	"Company_Group",
	"Ethnic_Group_Other",
	"Family",
	"Government",
	"International_Organization",
	"Military",
	"Nationality",
	"Nonprofit_Organization",
	"Organization_Other",
	"Political_Organization_Other",
	"Political_Party",
	"Show_Organization",
	"Sports_Federation",
	"Sports_League",
	"Sports_Team",
}

var categorySet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range [][]string{
		JP5Categories,
		JP30LocationCategories,
		JP30OrganizationCategories,
	} {
		for _, category := range group {
			set[category] = struct{}{}
		}
	}
	return set
}()

// Categories returns every category across both distributions, sorted.
func Categories() []string {
	all := make([]string, 0, len(categorySet))
	for category := range categorySet {
		all = append(all, category)
	}
	sort.Strings(all)
	return all
}

// IsCategory reports whether name is a known dataset category.
func IsCategory(name string) bool {
	_, ok := categorySet[name]
	return ok
}

// CategoryFromPath walks a directory path from its leaf upward and returns
// the first path segment that names a category. The distribution archives
// nest page files under category-named directories at varying depths.
func CategoryFromPath(path string) (string, bool) {
	for path != "" {
		dir, base := filepath.Split(path)
		if IsCategory(base) {
			return base, true
		}
		path = strings.TrimRight(dir, "/")
	}
	return "", false
}

// PageIDFromFileName extracts the page id from a dataset file name such as
// "12345.html", "12345.txt" or "12345.json.gz".
func PageIDFromFileName(name string) (int, error) {
	base := filepath.Base(name)
	stem, _, _ := strings.Cut(base, ".")
	id, err := strconv.Atoi(stem)
	if err != nil {
		return 0, Errorf(EINVALID, "file name %q has no page id", name)
	}
	return id, nil
}

// Layout describes the arranged directory structure of a dataset:
//
//	<root>/annotation/<Category>_dist.json
//	<root>/HTML/<Category>/<pageID>.html
//	<root>/PLAIN/<Category>/<pageID>.txt
type Layout struct {
	Root string
}

// AnnotationDir returns the directory holding annotation JSONL files.
func (l Layout) AnnotationDir() string {
	return filepath.Join(l.Root, "annotation")
}

// HTMLDir returns the directory holding HTML pages for a category.
func (l Layout) HTMLDir(category string) string {
	return filepath.Join(l.Root, "HTML", category)
}

// TextDir returns the directory holding plain text pages for a category.
func (l Layout) TextDir(category string) string {
	return filepath.Join(l.Root, "PLAIN", category)
}

// AnnotationFile returns the path of a category's answer annotation file.
func (l Layout) AnnotationFile(category string) string {
	return filepath.Join(l.AnnotationDir(), category+"_dist.json")
}

// ViewAnnotationFile returns the path of a category's for-view annotation
// file. The distribution ships it alongside the answer file; arrangement
// validation requires both.
func (l Layout) ViewAnnotationFile(category string) string {
	return filepath.Join(l.AnnotationDir(), category+"_dist_for_view.json")
}

// HTMLFile returns the path of a page's HTML file.
func (l Layout) HTMLFile(category string, pageID int) string {
	return filepath.Join(l.HTMLDir(category), HTMLFileName(pageID))
}

// TextFile returns the path of a page's plain text file.
func (l Layout) TextFile(category string, pageID int) string {
	return filepath.Join(l.TextDir(category), TextFileName(pageID))
}

// HTMLFileName returns the file name of a page's HTML file.
func HTMLFileName(pageID int) string {
	return strconv.Itoa(pageID) + ".html"
}

// TextFileName returns the file name of a page's plain text file.
func TextFileName(pageID int) string {
	return strconv.Itoa(pageID) + ".txt"
}
