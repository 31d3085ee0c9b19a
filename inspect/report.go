package inspect

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

// ErrorType names a kind of anomaly found during inspection.
type ErrorType string

// Page inspection error types.
const (
	// CleanHTMLError means markup cleaning failed or changed the content
	// length.
	CleanHTMLError ErrorType = "CLEAN_HTML_ERROR"

	// UnescapedReservedCharacter means the page text contains a bare < or >
	// outside of markup.
	UnescapedReservedCharacter ErrorType = "WITH_HTML_UNESCAPED_RESERVED_CHARACTER"
)

// Annotation inspection error types.
const (
	HTMLFileNotFound         ErrorType = "HTML_FILE_NOT_FOUND"
	HTMLOffsetMismatch       ErrorType = "HTML_OFFSET_MISMATCH"
	HTMLLeadingTrailingSpace ErrorType = "HTML_LEADING_OR_TRAILING_SPACE"
	HTMLWithBlockTag         ErrorType = "HTML_WITH_BLOCK_TAG"
	HTMLInvisibleText        ErrorType = "HTML_INVISIBLE_TEXT"
	HTMLUnpairedBraces       ErrorType = "HTML_UNPAIRED_BRACES"
	HTMLOverlappedAnnotation ErrorType = "HTML_OVERLAPPED_ANNOTATIONS"
	TextFileNotFound         ErrorType = "TEXT_FILE_NOT_FOUND"
	TextOffsetMismatch       ErrorType = "TEXT_OFFSET_MISMATCH"
	TextLeadingTrailingSpace ErrorType = "TEXT_LEADING_OR_TRAILING_SPACE"
	TextUnpairedBraces       ErrorType = "TEXT_UNPAIRED_BRACES"
	TextOverlappedAnnotation ErrorType = "TEXT_OVERLAPPED_ANNOTATIONS"
)

// PageErrorTypes lists page inspection error types in report column order.
var PageErrorTypes = []ErrorType{
	CleanHTMLError,
	UnescapedReservedCharacter,
}

// AnnotationErrorTypes lists annotation inspection error types in report
// column order.
var AnnotationErrorTypes = []ErrorType{
	HTMLFileNotFound,
	HTMLOffsetMismatch,
	HTMLLeadingTrailingSpace,
	HTMLWithBlockTag,
	HTMLInvisibleText,
	HTMLUnpairedBraces,
	HTMLOverlappedAnnotation,
	TextFileNotFound,
	TextOffsetMismatch,
	TextLeadingTrailingSpace,
	TextUnpairedBraces,
	TextOverlappedAnnotation,
}

// errorTypeRank fixes the sort order of report rows to the declaration
// order of the error types.
var errorTypeRank = func() map[ErrorType]int {
	rank := make(map[ErrorType]int)
	for i, et := range PageErrorTypes {
		rank[et] = i
	}
	for i, et := range AnnotationErrorTypes {
		rank[et] = i
	}
	return rank
}()

// CategorySummary counts errors per type for one category.
type CategorySummary struct {
	Category string
	Counts   map[ErrorType]int
}

// writeCSV writes rows to path with LF line endings.
func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSummaryCSV writes the category × error-type count matrix.
func writeSummaryCSV(path string, errorTypes []ErrorType, summaries []CategorySummary) error {
	header := []string{"category"}
	for _, et := range errorTypes {
		header = append(header, string(et))
	}
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		row := []string{summary.Category}
		for _, et := range errorTypes {
			row = append(row, strconv.Itoa(summary.Counts[et]))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}
