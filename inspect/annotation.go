package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/shinra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// AnnotationError is one anomaly found in an annotation.
type AnnotationError struct {
	Category     string
	Type         ErrorType
	PageID       int
	AnnotationID *int
	Detail       string
	Annotation   *shinra.Annotation
}

// AnnotationInspector cross-checks annotations against the arranged pages:
// recorded surface forms must match the page content at the recorded
// offsets, spans must be visible, trimmed, brace-balanced, free of block
// tags, and must not overlap within an attribute.
type AnnotationInspector struct {
	Layout      shinra.Layout
	OutputDir   string
	Concurrency int
	Progress    shinra.ProgressFunc
}

// Inspect checks every category's annotations and writes one
// <Category>_annotation_inspection.csv per category plus
// summary_annotation_inspection.csv. It returns the per-category summaries.
func (i *AnnotationInspector) Inspect(ctx context.Context) ([]CategorySummary, error) {
	summaries := make([]CategorySummary, 0, len(shinra.Categories()))
	for _, category := range shinra.Categories() {
		summary, err := i.inspectCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("inspect annotations in %s: %w", category, err)
		}
		summaries = append(summaries, summary)
	}
	summaryPath := filepath.Join(i.OutputDir, "summary_annotation_inspection.csv")
	if err := writeSummaryCSV(summaryPath, AnnotationErrorTypes, summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (i *AnnotationInspector) inspectCategory(ctx context.Context, category string) (CategorySummary, error) {
	byPage, err := shinra.ReadAnnotationFile(i.Layout.AnnotationFile(category))
	if err != nil {
		return CategorySummary{}, err
	}

	pageIDs := make([]int, 0, len(byPage))
	for pageID := range byPage {
		pageIDs = append(pageIDs, pageID)
	}
	sort.Ints(pageIDs)

	concurrency := i.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	var (
		mu        sync.Mutex
		errors    []AnnotationError
		completed int
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, pageID := range pageIDs {
		g.Go(func() error {
			found := i.inspectPage(category, pageID, byPage[pageID])
			mu.Lock()
			errors = append(errors, found...)
			completed++
			i.report(shinra.Progress{
				Stage:     "inspect-annotations",
				Category:  category,
				Completed: completed,
				Total:     len(pageIDs),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CategorySummary{}, err
	}

	sort.Slice(errors, func(a, b int) bool {
		if errors[a].Type != errors[b].Type {
			return errorTypeRank[errors[a].Type] < errorTypeRank[errors[b].Type]
		}
		if errors[a].PageID != errors[b].PageID {
			return errors[a].PageID < errors[b].PageID
		}
		return annotationID(errors[a]) < annotationID(errors[b])
	})

	rows := make([][]string, 0, len(errors))
	summary := CategorySummary{Category: category, Counts: make(map[ErrorType]int)}
	for _, e := range errors {
		rows = append(rows, annotationErrorRow(e))
		summary.Counts[e.Type]++
	}
	path := filepath.Join(i.OutputDir, category+"_annotation_inspection.csv")
	header := []string{"category", "error_type", "page_id", "annotation_id", "error_detail", "annotation"}
	if err := writeCSV(path, header, rows); err != nil {
		return CategorySummary{}, err
	}
	return summary, nil
}

// inspectPage checks all of one page's annotations against its HTML and
// plain text files. A missing file is itself an anomaly.
func (i *AnnotationInspector) inspectPage(category string, pageID int, annotations []*shinra.Annotation) []AnnotationError {
	var errors []AnnotationError

	htmlPath := i.Layout.HTMLFile(category, pageID)
	if content, err := shinra.ContentFromFile(htmlPath); err == nil {
		errors = append(errors, tagResults(category, pageID, CheckHTMLAnnotations(content, annotations))...)
	} else if shinra.ErrorCode(err) == shinra.ENOTFOUND {
		errors = append(errors, AnnotationError{
			Category: category,
			Type:     HTMLFileNotFound,
			PageID:   pageID,
			Detail:   fmt.Sprintf("HTML file not found: %q", htmlPath),
		})
	} else {
		errors = append(errors, AnnotationError{
			Category: category,
			Type:     HTMLFileNotFound,
			PageID:   pageID,
			Detail:   err.Error(),
		})
	}

	textPath := i.Layout.TextFile(category, pageID)
	if content, err := shinra.ContentFromFile(textPath); err == nil {
		errors = append(errors, tagResults(category, pageID, CheckTextAnnotations(content, annotations))...)
	} else if shinra.ErrorCode(err) == shinra.ENOTFOUND {
		errors = append(errors, AnnotationError{
			Category: category,
			Type:     TextFileNotFound,
			PageID:   pageID,
			Detail:   fmt.Sprintf("TEXT file not found: %q", textPath),
		})
	} else {
		errors = append(errors, AnnotationError{
			Category: category,
			Type:     TextFileNotFound,
			PageID:   pageID,
			Detail:   err.Error(),
		})
	}
	return errors
}

func (i *AnnotationInspector) report(p shinra.Progress) {
	if i.Progress != nil {
		i.Progress(p)
	}
}

// CheckResult is an anomaly before category and page context are attached.
type CheckResult struct {
	Type       ErrorType
	Detail     string
	Annotation *shinra.Annotation
}

func tagResults(category string, pageID int, results []CheckResult) []AnnotationError {
	errors := make([]AnnotationError, 0, len(results))
	for _, r := range results {
		id := r.Annotation.ID
		errors = append(errors, AnnotationError{
			Category:     category,
			Type:         r.Type,
			PageID:       pageID,
			AnnotationID: &id,
			Detail:       r.Detail,
			Annotation:   r.Annotation,
		})
	}
	return errors
}

// CheckHTMLAnnotations verifies a page's annotations against its raw HTML
// content. Checks short-circuit per annotation: once one fails the rest are
// skipped, so each annotation reports at most one anomaly plus overlaps.
func CheckHTMLAnnotations(content *shinra.Content, annotations []*shinra.Annotation) []CheckResult {
	var results []CheckResult
	cleaned, cleanErr := CleanContent(content)

	byAttribute := make(map[string][]*shinra.Annotation)
	var attributes []string
	for _, annotation := range annotations {
		if _, ok := byAttribute[annotation.Attribute]; !ok {
			attributes = append(attributes, annotation.Attribute)
		}
		byAttribute[annotation.Attribute] = append(byAttribute[annotation.Attribute], annotation)

		offset := annotation.HTMLOffset
		if offset.Text == nil {
			continue
		}
		want := *offset.Text
		text := content.Text(offset.Start, offset.End)
		if text != want {
			results = append(results, CheckResult{
				Type:       HTMLOffsetMismatch,
				Detail:     fmt.Sprintf("%q != %q", want, text),
				Annotation: annotation,
			})
			continue
		}
		if strings.TrimSpace(want) != text {
			results = append(results, CheckResult{
				Type:       HTMLLeadingTrailingSpace,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
		if tag := findBlockTag(text); tag != "" {
			results = append(results, CheckResult{
				Type:       HTMLWithBlockTag,
				Detail:     fmt.Sprintf("%s in %q", tag, want),
				Annotation: annotation,
			})
			continue
		}
		if cleanErr != nil || cleaned.Len() != content.Len() {
			// Visibility cannot be judged without a clean view of the page;
			// page inspection reports the cleaning failure itself.
			continue
		}
		cleanText := cleaned.Text(offset.Start, offset.End)
		strippedClean := strings.TrimSpace(cleanText)
		if strippedClean == "" {
			results = append(results, CheckResult{
				Type:       HTMLInvisibleText,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
		if strippedClean != cleanText {
			results = append(results, CheckResult{
				Type:       HTMLLeadingTrailingSpace,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
		unescaped := html.UnescapeString(cleanText)
		if strings.TrimSpace(unescaped) != unescaped {
			results = append(results, CheckResult{
				Type:       HTMLLeadingTrailingSpace,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
		if !BracesPaired(unescaped) {
			results = append(results, CheckResult{
				Type:       HTMLUnpairedBraces,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
	}

	for _, attribute := range attributes {
		spans := sortedSpans(content, byAttribute[attribute], func(a *shinra.Annotation) shinra.Offset {
			return a.HTMLOffset
		})
		for _, overlap := range detectOverlaps(spans) {
			results = append(results, CheckResult{
				Type: HTMLOverlappedAnnotation,
				Detail: fmt.Sprintf("%s: annotation %q is overlapped with %q",
					attribute, strconv.Itoa(overlap.a.ID), strconv.Itoa(overlap.b.ID)),
				Annotation: overlap.a,
			})
		}
	}
	return results
}

// CheckTextAnnotations verifies a page's annotations against its plain text
// content.
func CheckTextAnnotations(content *shinra.Content, annotations []*shinra.Annotation) []CheckResult {
	var results []CheckResult

	byAttribute := make(map[string][]*shinra.Annotation)
	var attributes []string
	for _, annotation := range annotations {
		if _, ok := byAttribute[annotation.Attribute]; !ok {
			attributes = append(attributes, annotation.Attribute)
		}
		byAttribute[annotation.Attribute] = append(byAttribute[annotation.Attribute], annotation)

		offset := annotation.TextOffset
		if offset.Text == nil {
			continue
		}
		want := *offset.Text
		text := content.Text(offset.Start, offset.End)
		if text != want {
			results = append(results, CheckResult{
				Type:       TextOffsetMismatch,
				Detail:     fmt.Sprintf("%q != %q", want, text),
				Annotation: annotation,
			})
			continue
		}
		if strings.TrimSpace(want) != text {
			results = append(results, CheckResult{
				Type:       TextLeadingTrailingSpace,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
		if !BracesPaired(want) {
			results = append(results, CheckResult{
				Type:       TextUnpairedBraces,
				Detail:     fmt.Sprintf("%q", want),
				Annotation: annotation,
			})
			continue
		}
	}

	for _, attribute := range attributes {
		spans := sortedSpans(content, byAttribute[attribute], func(a *shinra.Annotation) shinra.Offset {
			return a.TextOffset
		})
		for _, overlap := range detectOverlaps(spans) {
			results = append(results, CheckResult{
				Type: TextOverlappedAnnotation,
				Detail: fmt.Sprintf("%s: annotation %q is overlapped with %q",
					attribute, strconv.Itoa(overlap.a.ID), strconv.Itoa(overlap.b.ID)),
				Annotation: overlap.a,
			})
		}
	}
	return results
}

// span is an annotation projected onto absolute char offsets.
type span struct {
	start      int
	end        int
	annotation *shinra.Annotation
}

type overlap struct {
	a *shinra.Annotation
	b *shinra.Annotation
}

func sortedSpans(content *shinra.Content, annotations []*shinra.Annotation, offsetOf func(*shinra.Annotation) shinra.Offset) []span {
	spans := make([]span, 0, len(annotations))
	for _, annotation := range annotations {
		offset := offsetOf(annotation)
		spans = append(spans, span{
			start:      content.CharOffset(offset.Start),
			end:        content.CharOffset(offset.End),
			annotation: annotation,
		})
	}
	sort.Slice(spans, func(a, b int) bool {
		if spans[a].start != spans[b].start {
			return spans[a].start < spans[b].start
		}
		return spans[a].end < spans[b].end
	})
	return spans
}

// detectOverlaps reports pairs of spans that intersect. Spans must be
// sorted by start offset; the inner scan stops at the first span that
// starts after the current one ends.
func detectOverlaps(spans []span) []overlap {
	var overlaps []overlap
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].end <= spans[j].start {
				break
			}
			if spans[i].start < spans[j].end && spans[j].start < spans[i].end {
				overlaps = append(overlaps, overlap{a: spans[i].annotation, b: spans[j].annotation})
			}
		}
	}
	return overlaps
}

// Block-level tags must never appear inside an annotated span; an
// annotation that crosses one spans multiple structural elements.
var blockTagRe = regexp.MustCompile(`</?\s*(?:` + strings.Join([]string{
	"body",
	"caption",
	"dd",
	"dl",
	"dt",
	"footer",
	"h1",
	"h2",
	"h3",
	"h4",
	"h5",
	"h6",
	"header",
	"html",
	"img",
	"table",
	"tbody",
	"td",
	"tfoot",
	"th",
	"thead",
	"tr",
}, "|") + `)\s*>`)

// findBlockTag returns the first block-level tag in htmlText, or "".
func findBlockTag(htmlText string) string {
	return blockTagRe.FindString(strings.ToLower(htmlText))
}

var bracePairs = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
	'「': '」',
	'『': '』',
}

var closeToOpen = func() map[rune]rune {
	m := make(map[rune]rune, len(bracePairs))
	for opening, closing := range bracePairs {
		m[closing] = opening
	}
	return m
}()

// BracesPaired reports whether every brace in text has a matching partner.
// Text is NFKC-normalized first so full-width variants fold onto their
// ASCII counterparts.
func BracesPaired(text string) bool {
	var stack []rune
	for _, r := range norm.NFKC.String(text) {
		if _, ok := bracePairs[r]; ok {
			stack = append(stack, r)
			continue
		}
		if open, ok := closeToOpen[r]; ok {
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

func annotationID(e AnnotationError) int {
	if e.AnnotationID == nil {
		return -1
	}
	return *e.AnnotationID
}

func annotationErrorRow(e AnnotationError) []string {
	id := ""
	if e.AnnotationID != nil {
		id = strconv.Itoa(*e.AnnotationID)
	}
	encoded := ""
	if e.Annotation != nil {
		raw, err := json.Marshal(e.Annotation)
		if err == nil {
			encoded = string(raw)
		}
	}
	return []string{e.Category, string(e.Type), strconv.Itoa(e.PageID), id, e.Detail, encoded}
}
