package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/shinra"
	"golang.org/x/sync/errgroup"
)

// PageError is one anomaly found in a page.
type PageError struct {
	Type   ErrorType
	PageID int
	Detail string
}

// PageInspector checks arranged pages for markup anomalies: HTML that the
// cleaner cannot process without changing its length, and page text with
// unescaped reserved characters.
type PageInspector struct {
	Layout      shinra.Layout
	OutputDir   string
	Concurrency int
	Progress    shinra.ProgressFunc
}

// Inspect checks every category's pages and writes one
// <Category>_page_inspection.csv per category plus
// summary_page_inspection.csv. It returns the per-category summaries.
func (i *PageInspector) Inspect(ctx context.Context) ([]CategorySummary, error) {
	summaries := make([]CategorySummary, 0, len(shinra.Categories()))
	for _, category := range shinra.Categories() {
		summary, err := i.inspectCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("inspect pages in %s: %w", category, err)
		}
		summaries = append(summaries, summary)
	}
	summaryPath := filepath.Join(i.OutputDir, "summary_page_inspection.csv")
	if err := writeSummaryCSV(summaryPath, PageErrorTypes, summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (i *PageInspector) inspectCategory(ctx context.Context, category string) (CategorySummary, error) {
	pageIDs, err := i.collectPageIDs(category)
	if err != nil {
		return CategorySummary{}, err
	}

	concurrency := i.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	var (
		mu        sync.Mutex
		errors    []PageError
		completed int
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, pageID := range pageIDs {
		g.Go(func() error {
			found := InspectPage(i.Layout.HTMLFile(category, pageID), pageID)
			mu.Lock()
			errors = append(errors, found...)
			completed++
			i.report(shinra.Progress{
				Stage:     "inspect-pages",
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
		return errors[a].Detail < errors[b].Detail
	})

	rows := make([][]string, 0, len(errors))
	summary := CategorySummary{Category: category, Counts: make(map[ErrorType]int)}
	for _, e := range errors {
		rows = append(rows, []string{string(e.Type), strconv.Itoa(e.PageID), e.Detail})
		summary.Counts[e.Type]++
	}
	path := filepath.Join(i.OutputDir, category+"_page_inspection.csv")
	if err := writeCSV(path, []string{"error_type", "page_id", "error_detail"}, rows); err != nil {
		return CategorySummary{}, err
	}
	return summary, nil
}

// collectPageIDs unions the page ids present in the category's HTML and
// PLAIN directories so pages missing from either side are still inspected.
func (i *PageInspector) collectPageIDs(category string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, dir := range []string{i.Layout.HTMLDir(category), i.Layout.TextDir(category)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			pageID, err := shinra.PageIDFromFileName(entry.Name())
			if err != nil {
				continue
			}
			seen[pageID] = struct{}{}
		}
	}
	pageIDs := make([]int, 0, len(seen))
	for pageID := range seen {
		pageIDs = append(pageIDs, pageID)
	}
	sort.Ints(pageIDs)
	return pageIDs, nil
}

func (i *PageInspector) report(p shinra.Progress) {
	if i.Progress != nil {
		i.Progress(p)
	}
}

// InspectPage checks one HTML page. A page is anomalous when cleaning fails
// or changes the content length, or when the cleaned text still contains a
// reserved character.
func InspectPage(htmlPath string, pageID int) []PageError {
	content, err := shinra.ContentFromFile(htmlPath)
	if err != nil {
		return []PageError{{Type: CleanHTMLError, PageID: pageID, Detail: err.Error()}}
	}
	cleaned, err := CleanContent(content)
	if err != nil {
		return []PageError{{Type: CleanHTMLError, PageID: pageID, Detail: err.Error()}}
	}
	if content.Len() != cleaned.Len() {
		return []PageError{{
			Type:   CleanHTMLError,
			PageID: pageID,
			Detail: fmt.Sprintf("Content length mismatch: %d != %d", content.Len(), cleaned.Len()),
		}}
	}
	if strings.ContainsAny(cleaned.Raw(), "<>") {
		return []PageError{{
			Type:   UnescapedReservedCharacter,
			PageID: pageID,
			Detail: "Contains html reserved character: <,>",
		}}
	}
	return nil
}
