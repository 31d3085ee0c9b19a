// Package catalog builds CSV catalogs of an arranged dataset: one listing
// per category plus a cross-category summary.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/fs"
	"golang.org/x/sync/errgroup"
)

// Builder produces catalog CSVs for an arranged dataset. When Store is set,
// every cataloged page is also persisted to the page index.
type Builder struct {
	Layout      shinra.Layout
	OutputDir   string
	Extractor   shinra.PageInfoExtractor
	Store       shinra.CatalogStore
	Concurrency int
	Progress    shinra.ProgressFunc
}

// CategorySummary aggregates one category's catalog.
type CategorySummary struct {
	Category               string
	Pages                  int
	TotalHTMLBytes         int64
	TotalTextBytes         int64
	DisambiguationPages    int
	TotalInfoboxes         int
	PagesWithAnnotation    int
	PagesWithInfobox       int
	AttributeTypes         int
	TotalAnnotations       int
	AnnotationsByAttribute map[string]int
}

// pageEntry is one cataloged page before aggregation.
type pageEntry struct {
	pageID         int
	title          string
	htmlSize       int64
	textSize       int64
	disambiguation bool
	infoboxCount   int
	contentHash    string
}

// Build catalogs every category, writing <Category>_catalog.csv per
// category and summary_catalog.csv, and returns the per-category
// summaries in category order.
func (b *Builder) Build(ctx context.Context) ([]CategorySummary, error) {
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return nil, err
	}

	var run *shinra.CatalogRun
	if b.Store != nil {
		var err error
		run, err = b.Store.BeginRun(ctx, b.Layout.Root)
		if err != nil {
			return nil, fmt.Errorf("begin catalog run: %w", err)
		}
	}

	summaries := make([]CategorySummary, 0, len(shinra.Categories()))
	pages := 0
	for _, category := range shinra.Categories() {
		summary, err := b.buildCategory(ctx, category, run)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", category, err)
		}
		summaries = append(summaries, summary)
		pages += summary.Pages
	}

	if err := b.writeSummary(summaries); err != nil {
		return nil, err
	}
	if b.Store != nil {
		if err := b.Store.FinishRun(ctx, run.ID, pages); err != nil {
			return nil, fmt.Errorf("finish catalog run: %w", err)
		}
	}
	return summaries, nil
}

// annotationInfo holds a page's annotation counts.
type annotationInfo struct {
	total       int
	byAttribute map[string]int
}

// readAnnotationInfo reads a category's annotation file and returns its
// sorted attribute names plus per-page counts.
func readAnnotationInfo(path string) ([]string, map[int]annotationInfo, error) {
	byPage, err := shinra.ReadAnnotationFile(path)
	if err != nil {
		return nil, nil, err
	}
	attributeSet := make(map[string]struct{})
	infoByPage := make(map[int]annotationInfo, len(byPage))
	for pageID, annotations := range byPage {
		info := annotationInfo{byAttribute: make(map[string]int)}
		for _, annotation := range annotations {
			info.total++
			info.byAttribute[annotation.Attribute]++
			attributeSet[annotation.Attribute] = struct{}{}
		}
		infoByPage[pageID] = info
	}
	attributes := make([]string, 0, len(attributeSet))
	for attribute := range attributeSet {
		attributes = append(attributes, attribute)
	}
	sort.Strings(attributes)
	return attributes, infoByPage, nil
}

func (b *Builder) buildCategory(ctx context.Context, category string, run *shinra.CatalogRun) (CategorySummary, error) {
	attributes, infoByPage, err := readAnnotationInfo(b.Layout.AnnotationFile(category))
	if err != nil {
		return CategorySummary{}, err
	}

	entries, err := os.ReadDir(b.Layout.HTMLDir(category))
	if err != nil {
		return CategorySummary{}, err
	}
	pageIDs := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pageID, err := shinra.PageIDFromFileName(entry.Name())
		if err != nil {
			return CategorySummary{}, err
		}
		pageIDs = append(pageIDs, pageID)
	}
	sort.Ints(pageIDs)

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	var (
		mu        sync.Mutex
		pages     = make(map[int]pageEntry, len(pageIDs))
		completed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, pageID := range pageIDs {
		annotations := infoByPage[pageID].total
		g.Go(func() error {
			entry, err := b.catalogPage(gctx, category, pageID, annotations, run)
			if err != nil {
				return err
			}
			mu.Lock()
			pages[pageID] = entry
			completed++
			b.report(shinra.Progress{
				Stage:     "catalog",
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

	return b.writeCategory(category, attributes, pageIDs, pages, infoByPage)
}

func (b *Builder) catalogPage(ctx context.Context, category string, pageID, annotations int, run *shinra.CatalogRun) (pageEntry, error) {
	htmlPath := b.Layout.HTMLFile(category, pageID)
	raw, err := os.ReadFile(htmlPath)
	if err != nil {
		return pageEntry{}, err
	}
	info, err := b.Extractor.Extract(string(raw))
	if err != nil {
		return pageEntry{}, fmt.Errorf("page %d: %w", pageID, err)
	}
	textInfo, err := os.Stat(b.Layout.TextFile(category, pageID))
	if err != nil {
		return pageEntry{}, err
	}

	entry := pageEntry{
		pageID:         pageID,
		title:          info.Title,
		htmlSize:       int64(len(raw)),
		textSize:       textInfo.Size(),
		disambiguation: info.Disambiguation,
		infoboxCount:   info.InfoboxCount,
		contentHash:    fs.XXHash(raw),
	}
	if b.Store != nil {
		return entry, b.Store.SavePage(ctx, &shinra.PageRecord{
			RunID:          run.ID,
			Category:       category,
			PageID:         pageID,
			Title:          entry.title,
			HTMLFileSize:   entry.htmlSize,
			TextFileSize:   entry.textSize,
			Disambiguation: entry.disambiguation,
			InfoboxCount:   entry.infoboxCount,
			Annotations:    annotations,
			ContentHash:    entry.contentHash,
		})
	}
	return entry, nil
}

// writeCategory writes <Category>_catalog.csv and aggregates the summary.
func (b *Builder) writeCategory(category string, attributes []string, pageIDs []int, pages map[int]pageEntry, infoByPage map[int]annotationInfo) (CategorySummary, error) {
	header := []string{
		"page_id",
		"title",
		"html_file_size",
		"text_file_size",
		"is_disambiguation_page",
		"infobox_count",
		"num_annotations",
	}
	header = append(header, attributes...)

	summary := CategorySummary{
		Category:               category,
		AttributeTypes:         len(attributes),
		AnnotationsByAttribute: make(map[string]int),
	}
	rows := make([][]string, 0, len(pageIDs))
	for _, pageID := range pageIDs {
		page := pages[pageID]
		row := []string{
			strconv.Itoa(page.pageID),
			page.title,
			strconv.FormatInt(page.htmlSize, 10),
			strconv.FormatInt(page.textSize, 10),
			strconv.FormatBool(page.disambiguation),
			strconv.Itoa(page.infoboxCount),
		}
		if info, ok := infoByPage[pageID]; ok {
			row = append(row, strconv.Itoa(info.total))
			for _, attribute := range attributes {
				row = append(row, strconv.Itoa(info.byAttribute[attribute]))
			}
			if info.total > 0 {
				summary.PagesWithAnnotation++
				summary.TotalAnnotations += info.total
				for attribute, count := range info.byAttribute {
					summary.AnnotationsByAttribute[attribute] += count
				}
			}
		} else {
			row = append(row, "")
			for range attributes {
				row = append(row, "")
			}
		}
		rows = append(rows, row)

		summary.Pages++
		summary.TotalHTMLBytes += page.htmlSize
		summary.TotalTextBytes += page.textSize
		summary.TotalInfoboxes += page.infoboxCount
		if page.disambiguation {
			summary.DisambiguationPages++
		}
		if page.infoboxCount > 0 {
			summary.PagesWithInfobox++
		}
	}

	path := filepath.Join(b.OutputDir, category+"_catalog.csv")
	if err := writeCSV(path, header, rows); err != nil {
		return CategorySummary{}, err
	}
	return summary, nil
}

// writeSummary writes summary_catalog.csv. Categories run across columns,
// field names down the rows: each category contributes a label column and
// a value column, transposed from its summary, as the catalog has always
// been published.
func (b *Builder) writeSummary(summaries []CategorySummary) error {
	var matrix [][]string
	for _, summary := range summaries {
		attributes := make([]string, 0, len(summary.AnnotationsByAttribute))
		for attribute := range summary.AnnotationsByAttribute {
			attributes = append(attributes, attribute)
		}
		sort.Strings(attributes)

		labels := []string{
			"category",
			"num_pages",
			"total_html_file_size",
			"total_text_file_size",
			"num_disambiguation_pages",
			"total_infobox_count",
			"num_pages_with_annotation",
			"num_pages_with_infobox",
			"num_attribute_types",
			"total_num_annotations",
			"num_annotations_by_attribute",
		}
		values := []string{
			summary.Category,
			strconv.Itoa(summary.Pages),
			strconv.FormatInt(summary.TotalHTMLBytes, 10),
			strconv.FormatInt(summary.TotalTextBytes, 10),
			strconv.Itoa(summary.DisambiguationPages),
			strconv.Itoa(summary.TotalInfoboxes),
			strconv.Itoa(summary.PagesWithAnnotation),
			strconv.Itoa(summary.PagesWithInfobox),
			strconv.Itoa(summary.AttributeTypes),
			strconv.Itoa(summary.TotalAnnotations),
			"",
		}
		for _, attribute := range attributes {
			labels = append(labels, attribute)
			values = append(values, strconv.Itoa(summary.AnnotationsByAttribute[attribute]))
		}
		matrix = append(matrix, labels, values)
	}

	transposed := transpose(matrix)
	if len(transposed) == 0 {
		return nil
	}
	path := filepath.Join(b.OutputDir, "summary_catalog.csv")
	return writeCSV(path, transposed[0], transposed[1:])
}

// transpose flips a row matrix into columns, padding short rows with "".
func transpose(matrix [][]string) [][]string {
	maxLen := 0
	for _, row := range matrix {
		if len(row) > maxLen {
			maxLen = len(row)
		}
	}
	out := make([][]string, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		row := make([]string, len(matrix))
		for j := range matrix {
			if i < len(matrix[j]) {
				row[j] = matrix[j][i]
			}
		}
		out = append(out, row)
	}
	return out
}

func (b *Builder) report(p shinra.Progress) {
	if b.Progress != nil {
		b.Progress(p)
	}
}

// writeCSV writes rows to path with LF line endings.
func writeCSV(path string, header []string, rows [][]string) error {
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
