package pdfdoc

import (
	"context"
	"fmt"
	"sort"

	"github.com/tsawler/pdfdoc/document"
	"github.com/tsawler/pdfdoc/text"
)

// Extractor provides a fluent interface for reading text from PDF files.
// Each configuration method returns a new Extractor instance, so a chain
// can be shared and extended safely.
type Extractor struct {
	filename string
	doc      *document.Document

	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ensureDocument loads the file if it has not been loaded yet.
func (e *Extractor) ensureDocument() error {
	if e.doc != nil {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	d, err := document.Open(e.options.ctx, e.filename, e.options.config)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.doc = d
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := pdfdoc.Open("doc.pdf").Pages(1, 3, 5).Text()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	text, _, err := pdfdoc.Open("doc.pdf").PageRange(5, 10).Text()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// WithConfig sets the configuration used to load the file.
func (e *Extractor) WithConfig(cfg *document.Config) *Extractor {
	newExt := e.clone()
	if cfg == nil {
		cfg = document.NewDefaultConfig()
	}
	c := *cfg
	newExt.options.config = &c
	return newExt
}

// WithContext sets the context that bounds loading.
func (e *Extractor) WithContext(ctx context.Context) *Extractor {
	newExt := e.clone()
	newExt.options.ctx = ctx
	return newExt
}

// Strict makes loading fail on the first unreadable object instead of
// skipping it.
//
// Example:
//
//	text, _, err := pdfdoc.Open("doc.pdf").Strict().Text()
func (e *Extractor) Strict() *Extractor {
	newExt := e.clone()
	newExt.options.config.ParsingMode = document.Strict
	return newExt
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Text extracts the text of the selected pages, in page order. Warnings
// report problems that did not stop extraction.
//
// Example:
//
//	text, warnings, err := pdfdoc.Open("document.pdf").Text()
func (e *Extractor) Text() (string, []Warning, error) {
	chunks, warnings, err := e.Chunks()
	if err != nil {
		return "", warnings, err
	}
	s, err := text.Concat(chunks)
	if err != nil {
		return "", warnings, err
	}
	return s, warnings, nil
}

// Chunks returns the text of the selected pages as chunks, one per run of
// text under one font. A chunk may carry an error instead of text.
func (e *Extractor) Chunks() ([]text.Chunk, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}
	pages, err := e.resolvePages()
	if err != nil {
		return nil, e.warnings(), err
	}
	chunks := e.doc.ExtractTextChunks(pages...)
	return chunks, e.warnings(), nil
}

// PageCount returns the number of pages in the document.
//
// Example:
//
//	count, err := pdfdoc.Open("document.pdf").PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return 0, err
	}
	return e.doc.PageCount()
}

// Document returns the loaded document for editing.
//
// Example:
//
//	doc, _, err := pdfdoc.Open("in.pdf").Document()
//	if err != nil {
//	    // handle error
//	}
//	_ = doc.ReplaceText(1, "Draft", "Final", "?")
//	err = doc.Save("out.pdf")
func (e *Extractor) Document() (*document.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}
	return e.doc, e.warnings(), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

func (e *Extractor) warnings() []Warning {
	return append([]Warning(nil), e.doc.Warnings...)
}

// resolvePages validates the selected page numbers, drops duplicates and
// sorts them. No selection means all pages.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount, err := e.doc.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	if len(e.options.pages) == 0 {
		pages := make([]int, pageCount)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	seen := make(map[int]bool)
	var pages []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	sort.Ints(pages)
	return pages, nil
}
