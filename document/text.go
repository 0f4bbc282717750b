package document

import (
	"fmt"

	"github.com/tsawler/pdfdoc/contentstream"
	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/text"
)

// ExtractTextChunks extracts the text of the given pages, in the order
// given. Problems confined to one page (a missing page, a font without a
// usable encoding, unparsable content) become error chunks and the
// remaining pages are still processed.
func (d *Document) ExtractTextChunks(pageNumbers ...int) []text.Chunk {
	var chunks []text.Chunk
	for _, number := range pageNumbers {
		chunks = append(chunks, d.pageChunks(number)...)
	}
	return chunks
}

func (d *Document) pageChunks(number int) []text.Chunk {
	pageID, err := d.PageID(number)
	if err != nil {
		return []text.Chunk{{Err: err}}
	}
	encodings, fontErrs, err := d.pageEncodings(pageID)
	if err != nil {
		return []text.Chunk{{Err: fmt.Errorf("page %d: %w", number, err)}}
	}

	var chunks []text.Chunk
	for _, ferr := range fontErrs {
		chunks = append(chunks, text.Chunk{Err: fmt.Errorf("page %d: %w", number, ferr)})
	}
	content, err := d.GetAndDecodePageContent(pageID)
	if err != nil {
		return append(chunks, text.Chunk{Err: fmt.Errorf("page %d: %w", number, err)})
	}
	pageChunks, warnings, err := text.ExtractChunks(content.Operations, encodings)
	d.Warnings = append(d.Warnings, warnings...)
	if err != nil {
		return append(chunks, text.Chunk{Err: fmt.Errorf("page %d: %w", number, err)})
	}
	return append(chunks, pageChunks...)
}

// ExtractText concatenates the text of the given pages. The first error
// chunk, if any, is returned instead.
func (d *Document) ExtractText(pageNumbers ...int) (string, error) {
	return text.Concat(d.ExtractTextChunks(pageNumbers...))
}

// ReplaceText replaces every text operand on a page whose decoded text is
// exactly search. Characters the font cannot encode are written as
// fallback.
func (d *Document) ReplaceText(pageNumber int, search, replacement, fallback string) error {
	pageID, content, encodings, err := d.editablePage(pageNumber)
	if err != nil {
		return err
	}
	warnings, err := text.ReplaceExact(content.Operations, encodings, search, replacement, fallback)
	d.Warnings = append(d.Warnings, warnings...)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNumber, err)
	}
	return d.saveContent(pageID, content)
}

// ReplacePartialText replaces every occurrence of search inside the text
// operands of a page and returns how many were replaced. fallbackChar
// stands in for characters the font cannot encode; empty means "?". The
// page is only rewritten when something was replaced.
func (d *Document) ReplacePartialText(pageNumber int, search, replacement, fallbackChar string) (int, error) {
	if fallbackChar == "" {
		fallbackChar = text.DefaultFallbackChar
	}
	pageID, content, encodings, err := d.editablePage(pageNumber)
	if err != nil {
		return 0, err
	}
	count, warnings, err := text.ReplacePartial(content.Operations, encodings, search, replacement, fallbackChar)
	d.Warnings = append(d.Warnings, warnings...)
	if err != nil {
		return 0, fmt.Errorf("page %d: %w", pageNumber, err)
	}
	if count == 0 {
		return 0, nil
	}
	if err := d.saveContent(pageID, content); err != nil {
		return 0, err
	}
	return count, nil
}

// editablePage loads a page's operations and encodings for substitution.
// Fonts without an encoding are reported as warnings.
func (d *Document) editablePage(pageNumber int) (core.ObjectID, *contentstream.Content, text.Encodings, error) {
	pageID, err := d.PageID(pageNumber)
	if err != nil {
		return core.ObjectID{}, nil, nil, err
	}
	encodings, fontErrs, err := d.pageEncodings(pageID)
	if err != nil {
		return core.ObjectID{}, nil, nil, fmt.Errorf("page %d: %w", pageNumber, err)
	}
	for _, ferr := range fontErrs {
		d.warn("text", "page %d: %v", pageNumber, ferr)
	}
	content, err := d.GetAndDecodePageContent(pageID)
	if err != nil {
		return core.ObjectID{}, nil, nil, err
	}
	return pageID, content, encodings, nil
}
