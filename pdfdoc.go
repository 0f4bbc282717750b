// Package pdfdoc provides a fluent API for reading the text of PDF files.
//
// Basic usage:
//
//	text, warnings, err := pdfdoc.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfdoc.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := pdfdoc.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    Strict().
//	    Text()
//
// The document package underneath loads, edits and writes whole files:
// text substitution, image and form insertion, and content rewriting.
package pdfdoc

import (
	"strings"

	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/document"
)

// Warning is a recoverable problem met while reading a document
type Warning = core.Warning

// Open returns an Extractor for the file at filename. The file is read by
// the first terminal operation.
//
// Example:
//
//	text, warnings, err := pdfdoc.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already loaded document.
//
// Example:
//
//	doc, err := document.Open(ctx, "document.pdf", nil)
//	if err != nil {
//	    // handle error
//	}
//	text, warnings, err := pdfdoc.FromDocument(doc).Pages(2).Text()
func FromDocument(d *document.Document) *Extractor {
	return &Extractor{
		doc:     d,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := pdfdoc.Must(pdfdoc.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or Chunks() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := pdfdoc.MustText(pdfdoc.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings joins warnings into one line
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
