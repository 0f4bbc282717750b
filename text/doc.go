// Package text extracts and substitutes text in decoded content streams.
//
// Both engines walk a page's operations once, tracking the active font
// through Tf, and work with a page-local map from font resource name to
// [font.Encoding]. They never touch a document: callers build the map,
// decode the content, and persist any changes.
//
//	chunks, warnings, err := text.ExtractChunks(ops, encodings)
//	warnings, err = text.ReplaceExact(ops, encodings, "Hi", "Bye", "")
//	n, warnings, err := text.ReplacePartial(ops, encodings, "Hello", "Hi", "?")
//
// A chunk is a run of text shown with one encoding. Chunks end at a font
// change or at the end of the page, never at ET.
package text
