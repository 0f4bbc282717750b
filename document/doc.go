// Package document holds a whole PDF in memory as an arena of objects keyed
// by object id, and implements the page-level operations on top of it.
//
// Load reads a file through its cross-reference chain: classic tables,
// cross-reference streams, hybrid /XRefStm sections and /Prev updates.
// Objects packed in object streams are unpacked into the arena, and the
// container streams are dropped; WriteTo always emits a classic table.
//
// Page operations cover text extraction (ExtractText, ExtractTextChunks),
// text substitution (ReplaceText, ReplacePartialText) and content edits
// (InsertImage, InsertFormObject, AddToPageContent, ChangePageContent).
//
// Recoverable problems are collected in Document.Warnings and logged through
// the logger package.
package document
