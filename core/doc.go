// Package core provides the PDF object model and the low-level decoders that
// turn a document's bytes into objects.
//
// # Object Types
//
// [Object] is implemented by [Null], [Bool], [Int], [Real], [String],
// [Name], [Array], [Dict], [*Stream] and [IndirectRef]. Objects refer to
// each other only through [ObjectID]s; nothing in this package follows a
// reference. The As* functions ([AsInt], [AsDict], ...) return a
// [*TypeError] instead of panicking on a mismatch.
//
// # Parsing and Writing
//
// [ParseObjectAt] and [ParseIndirectObjectAt] parse one object from a byte
// buffer. [WriteObject] produces syntax that parses back to an equal object.
//
// # Cross-Reference Data
//
// [XRefTable] maps object numbers to [XRefEntry] values. [ParseXRefTable]
// reads a classic "xref" table, [DecodeXRefStream] decodes a binary
// cross-reference stream, and [MergeXRefTables] layers incremental updates.
//
// # Object Streams
//
// [NewObjectStream] unpacks the objects stored in an /ObjStm container,
// optionally parsing entries on several goroutines with [WithWorkers].
//
// Recoverable problems are collected as [Warning] values next to the
// result; errors are reserved for data that cannot be used at all.
package core
