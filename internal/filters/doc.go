// Package filters implements the stream filters used by PDF documents.
//
// Each filter is registered under its full and abbreviated names and can be
// looked up with [Lookup]:
//
//	f, ok := filters.Lookup("FlateDecode")
//	decoded, err := f.Decode(data, params)
//
// FlateDecode, ASCIIHexDecode and ASCII85Decode also implement [Encoder],
// which the document layer uses when compressing rewritten content.
// FlateDecode honours TIFF predictor 2 and the PNG predictors 10 to 15.
// CCITTFaxDecode is decode-only.
package filters
