// Package contentstream converts between page content bytes and the
// operations they encode.
//
// A content stream is a program: operands followed by the operator that
// consumes them.
//
//	content, err := contentstream.Decode(data)
//	for _, op := range content.Operations {
//	    fmt.Println(op.Operator, op.Operands)
//	}
//	out, err := content.Encode()
//
// Decoding what Encode produced yields the same operations. Inline images
// (BI ... ID ... EI) become a single "BI" operation whose operands are the
// image dictionary and the raw image bytes.
//
// # Common Operators
//
// Text operators:
//   - BT, ET - Begin/end text object
//   - Tf - Set font and size
//   - Tj, TJ, ', " - Show text
//   - Td, TD, Tm, T* - Position text
//
// Graphics state operators:
//   - q, Q - Save/restore graphics state
//   - cm - Modify the current transformation matrix
//   - Do - Paint an XObject
package contentstream
