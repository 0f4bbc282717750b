// Package font derives text encodings from PDF font dictionaries.
//
// An [Encoding] turns the bytes a content stream shows into text and back.
// Simple fonts use a one byte [SimpleEncoding]:
//
//   - [WinAnsiEncoding] and [MacRomanEncoding], built from the x/text code pages
//   - [StandardEncoding] and [PDFDocEncoding]
//   - any of these patched by a /Differences array
//
// Fonts with a /ToUnicode stream use a [CMap], whose codespace ranges decide
// how many bytes each code takes.
//
//	enc, err := font.New(fontDict).Encoding(resolver)
//	text, err := enc.Decode(shown)
//	shown := enc.Encode("Hello") // nil if a character has no code
//
// Decoded text is NFC-normalized.
package font
