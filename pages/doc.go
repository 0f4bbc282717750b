// Package pages walks the PDF page tree.
//
// The [PageTree] flattens the /Kids hierarchy into document order, keeping
// each page's object id so callers can address pages for mutation:
//
//	tree, err := pages.NewCatalog(catalogDict, resolver).PageTree()
//	all, err := tree.Pages()
//	id := all[0].ID()
//
// A [Page] looks inheritable attributes (Resources, MediaBox, CropBox,
// Rotate) up through every ancestor. [Page.Fonts] merges the font
// resources of the page and its ancestors, nearest first.
//
// Nodes reached twice are skipped, so a cyclic /Kids graph terminates.
package pages
