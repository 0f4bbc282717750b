package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCatalog reports a trailer without a usable /Root.
	ErrNoCatalog = errors.New("document catalog not found")
	// ErrInvalidHeader reports data that does not start like a PDF file.
	ErrInvalidHeader = errors.New("invalid PDF header")
	// ErrNotAPage reports an object id that is not a page of the document.
	ErrNotAPage = errors.New("object is not a page")
)

// PageNotFoundError reports a page number outside the document
type PageNotFoundError struct {
	Page int
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %d not found", e.Page)
}
