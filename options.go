package pdfdoc

import (
	"context"

	"github.com/tsawler/pdfdoc/document"
)

// ExtractOptions holds configuration for text extraction.
type ExtractOptions struct {
	// Page selection, 1-indexed; nil means all pages
	pages []int

	ctx    context.Context
	config *document.Config
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:  nil,
		ctx:    context.Background(),
		config: document.NewDefaultConfig(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{ctx: o.ctx}

	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.config != nil {
		cfg := *o.config
		newOpts.config = &cfg
	}

	return newOpts
}
