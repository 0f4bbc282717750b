package document

import (
	"fmt"

	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/logger"
	"github.com/tsawler/pdfdoc/pages"
	"github.com/tsawler/pdfdoc/resolver"
)

// Document is an in-memory PDF: an arena of objects keyed by id, plus the
// trailer that names the catalog.
type Document struct {
	// Version is the header version, e.g. "1.7"
	Version string
	Trailer core.Dict
	Objects map[core.ObjectID]core.Object
	// MaxID is the highest object number in use; AddObject allocates above it.
	MaxID uint32
	// XRef is the merged cross-reference table the document was loaded from
	XRef     *core.XRefTable
	Warnings []core.Warning

	cfg      *Config
	resolver *resolver.ObjectResolver
}

// Ensure Document can serve the page tree and the resolver
var (
	_ pages.ObjectResolver  = (*Document)(nil)
	_ resolver.ObjectReader = (*Document)(nil)
)

// New creates an empty document
func New() *Document {
	return newDocument(NewDefaultConfig())
}

func newDocument(cfg *Config) *Document {
	d := &Document{
		Version: "1.7",
		Trailer: core.Dict{},
		Objects: make(map[core.ObjectID]core.Object),
		cfg:     cfg,
	}
	d.resolver = resolver.NewResolver(d, resolver.WithMaxDepth(cfg.MaxResolveDepth))
	return d
}

// Config returns the configuration the document was created with
func (d *Document) Config() *Config { return d.cfg }

// GetObject returns the object stored under id
func (d *Document) GetObject(id core.ObjectID) (core.Object, error) {
	obj, ok := d.Objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrObjectNotFound, id)
	}
	return obj, nil
}

// GetDict returns the dictionary stored under id. A stream yields its
// dictionary.
func (d *Document) GetDict(id core.ObjectID) (core.Dict, error) {
	obj, err := d.GetObject(id)
	if err != nil {
		return nil, err
	}
	dict, err := core.AsDict(obj)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	return dict, nil
}

// NewObjectID reserves the next free object id
func (d *Document) NewObjectID() core.ObjectID {
	d.MaxID++
	return core.ObjectID{Number: d.MaxID}
}

// AddObject stores obj under a new id and returns the id
func (d *Document) AddObject(obj core.Object) core.ObjectID {
	id := d.NewObjectID()
	d.Objects[id] = obj
	return id
}

// SetObject stores obj under id, replacing any previous object
func (d *Document) SetObject(id core.ObjectID, obj core.Object) {
	d.Objects[id] = obj
	if id.Number > d.MaxID {
		d.MaxID = id.Number
	}
}

// DeleteObject removes the object stored under id and reports whether
// there was one. References to it are left in place.
func (d *Document) DeleteObject(id core.ObjectID) bool {
	if _, ok := d.Objects[id]; !ok {
		return false
	}
	delete(d.Objects, id)
	return true
}

// Resolve follows references until it reaches a direct object
func (d *Document) Resolve(obj core.Object) (core.Object, error) {
	return d.resolver.Resolve(obj)
}

// ResolveDeep returns obj with every nested reference replaced
func (d *Document) ResolveDeep(obj core.Object) (core.Object, error) {
	return d.resolver.ResolveDeep(obj)
}

// Catalog returns the document catalog named by the trailer's /Root
func (d *Document) Catalog() (core.Dict, error) {
	root := d.Trailer.Get("Root")
	if root == nil {
		return nil, fmt.Errorf("%w: trailer has no /Root", ErrNoCatalog)
	}
	dict, err := d.resolver.ResolveDictOf(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCatalog, err)
	}
	return dict, nil
}

// Info returns the document information dictionary, or nil
func (d *Document) Info() (core.Dict, error) {
	info := d.Trailer.Get("Info")
	if info == nil {
		return nil, nil
	}
	return d.resolver.ResolveDictOf(info)
}

func (d *Document) warn(component, format string, args ...interface{}) {
	w := core.Warnf(component, format, args...)
	logger.Warn(component + ": " + w.Message)
	d.Warnings = append(d.Warnings, w)
}
