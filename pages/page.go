package pages

import (
	"fmt"

	"github.com/tsawler/pdfdoc/core"
)

// Page represents a single PDF page
type Page struct {
	id        core.ObjectID
	dict      core.Dict
	ancestors []core.Dict // Pages nodes above the page, nearest last
	resolver  ObjectResolver
}

// NewPage creates a page view. id is the zero ObjectID for a page
// dictionary stored inline in /Kids.
func NewPage(id core.ObjectID, dict core.Dict, ancestors []core.Dict, resolver ObjectResolver) *Page {
	return &Page{id: id, dict: dict, ancestors: ancestors, resolver: resolver}
}

// ID returns the object id of the page dictionary
func (p *Page) ID() core.ObjectID { return p.id }

// Dict returns the page dictionary
func (p *Page) Dict() core.Dict { return p.dict }

// inherited looks key up on the page, then on each ancestor from the
// nearest up.
func (p *Page) inherited(key string) core.Object {
	if obj := p.dict.Get(key); obj != nil {
		return obj
	}
	for i := len(p.ancestors) - 1; i >= 0; i-- {
		if obj := p.ancestors[i].Get(key); obj != nil {
			return obj
		}
	}
	return nil
}

// MediaBox returns the page media box [x1 y1 x2 y2]
func (p *Page) MediaBox() ([]float64, error) {
	return p.getBox("MediaBox")
}

// CropBox returns the page crop box, defaulting to the media box
func (p *Page) CropBox() ([]float64, error) {
	box, err := p.getBox("CropBox")
	if err != nil {
		return p.MediaBox()
	}
	return box, nil
}

func (p *Page) getBox(name string) ([]float64, error) {
	boxObj := p.inherited(name)
	if boxObj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}
	resolved, err := p.resolver.Resolve(boxObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	arr, err := core.AsArray(resolved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(arr) != 4 {
		return nil, fmt.Errorf("invalid %s length: %d (expected 4)", name, len(arr))
	}
	box := make([]float64, 4)
	for i, elem := range arr {
		v, err := core.AsReal(elem)
		if err != nil {
			return nil, fmt.Errorf("%s element %d: %w", name, i, err)
		}
		box[i] = float64(v)
	}
	return box, nil
}

// Rotate returns the page rotation (0, 90, 180, or 270)
func (p *Page) Rotate() int {
	if rotate, ok := p.inherited("Rotate").(core.Int); ok {
		return int(rotate)
	}
	return 0
}

// Resources returns the page resources dictionary, inherited when the page
// has none. A page without resources yields nil and no error.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.inherited("Resources")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	return core.AsDict(resolved)
}

// Fonts returns the font dictionaries available to the page, keyed by
// resource name. The page's own /Resources come first; fonts from the
// resources of ancestor nodes fill in names the page does not define.
func (p *Page) Fonts() (map[string]core.Dict, error) {
	fonts := make(map[string]core.Dict)
	levels := make([]core.Dict, 0, len(p.ancestors)+1)
	levels = append(levels, p.dict)
	for i := len(p.ancestors) - 1; i >= 0; i-- {
		levels = append(levels, p.ancestors[i])
	}
	for _, level := range levels {
		if err := p.collectFonts(level.Get("Resources"), fonts); err != nil {
			return nil, err
		}
	}
	return fonts, nil
}

func (p *Page) collectFonts(resObj core.Object, fonts map[string]core.Dict) error {
	if resObj == nil {
		return nil
	}
	res, err := p.resolver.Resolve(resObj)
	if err != nil {
		return fmt.Errorf("failed to resolve Resources: %w", err)
	}
	resDict, ok := res.(core.Dict)
	if !ok {
		return nil
	}
	fontObj, err := p.resolver.Resolve(resDict.Get("Font"))
	if err != nil {
		return fmt.Errorf("failed to resolve font dictionary: %w", err)
	}
	fontDict, ok := fontObj.(core.Dict)
	if !ok {
		return nil
	}
	for _, name := range fontDict.Keys() {
		if _, seen := fonts[name]; seen {
			continue
		}
		f, err := p.resolver.Resolve(fontDict[name])
		if err != nil {
			return fmt.Errorf("failed to resolve font %s: %w", name, err)
		}
		if d, ok := f.(core.Dict); ok {
			fonts[name] = d
		}
	}
	return nil
}

// ContentIDs returns the object ids of the page's content streams, in
// order. /Contents may be one reference, an array of references, or a
// reference to such an array.
func (p *Page) ContentIDs() ([]core.ObjectID, error) {
	obj := p.dict.Get("Contents")
	switch v := obj.(type) {
	case nil:
		return nil, nil
	case core.IndirectRef:
		target, err := p.resolver.Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve Contents: %w", err)
		}
		if arr, ok := target.(core.Array); ok {
			return refIDs(arr), nil
		}
		return []core.ObjectID{v.ID()}, nil
	case core.Array:
		return refIDs(v), nil
	}
	return nil, fmt.Errorf("invalid Contents type: %s", typeOf(obj))
}

func refIDs(arr core.Array) []core.ObjectID {
	ids := make([]core.ObjectID, 0, len(arr))
	for _, item := range arr {
		if ref, ok := item.(core.IndirectRef); ok {
			ids = append(ids, ref.ID())
		}
	}
	return ids
}

// Width returns the page width (from MediaBox)
func (p *Page) Width() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[2] - box[0], nil
}

// Height returns the page height (from MediaBox)
func (p *Page) Height() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[3] - box[1], nil
}
