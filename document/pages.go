package document

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/pdfdoc/contentstream"
	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/font"
	"github.com/tsawler/pdfdoc/pages"
	"github.com/tsawler/pdfdoc/text"
)

// pageList returns the pages in document order
func (d *Document) pageList() ([]*pages.Page, error) {
	catalog, err := d.Catalog()
	if err != nil {
		return nil, err
	}
	tree, err := pages.NewCatalog(catalog, d).PageTree()
	if err != nil {
		return nil, err
	}
	return tree.Pages()
}

// GetPages maps page numbers, starting at 1, to page object ids
func (d *Document) GetPages() (map[int]core.ObjectID, error) {
	list, err := d.pageList()
	if err != nil {
		return nil, err
	}
	out := make(map[int]core.ObjectID, len(list))
	for i, p := range list {
		out[i+1] = p.ID()
	}
	return out, nil
}

// PageCount returns the number of pages
func (d *Document) PageCount() (int, error) {
	list, err := d.pageList()
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// PageID returns the object id of a page by number, starting at 1
func (d *Document) PageID(number int) (core.ObjectID, error) {
	list, err := d.pageList()
	if err != nil {
		return core.ObjectID{}, err
	}
	if number < 1 || number > len(list) {
		return core.ObjectID{}, &PageNotFoundError{Page: number}
	}
	return list[number-1].ID(), nil
}

func (d *Document) page(id core.ObjectID) (*pages.Page, error) {
	list, err := d.pageList()
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotAPage, id)
}

// GetPageFonts returns the font dictionaries a page can use, keyed by
// resource name, including fonts inherited from the page tree.
func (d *Document) GetPageFonts(pageID core.ObjectID) (map[string]core.Dict, error) {
	p, err := d.page(pageID)
	if err != nil {
		return nil, err
	}
	return p.Fonts()
}

// pageEncodings resolves the encoding of every font on a page. Fonts whose
// encoding cannot be derived are left out and reported in errs, in resource
// name order.
func (d *Document) pageEncodings(pageID core.ObjectID) (text.Encodings, []error, error) {
	fonts, err := d.GetPageFonts(pageID)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(fonts))
	for name := range fonts {
		names = append(names, name)
	}
	sort.Strings(names)

	encodings := make(text.Encodings, len(fonts))
	var errs []error
	for _, name := range names {
		enc, err := font.New(fonts[name]).Encoding(d)
		if err != nil {
			errs = append(errs, fmt.Errorf("font %s: %w", name, err))
			continue
		}
		encodings[name] = enc
	}
	return encodings, errs, nil
}

// GetPageContent returns the decoded content of a page: every content
// stream, in order, joined by newlines where needed. A stream whose filter
// cannot be decoded contributes its raw bytes.
func (d *Document) GetPageContent(pageID core.ObjectID) ([]byte, error) {
	p, err := d.page(pageID)
	if err != nil {
		return nil, err
	}
	ids, err := p.ContentIDs()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, id := range ids {
		obj, err := d.GetObject(id)
		if err != nil {
			d.warn("content", "page %s: content stream %s missing", pageID, id)
			continue
		}
		s, ok := obj.(*core.Stream)
		if !ok {
			d.warn("content", "page %s: content %s is %s, not a stream", pageID, id, obj.Type())
			continue
		}
		data, err := s.Decode()
		if err != nil {
			d.warn("content", "page %s: stream %s used raw: %v", pageID, id, err)
			data = s.Data
		}
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// GetAndDecodePageContent returns the page content as operations
func (d *Document) GetAndDecodePageContent(pageID core.ObjectID) (*contentstream.Content, error) {
	data, err := d.GetPageContent(pageID)
	if err != nil {
		return nil, err
	}
	content, err := contentstream.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", pageID, err)
	}
	return content, nil
}

// ChangePageContent replaces the content of a page. A page with a single
// content stream has that stream rewritten in place; otherwise a new stream
// replaces /Contents.
func (d *Document) ChangePageContent(pageID core.ObjectID, content []byte) error {
	p, err := d.page(pageID)
	if err != nil {
		return err
	}
	ids, err := p.ContentIDs()
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		if obj, ok := d.Objects[ids[0]]; ok {
			if s, ok := obj.(*core.Stream); ok {
				return d.setStreamContent(s, content)
			}
		}
	}
	s, err := d.newContentStream(content)
	if err != nil {
		return err
	}
	p.Dict().Set("Contents", d.AddObject(s).Ref())
	return nil
}

// AddPageContents appends one content stream to a page, leaving the
// existing streams untouched.
func (d *Document) AddPageContents(pageID core.ObjectID, content []byte) error {
	p, err := d.page(pageID)
	if err != nil {
		return err
	}
	s, err := d.newContentStream(content)
	if err != nil {
		return err
	}
	ref := d.AddObject(s).Ref()

	dict := p.Dict()
	switch v := dict.Get("Contents").(type) {
	case nil:
		dict.Set("Contents", ref)
	case core.Array:
		dict.Set("Contents", append(v, ref))
	case core.IndirectRef:
		target, err := d.Resolve(v)
		if err != nil {
			return fmt.Errorf("resolve Contents: %w", err)
		}
		if arr, ok := target.(core.Array); ok {
			d.SetObject(v.ID(), append(arr, ref))
		} else {
			dict.Set("Contents", core.Array{v, ref})
		}
	default:
		return fmt.Errorf("page %s: invalid Contents type %s", pageID, v.Type())
	}
	return nil
}

// AddXObject binds an XObject under name in the page's /Resources. A page
// that only inherits its resources gets its own copy first.
func (d *Document) AddXObject(pageID core.ObjectID, name string, xobject core.ObjectID) error {
	p, err := d.page(pageID)
	if err != nil {
		return err
	}
	resources, err := d.ownResources(p)
	if err != nil {
		return err
	}

	ref := xobject.Ref()
	switch v := resources.Get("XObject").(type) {
	case nil:
		resources.Set("XObject", core.Dict{name: ref})
	case core.Dict:
		// the dictionary may be shared with other pages
		x := v.Clone()
		x.Set(name, ref)
		resources.Set("XObject", x)
	case core.IndirectRef:
		x, err := d.resolver.ResolveDictOf(v)
		if err != nil {
			return fmt.Errorf("resolve XObject: %w", err)
		}
		x.Set(name, ref)
	default:
		return fmt.Errorf("page %s: invalid XObject type %s", pageID, v.Type())
	}
	return nil
}

// ownResources returns a resource dictionary that belongs to the page.
func (d *Document) ownResources(p *pages.Page) (core.Dict, error) {
	dict := p.Dict()
	switch v := dict.Get("Resources").(type) {
	case core.Dict:
		return v, nil
	case core.IndirectRef:
		return d.resolver.ResolveDictOf(v)
	case nil:
		inherited, err := p.Resources()
		if err != nil {
			return nil, err
		}
		res := core.Dict{}
		if inherited != nil {
			res = inherited.Clone()
		}
		dict.Set("Resources", res)
		return res, nil
	default:
		return nil, fmt.Errorf("page %s: invalid Resources type %s", p.ID(), v.Type())
	}
}

func (d *Document) newContentStream(content []byte) (*core.Stream, error) {
	s := core.NewStream(core.Dict{}, content)
	if d.cfg.CompressStreams {
		if err := s.Compress(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (d *Document) setStreamContent(s *core.Stream, content []byte) error {
	s.Dict.Delete("Filter", "DecodeParms")
	s.SetContent(content)
	if d.cfg.CompressStreams {
		return s.Compress()
	}
	return nil
}

// IsPageNotFound reports whether err is a *PageNotFoundError
func IsPageNotFound(err error) bool {
	var pnf *PageNotFoundError
	return errors.As(err, &pnf)
}
