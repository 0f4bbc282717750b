package font

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfdoc/core"
)

// ErrEncodingUnavailable is returned when no text encoding can be derived
// for a font, e.g. a composite font without a /ToUnicode map.
var ErrEncodingUnavailable = errors.New("font encoding unavailable")

// Resolver dereferences indirect objects found inside a font dictionary.
// Direct objects, including nil, are returned unchanged.
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(core.Object) (core.Object, error)

func (f ResolverFunc) Resolve(obj core.Object) (core.Object, error) { return f(obj) }

// Font is a view over a font dictionary
type Font struct {
	Dict core.Dict
}

// New wraps a font dictionary
func New(dict core.Dict) *Font {
	return &Font{Dict: dict}
}

// BaseFont returns the PostScript name of the font, without a subset tag.
func (f *Font) BaseFont() string {
	name, _ := f.Dict.GetName("BaseFont")
	s := string(name)
	// subset fonts look like ABCDEF+Helvetica
	if len(s) > 7 && s[6] == '+' {
		return s[7:]
	}
	return s
}

// Subtype returns /Subtype, e.g. "Type1", "TrueType" or "Type0"
func (f *Font) Subtype() string {
	name, _ := f.Dict.GetName("Subtype")
	return string(name)
}

// IsComposite reports whether the font is a Type0 font
func (f *Font) IsComposite() bool {
	return f.Subtype() == "Type0"
}

// Encoding returns the encoding used to turn shown bytes into text.
//
// A /ToUnicode map wins. Otherwise a simple font uses its /Encoding name or
// dictionary (with /Differences) and falls back to StandardEncoding.
// Composite fonts need a /ToUnicode map: their codes are glyph ids.
func (f *Font) Encoding(r Resolver) (Encoding, error) {
	if obj := f.Dict.Get("ToUnicode"); obj != nil {
		resolved, err := r.Resolve(obj)
		if err != nil {
			return nil, fmt.Errorf("resolve ToUnicode: %w", err)
		}
		if s, ok := resolved.(*core.Stream); ok {
			cmap, err := ParseToUnicodeCMap(s)
			if err == nil {
				return cmap, nil
			}
			if f.IsComposite() {
				return nil, fmt.Errorf("%w: %s: %v", ErrEncodingUnavailable, f.BaseFont(), err)
			}
		}
	}

	encObj, err := r.Resolve(f.Dict.Get("Encoding"))
	if err != nil {
		return nil, fmt.Errorf("resolve Encoding: %w", err)
	}

	if f.IsComposite() {
		return nil, fmt.Errorf("%w: composite font %s has no ToUnicode map", ErrEncodingUnavailable, f.BaseFont())
	}

	switch v := encObj.(type) {
	case nil:
		return StandardEncoding, nil
	case core.Name:
		if enc, ok := EncodingByName(string(v)); ok {
			return enc, nil
		}
		return nil, fmt.Errorf("%w: unknown encoding %s", ErrEncodingUnavailable, v)
	case core.Dict:
		base := StandardEncoding
		if name, ok := v.GetName("BaseEncoding"); ok {
			if enc, ok := EncodingByName(string(name)); ok {
				base = enc
			}
		}
		diffObj, err := r.Resolve(v.Get("Differences"))
		if err != nil {
			return nil, fmt.Errorf("resolve Differences: %w", err)
		}
		diffs, ok := diffObj.(core.Array)
		if !ok {
			return base, nil
		}
		return base.WithDifferences(diffs)
	}
	return nil, fmt.Errorf("%w: /Encoding is %s", ErrEncodingUnavailable, encObj.Type())
}
