package pages

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/pdfdoc/core"
)

// mockResolver is a mock ObjectResolver for testing
type mockResolver struct {
	objects map[core.ObjectID]core.Object
}

func newMockResolver() *mockResolver {
	return &mockResolver{objects: make(map[core.ObjectID]core.Object)}
}

func (m *mockResolver) AddObject(num uint32, obj core.Object) {
	m.objects[core.ObjectID{Number: num}] = obj
}

func (m *mockResolver) Resolve(obj core.Object) (core.Object, error) {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj, nil
	}
	o, ok := m.objects[ref.ID()]
	if !ok {
		return nil, core.ErrObjectNotFound
	}
	return o, nil
}

func ref(num uint32) core.IndirectRef { return core.IndirectRef{Number: num} }

// newTwoLevelTree builds
//
//	2 Pages (MediaBox, Resources with F1)
//	├── 3 Page
//	└── 4 Pages (Rotate 90)
//	    ├── 5 Page (own Resources with F1 and F2)
//	    └── 6 Page
func newTwoLevelTree() *mockResolver {
	r := newMockResolver()
	r.AddObject(1, core.Dict{"Type": core.Name("Catalog"), "Pages": ref(2), "Version": core.Name("1.7")})
	r.AddObject(2, core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{ref(3), ref(4)},
		"Count":     core.Int(3),
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Int(612), core.Real(792)},
		"Resources": core.Dict{"Font": core.Dict{"F1": ref(10)}},
	})
	r.AddObject(3, core.Dict{"Type": core.Name("Page"), "Parent": ref(2), "Contents": ref(20)})
	r.AddObject(4, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(5), ref(6)}, "Rotate": core.Int(90), "Parent": ref(2)})
	r.AddObject(5, core.Dict{
		"Type":      core.Name("Page"),
		"Parent":    ref(4),
		"Resources": ref(30),
		"Contents":  core.Array{ref(21), ref(22)},
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Int(100), core.Int(200)},
	})
	r.AddObject(6, core.Dict{"Type": core.Name("Page"), "Parent": ref(4), "Contents": ref(23)})
	r.AddObject(10, core.Dict{"Type": core.Name("Font"), "BaseFont": core.Name("Helvetica")})
	r.AddObject(11, core.Dict{"Type": core.Name("Font"), "BaseFont": core.Name("Courier")})
	r.AddObject(12, core.Dict{"Type": core.Name("Font"), "BaseFont": core.Name("Times-Roman")})
	r.AddObject(20, core.NewStream(core.Dict{}, []byte("q Q")))
	r.AddObject(23, core.Array{ref(24), ref(25)})
	r.AddObject(30, core.Dict{"Font": core.Dict{"F1": ref(11), "F2": ref(12)}})
	return r
}

func catalogTree(t *testing.T, r *mockResolver) *PageTree {
	t.Helper()
	catalogObj, _ := r.Resolve(ref(1))
	tree, err := NewCatalog(catalogObj.(core.Dict), r).PageTree()
	if err != nil {
		t.Fatalf("PageTree: %v", err)
	}
	return tree
}

func TestCatalog(t *testing.T) {
	r := newTwoLevelTree()
	catalogObj, _ := r.Resolve(ref(1))
	catalog := NewCatalog(catalogObj.(core.Dict), r)
	if catalog.Type() != "Catalog" {
		t.Errorf("Type = %q", catalog.Type())
	}
	if catalog.Version() != "1.7" {
		t.Errorf("Version = %q", catalog.Version())
	}
	if _, err := NewCatalog(core.Dict{}, r).PageTree(); err == nil {
		t.Error("expected error for catalog without /Pages")
	}
}

func TestPageTreeOrder(t *testing.T) {
	tree := catalogTree(t, newTwoLevelTree())

	pages, err := tree.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	var got []uint32
	for _, p := range pages {
		got = append(got, p.ID().Number)
	}
	if diff := cmp.Diff([]uint32{3, 5, 6}, got); diff != "" {
		t.Errorf("page order mismatch (-want +got):\n%s", diff)
	}

	count, err := tree.Count()
	if err != nil || count != 3 {
		t.Errorf("Count = %d, %v", count, err)
	}
	page, err := tree.GetPage(1)
	if err != nil || page.ID().Number != 5 {
		t.Errorf("GetPage(1) = %v, %v", page, err)
	}
	if _, err := tree.GetPage(3); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestInheritedAttributes(t *testing.T) {
	tree := catalogTree(t, newTwoLevelTree())
	pages, err := tree.Pages()
	if err != nil {
		t.Fatal(err)
	}

	box, err := pages[0].MediaBox()
	if err != nil {
		t.Fatalf("MediaBox: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 0, 612, 792}, box); diff != "" {
		t.Errorf("inherited MediaBox (-want +got):\n%s", diff)
	}
	if h, _ := pages[1].Height(); h != 200 {
		t.Errorf("own MediaBox height = %v", h)
	}
	if crop, _ := pages[2].CropBox(); crop[2] != 612 {
		t.Errorf("CropBox should default to inherited MediaBox, got %v", crop)
	}

	if pages[0].Rotate() != 0 || pages[1].Rotate() != 90 || pages[2].Rotate() != 90 {
		t.Errorf("Rotate = %d %d %d", pages[0].Rotate(), pages[1].Rotate(), pages[2].Rotate())
	}

	res, err := pages[2].Resources()
	if err != nil || res == nil {
		t.Fatalf("inherited Resources = %v, %v", res, err)
	}
}

func TestFonts(t *testing.T) {
	tree := catalogTree(t, newTwoLevelTree())
	pages, err := tree.Pages()
	if err != nil {
		t.Fatal(err)
	}

	baseFonts := func(p *Page) map[string]string {
		fonts, err := p.Fonts()
		if err != nil {
			t.Fatalf("Fonts: %v", err)
		}
		out := make(map[string]string)
		for name, d := range fonts {
			bf, _ := d.GetName("BaseFont")
			out[name] = string(bf)
		}
		return out
	}

	if diff := cmp.Diff(map[string]string{"F1": "Helvetica"}, baseFonts(pages[0])); diff != "" {
		t.Errorf("page 1 fonts (-want +got):\n%s", diff)
	}
	// the page's own F1 shadows the inherited one
	if diff := cmp.Diff(map[string]string{"F1": "Courier", "F2": "Times-Roman"}, baseFonts(pages[1])); diff != "" {
		t.Errorf("page 2 fonts (-want +got):\n%s", diff)
	}
}

func TestContentIDs(t *testing.T) {
	tree := catalogTree(t, newTwoLevelTree())
	pages, err := tree.Pages()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		page int
		want []uint32
	}{
		{0, []uint32{20}},
		{1, []uint32{21, 22}},
		{2, []uint32{24, 25}},
	}
	for _, tt := range tests {
		ids, err := pages[tt.page].ContentIDs()
		if err != nil {
			t.Fatalf("ContentIDs: %v", err)
		}
		var got []uint32
		for _, id := range ids {
			got = append(got, id.Number)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("page %d content ids (-want +got):\n%s", tt.page, diff)
		}
	}
}

func TestCyclicTree(t *testing.T) {
	r := newMockResolver()
	r.AddObject(2, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(3), ref(2), ref(3)}})
	r.AddObject(3, core.Dict{"Type": core.Name("Page")})

	pages, err := NewPageTree(ref(2), r).Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("got %d pages, want 1", len(pages))
	}
}

func TestMissingType(t *testing.T) {
	r := newMockResolver()
	r.AddObject(2, core.Dict{"Kids": core.Array{ref(3)}})
	r.AddObject(3, core.Dict{"Contents": ref(9)})

	pages, err := NewPageTree(ref(2), r).Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 || pages[0].ID().Number != 3 {
		t.Errorf("pages = %v", pages)
	}
}

func TestPageTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		root core.Object
		objs map[uint32]core.Object
	}{
		{"missing root", ref(2), nil},
		{"root not a dict", ref(2), map[uint32]core.Object{2: core.Int(1)}},
		{"kids not an array", ref(2), map[uint32]core.Object{2: core.Dict{"Type": core.Name("Pages"), "Kids": core.Int(3)}}},
		{"unknown node type", ref(2), map[uint32]core.Object{2: core.Dict{"Type": core.Name("Font")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMockResolver()
			for n, o := range tt.objs {
				r.AddObject(n, o)
			}
			if _, err := NewPageTree(tt.root, r).Pages(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
