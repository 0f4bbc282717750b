package pages

import (
	"fmt"

	"github.com/tsawler/pdfdoc/core"
	"github.com/tsawler/pdfdoc/logger"
)

// ObjectResolver resolves indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{dict: dict, resolver: resolver}
}

// Type returns the catalog type (should be "Catalog")
func (c *Catalog) Type() string {
	name, _ := c.dict.GetName("Type")
	return string(name)
}

// Version returns the /Version entry if present
func (c *Catalog) Version() string {
	name, _ := c.dict.GetName("Version")
	return string(name)
}

// PageTree returns the page tree rooted at /Pages
func (c *Catalog) PageTree() (*PageTree, error) {
	root := c.dict.Get("Pages")
	if root == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}
	return NewPageTree(root, c.resolver), nil
}

// PageTree walks the /Kids hierarchy and flattens it into document order.
type PageTree struct {
	root     core.Object
	resolver ObjectResolver
	pages    []*Page
	visited  map[core.ObjectID]bool
}

// NewPageTree creates a page tree from the root Pages node, usually an
// indirect reference.
func NewPageTree(root core.Object, resolver ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: resolver}
}

// Count returns the number of pages reachable from the root. /Count is
// not trusted.
func (t *PageTree) Count() (int, error) {
	pages, err := t.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// Pages returns all pages in document order
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}
	t.pages = make([]*Page, 0)
	t.visited = make(map[core.ObjectID]bool)
	if err := t.traverse(t.root, nil); err != nil {
		t.pages = nil
		return nil, fmt.Errorf("failed to traverse page tree: %w", err)
	}
	return t.pages, nil
}

// traverse visits one node. ancestors holds the Pages nodes above it,
// nearest last. A node reached a second time is skipped, which breaks
// cycles in malformed trees.
func (t *PageTree) traverse(nodeObj core.Object, ancestors []core.Dict) error {
	var id core.ObjectID
	if ref, ok := nodeObj.(core.IndirectRef); ok {
		id = ref.ID()
		if t.visited[id] {
			logger.Warn("page tree: node visited twice, skipping", "object", id.String())
			return nil
		}
		t.visited[id] = true
	}

	resolved, err := t.resolver.Resolve(nodeObj)
	if err != nil {
		return fmt.Errorf("failed to resolve page node: %w", err)
	}
	node, ok := resolved.(core.Dict)
	if !ok {
		return fmt.Errorf("invalid page node type: %s", typeOf(resolved))
	}

	typeName, _ := node.GetName("Type")
	if typeName == "" {
		// tolerate a missing /Type
		if node.Has("Kids") {
			typeName = "Pages"
		} else {
			typeName = "Page"
		}
	}

	switch typeName {
	case "Pages":
		kidsResolved, err := t.resolver.Resolve(node.Get("Kids"))
		if err != nil {
			return fmt.Errorf("failed to resolve /Kids: %w", err)
		}
		kids, ok := kidsResolved.(core.Array)
		if !ok {
			return fmt.Errorf("invalid /Kids type: %s", typeOf(kidsResolved))
		}
		chain := append(ancestors[:len(ancestors):len(ancestors)], node)
		for i, kid := range kids {
			if err := t.traverse(kid, chain); err != nil {
				return fmt.Errorf("kid %d: %w", i, err)
			}
		}
	case "Page":
		t.pages = append(t.pages, NewPage(id, node, ancestors, t.resolver))
	default:
		return fmt.Errorf("unexpected page node type: %s", typeName)
	}
	return nil
}

func typeOf(obj core.Object) string {
	if obj == nil {
		return "nil"
	}
	return obj.Type().String()
}
