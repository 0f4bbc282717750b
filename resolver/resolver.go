package resolver

import (
	"fmt"

	"github.com/tsawler/pdfdoc/core"
)

// ObjectReader gives the resolver access to a document's objects
type ObjectReader interface {
	GetObject(id core.ObjectID) (core.Object, error)
}

// ObjectResolver resolves indirect references, optionally through nested
// dictionaries, arrays and stream dictionaries. It keeps no state between
// calls, so one resolver can serve concurrent readers.
type ObjectResolver struct {
	reader   ObjectReader
	maxDepth int
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		maxDepth: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// walk is the state of one top-level resolution. visited holds the
// references on the current path only.
type walk struct {
	r       *ObjectResolver
	deep    bool
	depth   int
	visited map[core.ObjectID]bool
}

// Resolve follows indirect references until it reaches a direct object.
// Dictionaries and arrays are returned as they are. nil resolves to nil.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	w := &walk{r: r, visited: make(map[core.ObjectID]bool)}
	return w.resolve(obj)
}

// ResolveDeep returns a copy of obj with every reference inside it
// replaced by the object it points to.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	w := &walk{r: r, deep: true, visited: make(map[core.ObjectID]bool)}
	return w.resolve(obj)
}

func (w *walk) resolve(obj core.Object) (core.Object, error) {
	if w.depth >= w.r.maxDepth {
		return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", w.r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		id := v.ID()
		if w.visited[id] {
			return nil, fmt.Errorf("circular reference detected for object %s", id)
		}
		w.visited[id] = true
		defer delete(w.visited, id)

		target, err := w.r.reader.GetObject(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %s: %w", id, err)
		}
		w.depth++
		defer func() { w.depth-- }()
		return w.resolve(target)

	case core.Dict:
		if !w.deep {
			return v, nil
		}
		resolved := make(core.Dict, len(v))
		for key, value := range v {
			rv, err := w.child(value)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			resolved[key] = rv
		}
		return resolved, nil

	case core.Array:
		if !w.deep {
			return v, nil
		}
		resolved := make(core.Array, len(v))
		for i, elem := range v {
			re, err := w.child(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = re
		}
		return resolved, nil

	case *core.Stream:
		if !w.deep {
			return v, nil
		}
		rd, err := w.child(v.Dict)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		return &core.Stream{Dict: rd.(core.Dict), Data: v.Data}, nil
	}
	return obj, nil
}

func (w *walk) child(obj core.Object) (core.Object, error) {
	w.depth++
	defer func() { w.depth-- }()
	return w.resolve(obj)
}

// ResolveDict deep-resolves a dictionary
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray deep-resolves an array
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// ResolveReference resolves a single indirect reference
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.Resolve(ref)
}

// ResolveDictOf resolves obj and requires the result to be a dictionary. A
// stream yields its dictionary.
func (r *ObjectResolver) ResolveDictOf(obj core.Object) (core.Dict, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	return core.AsDict(resolved)
}

// GetObject loads an object by id without resolving it
func (r *ObjectResolver) GetObject(id core.ObjectID) (core.Object, error) {
	return r.reader.GetObject(id)
}

// GetObjectResolvedDeep loads and fully resolves an object by id
func (r *ObjectResolver) GetObjectResolvedDeep(id core.ObjectID) (core.Object, error) {
	obj, err := r.reader.GetObject(id)
	if err != nil {
		return nil, err
	}
	return r.ResolveDeep(obj)
}
