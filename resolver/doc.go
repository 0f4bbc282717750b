// Package resolver follows indirect references through a document's
// objects.
//
//	r := resolver.NewResolver(doc)
//	obj, err := r.Resolve(ref)        // follows reference chains
//	full, err := r.ResolveDeep(dict)  // copies, replacing nested references
//
// Circular references and runaway nesting are reported as errors; the
// depth limit is configurable with [WithMaxDepth]. A resolver keeps no
// state between calls.
package resolver
