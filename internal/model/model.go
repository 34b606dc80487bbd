// Package model defines the live target object tree and the predicate-driven
// traversals over it. The tree is only partially known at any time: cached
// accessors expose what has already been retrieved, fetch accessors go to the
// backing store (the "remote" side) and complete the local view.
package model

import (
	"context"
	"errors"

	"github.com/agentic-research/dbgmodel/internal/path"
)

var ErrNotFound = errors.New("node not found")

// Object is one node of the target model tree.
//
// The cached accessors are synchronous, never perform I/O, and may return
// incomplete tables: absence of a key means "not yet known", not "absent
// remotely". Returned maps are snapshot copies; callers may range over them
// while the underlying cache is being populated concurrently.
//
// The fetch accessors return the complete current tables, performing remote
// I/O as needed, and may fail. Attribute values are either nested Objects or
// opaque leaf values.
type Object interface {
	CachedAttributes() map[string]any
	CachedElements() map[string]Object
	FetchAttributes(ctx context.Context) (map[string]any, error)
	FetchElements(ctx context.Context) (map[string]Object, error)
}

// Match pairs a matched path with the value found there. The value is an
// Object for interior nodes and an opaque leaf otherwise.
type Match struct {
	Path  path.Path
	Value any
}

// ObjectMatch pairs a matched path with the object found there.
type ObjectMatch struct {
	Path   path.Path
	Object Object
}
