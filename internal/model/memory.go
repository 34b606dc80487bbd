package model

import (
	"context"
	"sync"

	"github.com/agentic-research/dbgmodel/api"
)

// Node is the in-memory Object implementation. Its tables are guarded by a
// RWMutex so the owning session can keep populating them while traversals
// read; every accessor hands out a copy, never the live map.
//
// For a Node the cached view is the whole truth, so fetches are cache hits.
type Node struct {
	mu    sync.RWMutex
	attrs map[string]any
	elems map[string]Object
}

func NewNode() *Node {
	return &Node{
		attrs: make(map[string]any),
		elems: make(map[string]Object),
	}
}

// SetAttribute records a named child value. The value may be an Object or an
// opaque leaf.
func (n *Node) SetAttribute(name string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attrs[name] = value
}

// SetElement records an indexed child object.
func (n *Node) SetElement(index string, child Object) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.elems[index] = child
}

// CachedAttributes implements Object.
func (n *Node) CachedAttributes() map[string]any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]any, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// CachedElements implements Object.
func (n *Node) CachedElements() map[string]Object {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]Object, len(n.elems))
	for k, v := range n.elems {
		out[k] = v
	}
	return out
}

// FetchAttributes implements Object.
func (n *Node) FetchAttributes(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return n.CachedAttributes(), nil
}

// FetchElements implements Object.
func (n *Node) FetchElements(ctx context.Context) (map[string]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return n.CachedElements(), nil
}

// FromSnapshot builds an in-memory object tree from a snapshot document.
func FromSnapshot(snap *api.Snapshot) *Node {
	if snap == nil || snap.Root == nil {
		return NewNode()
	}
	return nodeFromSnap(snap.Root)
}

func nodeFromSnap(sn *api.SnapNode) *Node {
	n := NewNode()
	for name, v := range sn.Attributes {
		n.attrs[name] = v
	}
	for name, child := range sn.Children {
		n.attrs[name] = nodeFromSnap(child)
	}
	for idx, child := range sn.Elements {
		n.elems[idx] = nodeFromSnap(child)
	}
	return n
}
