// Package api holds the public document formats consumed and produced by
// dbgmodel: model snapshots and session configuration.
package api

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
)

// Snapshot is a serialized dump of a target model tree, used to seed stores
// and to exchange models between tools.
type Snapshot struct {
	// Version of the snapshot format.
	Version string `json:"version"`
	// Root node of the model tree.
	Root *SnapNode `json:"root"`
}

// SnapNode is one node of a snapshot.
type SnapNode struct {
	// Attributes maps name keys to opaque leaf values.
	Attributes map[string]any `json:"attributes,omitempty"`
	// Children maps name keys to nested object nodes.
	Children map[string]*SnapNode `json:"children,omitempty"`
	// Elements maps index keys to nested object nodes.
	Elements map[string]*SnapNode `json:"elements,omitempty"`
}

// DecodeSnapshot parses a snapshot document. Parsing is lenient about number
// forms and key order but the overall shape must match the Snapshot schema.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	top, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("snapshot: expected object at top level, got %T", parsed)
	}
	snap := &Snapshot{}
	if v, ok := top["version"].(string); ok {
		snap.Version = v
	}
	if rootRaw, ok := top["root"]; ok {
		root, err := decodeSnapNode(rootRaw, "root")
		if err != nil {
			return nil, err
		}
		snap.Root = root
	}
	return snap, nil
}

func decodeSnapNode(raw any, where string) (*SnapNode, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("snapshot: %s: expected object, got %T", where, raw)
	}
	node := &SnapNode{}
	if attrs, ok := m["attributes"]; ok {
		am, ok := attrs.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("snapshot: %s.attributes: expected object, got %T", where, attrs)
		}
		node.Attributes = am
	}
	if children, ok := m["children"]; ok {
		cm, ok := children.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("snapshot: %s.children: expected object, got %T", where, children)
		}
		node.Children = make(map[string]*SnapNode, len(cm))
		for name, childRaw := range cm {
			child, err := decodeSnapNode(childRaw, where+"."+name)
			if err != nil {
				return nil, err
			}
			node.Children[name] = child
		}
	}
	if elems, ok := m["elements"]; ok {
		em, ok := elems.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("snapshot: %s.elements: expected object, got %T", where, elems)
		}
		node.Elements = make(map[string]*SnapNode, len(em))
		for index, childRaw := range em {
			child, err := decodeSnapNode(childRaw, fmt.Sprintf("%s[%s]", where, index))
			if err != nil {
				return nil, err
			}
			node.Elements[index] = child
		}
	}
	return node, nil
}

// EncodeSnapshot renders a snapshot back to its document form.
func EncodeSnapshot(snap *Snapshot) []byte {
	return []byte(oj.JSON(snapToAny(snap), &oj.Options{Sort: true, Indent: 2}))
}

func snapToAny(snap *Snapshot) map[string]any {
	out := map[string]any{"version": snap.Version}
	if snap.Root != nil {
		out["root"] = nodeToAny(snap.Root)
	}
	return out
}

func nodeToAny(n *SnapNode) map[string]any {
	out := map[string]any{}
	if len(n.Attributes) > 0 {
		out["attributes"] = n.Attributes
	}
	if len(n.Children) > 0 {
		cm := map[string]any{}
		for name, child := range n.Children {
			cm[name] = nodeToAny(child)
		}
		out["children"] = cm
	}
	if len(n.Elements) > 0 {
		em := map[string]any{}
		for index, child := range n.Elements {
			em[index] = nodeToAny(child)
		}
		out["elements"] = em
	}
	return out
}
