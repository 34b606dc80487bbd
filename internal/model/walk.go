package model

import (
	"sort"

	"github.com/agentic-research/dbgmodel/internal/path"
)

// The cached walks are pure reads of already-resident tables: no fetches, no
// suspension points. Branches whose next-key sets cannot accept any cached
// child are pruned rather than descended into.

// CollectCachedValues walks the cached view depth-first from root and returns
// every matching (path, value) pair, ordered by the canonical path comparator.
// Leaf attribute values can match but are never descended into.
func CollectCachedValues(pred path.Predicate, root Object) []Match {
	found := make(map[string]Match)
	collectValues(found, pred, nil, root)
	return sortedMatches(found)
}

func collectValues(found map[string]Match, pred path.Predicate, p path.Path, val any) {
	if pred.Matches(p) {
		found[p.String()] = Match{Path: p, Value: val}
	}
	cur, ok := val.(Object)
	if !ok || !pred.SuccessorCouldMatch(p, true) {
		return
	}
	if names := pred.NextNames(p); len(names) > 0 {
		for name, value := range cur.CachedAttributes() {
			if !path.AnyMatches(names, name) {
				continue
			}
			collectValues(found, pred, p.Extend(name), value)
		}
	}
	if indices := pred.NextIndices(p); len(indices) > 0 {
		for index, child := range cur.CachedElements() {
			if !path.AnyMatches(indices, index) {
				continue
			}
			collectValues(found, pred, p.Extend(index), child)
		}
	}
}

// CollectCachedSuccessors is the successors-variant of CollectCachedValues:
// only values that are themselves Objects are recorded or recursed into.
func CollectCachedSuccessors(pred path.Predicate, root Object) []ObjectMatch {
	found := make(map[string]ObjectMatch)
	collectSuccessors(found, pred, nil, root)
	return sortedObjectMatches(found)
}

func collectSuccessors(found map[string]ObjectMatch, pred path.Predicate, p path.Path, cur Object) {
	if pred.Matches(p) {
		found[p.String()] = ObjectMatch{Path: p, Object: cur}
	}
	if !pred.SuccessorCouldMatch(p, true) {
		return
	}
	if names := pred.NextNames(p); len(names) > 0 {
		for name, value := range cur.CachedAttributes() {
			obj, ok := value.(Object)
			if !ok || !path.AnyMatches(names, name) {
				continue
			}
			collectSuccessors(found, pred, p.Extend(name), obj)
		}
	}
	if indices := pred.NextIndices(p); len(indices) > 0 {
		for index, child := range cur.CachedElements() {
			if !path.AnyMatches(indices, index) {
				continue
			}
			collectSuccessors(found, pred, p.Extend(index), child)
		}
	}
}

func sortedMatches(found map[string]Match) []Match {
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return path.Compare(out[i].Path, out[j].Path) < 0
	})
	return out
}

func sortedObjectMatches(found map[string]ObjectMatch) []ObjectMatch {
	out := make([]ObjectMatch, 0, len(found))
	for _, m := range found {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return path.Compare(out[i].Path, out[j].Path) < 0
	})
	return out
}
