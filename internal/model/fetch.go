package model

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentic-research/dbgmodel/internal/path"
)

// FetchSuccessors performs the same logical traversal as
// CollectCachedSuccessors but fetches the complete attribute/element tables
// wherever the predicate could still extend past a node. Each node issues at
// most two remote requests, attributes and elements, and only the ones its
// next-key sets can actually use. Every request that resolves may fan out
// further concurrent branches for its matching children.
//
// All branches join on one group: the walk completes when every branch has,
// and fails with the first branch error. Siblings are not cancelled on
// failure; the caller's ctx is passed through to the fetches untouched, so
// external cancellation follows whatever contract the store offers. On error
// the partially filled result set is discarded.
func FetchSuccessors(ctx context.Context, pred path.Predicate, root Object) ([]ObjectMatch, error) {
	res := &resultSet{found: make(map[string]ObjectMatch)}
	var g errgroup.Group
	g.Go(func() error {
		return fetchSuccessors(ctx, &g, res, pred, nil, root)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res.sorted(), nil
}

func fetchSuccessors(ctx context.Context, g *errgroup.Group, res *resultSet,
	pred path.Predicate, p path.Path, cur Object) error {
	if pred.Matches(p) {
		res.put(p, cur)
	}
	if !pred.SuccessorCouldMatch(p, true) {
		return nil
	}
	if names := pred.NextNames(p); len(names) > 0 {
		g.Go(func() error {
			attrs, err := cur.FetchAttributes(ctx)
			if err != nil {
				return fmt.Errorf("fetch attributes at %q: %w", p.String(), err)
			}
			for name, value := range attrs {
				obj, ok := value.(Object)
				if !ok || !path.AnyMatches(names, name) {
					continue
				}
				child := p.Extend(name)
				g.Go(func() error {
					return fetchSuccessors(ctx, g, res, pred, child, obj)
				})
			}
			return nil
		})
	}
	if indices := pred.NextIndices(p); len(indices) > 0 {
		g.Go(func() error {
			elems, err := cur.FetchElements(ctx)
			if err != nil {
				return fmt.Errorf("fetch elements at %q: %w", p.String(), err)
			}
			for index, obj := range elems {
				if !path.AnyMatches(indices, index) {
					continue
				}
				child := p.Extend(index)
				g.Go(func() error {
					return fetchSuccessors(ctx, g, res, pred, child, obj)
				})
			}
			return nil
		})
	}
	return nil
}

// resultSet is the one container shared across concurrent branches. Writers
// serialize on the mutex; reads happen only after the group has been waited
// on.
type resultSet struct {
	mu    sync.Mutex
	found map[string]ObjectMatch
}

func (r *resultSet) put(p path.Path, obj Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found[p.String()] = ObjectMatch{Path: p, Object: obj}
}

func (r *resultSet) sorted() []ObjectMatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedObjectMatches(r.found)
}
