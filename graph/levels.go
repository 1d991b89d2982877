package graph

import "github.com/BaSui01/flowgraph/types"

// Levels partitions the nodes downstream of frontier into ordered levels:
// a node's level is one more than the deepest of its sources that lies on
// a path back to the frontier, so every source is computed before its
// dependants. The frontier itself (level 0) is excluded from the result;
// inputs only supply values, they are not processed.
//
// An empty frontier defaults to every input node in the graph. Sources
// that are not reachable from the frontier contribute no depth: nodes are
// still scheduled and evaluate against whatever value is already cached
// for those sources.
//
// Identities within a level are sorted, so the same graph and frontier
// always produce the same schedule.
func Levels(g *Graph, frontier []Identity) ([][]Identity, error) {
	if len(frontier) == 0 {
		frontier = g.InputIdentities()
	}

	frontierSet := make(map[Identity]struct{}, len(frontier))
	for _, id := range frontier {
		node, ok := g.Lookup(id)
		if !ok {
			return nil, types.NewErrorf(types.ErrConfiguration, "unknown input identity %q", id)
		}
		if node.Kind() != KindInput {
			return nil, types.NewErrorf(types.ErrConfiguration, "identity %q does not name an input node", id)
		}
		frontierSet[id] = struct{}{}
	}

	// Downstream closure of the frontier.
	reachable := map[Identity]struct{}{}
	queue := append([]Identity(nil), frontier...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for dep := range g.dependants[id] {
			if _, seen := reachable[dep]; seen {
				continue
			}
			reachable[dep] = struct{}{}
			queue = append(queue, dep)
		}
	}

	depth := make(map[Identity]int, len(reachable))
	var depthOf func(id Identity) int
	depthOf = func(id Identity) int {
		if d, ok := depth[id]; ok {
			return d
		}
		max := 0
		for srcID := range g.sources[id] {
			var d int
			if _, ok := frontierSet[srcID]; ok {
				d = 1
			} else if _, ok := reachable[srcID]; ok {
				d = depthOf(srcID) + 1
			} else {
				// Source never touched by this frontier; its cached value is
				// read as-is and it adds no depth.
				continue
			}
			if d > max {
				max = d
			}
		}
		depth[id] = max
		return max
	}

	maxDepth := 0
	for id := range reachable {
		if d := depthOf(id); d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]Identity, maxDepth)
	for id, d := range depth {
		levels[d-1] = append(levels[d-1], id)
	}
	for _, level := range levels {
		sortIdentities(level)
	}
	return levels, nil
}
