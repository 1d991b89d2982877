package flow

import (
	"sort"
	"strings"

	"github.com/BaSui01/flowgraph/graph"
)

// failurePaths recovers every path of labels from a labelled ancestor down
// to the failing node. The walk ascends the reverse adjacency until it
// reaches a node with no dependants (always labelled, since roots of
// insertion are the explicitly registered nodes) and substitutes, at each
// hop, the source label under which the downstream node refers to the
// node below it. A node shared by multiple dependants yields one path per
// route; acyclicity guarantees termination.
func failurePaths(g *graph.Graph, failing graph.Identity) [][]string {
	memo := map[graph.Identity][][]string{}

	var pathsFor func(id graph.Identity) [][]string
	pathsFor = func(id graph.Identity) [][]string {
		if cached, ok := memo[id]; ok {
			return cached
		}

		deps := g.DependantsOf(id)
		if len(deps) == 0 {
			label, ok := g.LabelOf(id)
			if !ok {
				// Insertion roots are always registered under a label, so a
				// dependant-free node without one means a construction path
				// broke that invariant; the raw identity is the only name left.
				label = string(id)
			}
			paths := [][]string{{label}}
			memo[id] = paths
			return paths
		}

		var paths [][]string
		for _, dep := range deps {
			node, ok := g.Lookup(dep)
			if !ok {
				continue
			}
			for srcLabel, src := range node.Sources() {
				if src.ID() != id {
					continue
				}
				for _, prefix := range pathsFor(dep) {
					path := make([]string, 0, len(prefix)+1)
					path = append(path, prefix...)
					path = append(path, srcLabel)
					paths = append(paths, path)
				}
			}
		}
		memo[id] = paths
		return paths
	}

	paths := pathsFor(failing)
	sort.Slice(paths, func(i, j int) bool {
		return strings.Join(paths[i], "\x00") < strings.Join(paths[j], "\x00")
	})
	return paths
}
