package flow

import (
	"sort"
	"strings"

	"github.com/BaSui01/flowgraph/graph"
	"github.com/BaSui01/flowgraph/types"
)

// compilationCache memoizes compiled schedules per distinct input label
// set. It is owned by a single Context value and only ever extended by
// copy: context values derived from the same lineage each hold their own
// cache, so none can observe another's mutations.
type compilationCache map[string]Schedule

func (c compilationCache) extend(key string, schedule Schedule) compilationCache {
	out := make(compilationCache, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[key] = schedule
	return out
}

// cacheKey canonicalizes a set of input labels. Order of the supplied
// labels never matters.
func cacheKey(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// resolveInputs maps input labels to node identities, validating that
// every label exists and names an input node.
func resolveInputs(g *graph.Graph, labels []string) ([]graph.Identity, error) {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	ids := make([]graph.Identity, 0, len(sorted))
	for _, label := range sorted {
		id, ok := g.Resolve(label)
		if !ok {
			return nil, types.NewErrorf(types.ErrConfiguration, "unknown label %q", label).WithLabel(label)
		}
		node, _ := g.Lookup(id)
		if node.Kind() != graph.KindInput {
			return nil, types.NewErrorf(types.ErrConfiguration, "label %q does not name an input node", label).WithLabel(label)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
