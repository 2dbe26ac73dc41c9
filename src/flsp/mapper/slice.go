package mapper

import (
	"sort"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
)

// ReconcileSlice intersects the slice ids with the location map and returns one located
// node per distinct id, ordered by source position. Ids without a location are dropped.
func ReconcileSlice(ids []entity.NodeID, locations entity.LocationMap) []entity.LocatedNode {
	seen := make(map[entity.NodeID]struct{}, len(ids))
	nodes := make([]entity.LocatedNode, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		r, ok := locations[id]
		if !ok {
			continue
		}
		nodes = append(nodes, entity.LocatedNode{ID: id, Location: r})
	}

	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Location != b.Location {
			return a.Location.Less(b.Location)
		}
		return a.ID < b.ID
	})
	return nodes
}
