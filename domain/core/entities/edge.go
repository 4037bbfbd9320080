package entities

// Edge is a directed connection between two node ids. Duplicate source/target
// pairs are permitted; only an identical edge id is a natural no-op on create.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgesWithout returns edges minus any touching the given node id on either
// endpoint. Used when a node is deleted.
func EdgesWithout(edges []Edge, nodeID string) []Edge {
	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source != nodeID && e.Target != nodeID {
			kept = append(kept, e)
		}
	}
	return kept
}
