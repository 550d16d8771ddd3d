// Package teamgraph builds the undirected weighted player co-occurrence
// graph used for team and community detection.
package teamgraph

import (
	"sort"

	"barrank/internal/model"
)

// PairKey identifies an unordered player pair, ordered A < B.
type PairKey struct {
	A, B uint64
}

// NewPairKey normalises the pair ordering.
func NewPairKey(a, b uint64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Edge accumulates shared-match counts for one player pair. Weight includes
// draws; JointWins/JointLosses only decided matches.
type Edge struct {
	Key         PairKey
	Weight      int
	JointWins   int
	JointLosses int
}

type soloTally struct {
	wins    int
	decided int
	matches int
}

// Graph is the co-occurrence graph over one window. Players with no
// qualifying co-occurrence never become nodes.
type Graph struct {
	edges     map[PairKey]*Edge
	adjacency map[uint64][]uint64
	names     map[uint64]string
	countries map[uint64]string
	solo      map[uint64]*soloTally
}

// Build constructs the graph from validated match records: an edge is
// created or incremented whenever two players share a team side in a match.
func Build(records []model.MatchRecord) *Graph {
	g := &Graph{
		edges:     make(map[PairKey]*Edge),
		adjacency: make(map[uint64][]uint64),
		names:     make(map[uint64]string),
		countries: make(map[uint64]string),
		solo:      make(map[uint64]*soloTally),
	}

	for _, rec := range records {
		sides := make(map[int][]model.PlayerResult)
		for _, p := range rec.Players {
			sides[p.TeamSide] = append(sides[p.TeamSide], p)

			st := g.solo[p.PlayerID]
			if st == nil {
				st = &soloTally{}
				g.solo[p.PlayerID] = st
			}
			st.matches++
			switch p.Outcome {
			case model.OutcomeWin:
				st.wins++
				st.decided++
			case model.OutcomeLoss:
				st.decided++
			}
			if g.names[p.PlayerID] == "" && p.Name != "" {
				g.names[p.PlayerID] = p.Name
			}
			if g.countries[p.PlayerID] == "" && p.Country != "" {
				g.countries[p.PlayerID] = p.Country
			}
		}

		for _, teammates := range sides {
			for i := 0; i < len(teammates); i++ {
				for j := i + 1; j < len(teammates); j++ {
					a, b := teammates[i], teammates[j]
					if a.PlayerID == b.PlayerID {
						continue
					}
					key := NewPairKey(a.PlayerID, b.PlayerID)
					e := g.edges[key]
					if e == nil {
						e = &Edge{Key: key}
						g.edges[key] = e
						g.adjacency[key.A] = append(g.adjacency[key.A], key.B)
						g.adjacency[key.B] = append(g.adjacency[key.B], key.A)
					}
					e.Weight++
					switch a.Outcome {
					case model.OutcomeWin:
						e.JointWins++
					case model.OutcomeLoss:
						e.JointLosses++
					}
				}
			}
		}
	}
	return g
}

// Edges returns all edges sorted by weight descending, then pair ascending.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		if out[i].Key.A != out[j].Key.A {
			return out[i].Key.A < out[j].Key.A
		}
		return out[i].Key.B < out[j].Key.B
	})
	return out
}

// EdgeBetween returns the edge for the pair, if any.
func (g *Graph) EdgeBetween(a, b uint64) (Edge, bool) {
	e, ok := g.edges[NewPairKey(a, b)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns all node ids, sorted for deterministic traversal.
func (g *Graph) Nodes() []uint64 {
	ids := make([]uint64, 0, len(g.adjacency))
	for id := range g.adjacency {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Name returns the display name observed for a player, or an empty string.
func (g *Graph) Name(id uint64) string { return g.names[id] }

// Country returns the country code observed for a player.
func (g *Graph) Country(id uint64) string { return g.countries[id] }

// SoloWinRate is a player's individual win rate across all decided matches
// in the window, regardless of who they played with.
func (g *Graph) SoloWinRate(id uint64) float64 {
	st := g.solo[id]
	if st == nil || st.decided == 0 {
		return 0
	}
	return float64(st.wins) / float64(st.decided)
}

// Components partitions the subgraph of edges with weight >= minWeight into
// connected components. Nodes left isolated by the threshold are dropped.
// Components and their members come back sorted, so the partition is a pure
// function of the graph.
func (g *Graph) Components(minWeight int) [][]uint64 {
	visited := make(map[uint64]bool)
	var components [][]uint64

	for _, start := range g.Nodes() {
		if visited[start] {
			continue
		}
		// Breadth-first over threshold-qualified edges only.
		var members []uint64
		queue := []uint64{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			members = append(members, id)
			neighbors := append([]uint64(nil), g.adjacency[id]...)
			sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
			for _, n := range neighbors {
				if visited[n] {
					continue
				}
				if g.edges[NewPairKey(id, n)].Weight < minWeight {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
			}
		}
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		components = append(components, members)
	}
	return components
}

// Density is the share of possible edges actually present among members,
// counting only edges at or above minWeight.
func (g *Graph) Density(members []uint64, minWeight int) float64 {
	n := len(members)
	if n < 2 {
		return 0
	}
	possible := n * (n - 1) / 2
	actual := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if e, ok := g.edges[NewPairKey(members[i], members[j])]; ok && e.Weight >= minWeight {
				actual++
			}
		}
	}
	return float64(actual) / float64(possible)
}

// AvgConnectionStrength is the mean weight of qualifying edges among
// members, 0 when there are none.
func (g *Graph) AvgConnectionStrength(members []uint64, minWeight int) float64 {
	total, count := 0, 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if e, ok := g.edges[NewPairKey(members[i], members[j])]; ok && e.Weight >= minWeight {
				total += e.Weight
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
