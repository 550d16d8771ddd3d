package teams

import (
	"barrank/internal/config"
	"barrank/internal/model"
	"barrank/internal/teamgraph"
)

// FrequentPairs reports every edge at or above the pair weight threshold
// with its synergy metric, independent of cluster membership.
//
// Synergy is the lift of the pair's joint win rate over the mean of the two
// players' solo win rates: above 1.0 the pair outperforms its members'
// individual baselines. Zero when either rate is undefined.
func FrequentPairs(g *teamgraph.Graph, cfg config.Config) []model.PlayerPairEdge {
	var out []model.PlayerPairEdge
	for _, e := range g.Edges() {
		if e.Weight < cfg.Teams.MinPairWeight {
			continue
		}
		out = append(out, model.PlayerPairEdge{
			A:           e.Key.A,
			B:           e.Key.B,
			AName:       g.Name(e.Key.A),
			BName:       g.Name(e.Key.B),
			Weight:      e.Weight,
			JointWins:   e.JointWins,
			JointLosses: e.JointLosses,
			Synergy:     synergy(g, e),
		})
	}
	return out
}

func synergy(g *teamgraph.Graph, e teamgraph.Edge) float64 {
	decided := e.JointWins + e.JointLosses
	if decided == 0 {
		return 0
	}
	joint := float64(e.JointWins) / float64(decided)
	baseline := (g.SoloWinRate(e.Key.A) + g.SoloWinRate(e.Key.B)) / 2
	if baseline == 0 {
		return 0
	}
	return joint / baseline
}
