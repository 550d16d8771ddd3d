package teams

import (
	"sort"

	"barrank/internal/config"
	"barrank/internal/model"
	"barrank/internal/teamgraph"
)

// DetectCommunities partitions the co-occurrence graph into clusters.
//
// The partitioning rule is fixed: connected components of the subgraph of
// edges with weight >= MinEdgeWeight, size-bounded by config. Two runs over
// the same window always produce the same clusters.
func DetectCommunities(g *teamgraph.Graph, records []model.MatchRecord, cfg config.Config) []model.CommunityCluster {
	var out []model.CommunityCluster
	for _, members := range g.Components(cfg.Teams.MinEdgeWeight) {
		if len(members) < cfg.Teams.MinRosterSize || len(members) > cfg.Teams.MaxRosterSize {
			continue
		}

		stats, attendance := clusterStats(members, records)

		teamMembers := make([]model.TeamMember, 0, len(members))
		for _, id := range members {
			teamMembers = append(teamMembers, model.TeamMember{
				PlayerID:      id,
				Name:          g.Name(id),
				Country:       g.Country(id),
				MatchesPlayed: attendance[id],
			})
		}
		sortMembers(teamMembers)

		out = append(out, model.CommunityCluster{
			ClusterName:           teamName(teamMembers),
			Members:               teamMembers,
			Density:               g.Density(members, cfg.Teams.MinEdgeWeight),
			AvgConnectionStrength: g.AvgConnectionStrength(members, cfg.Teams.MinEdgeWeight),
			StatsOverall:          stats,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StatsOverall.Matches != b.StatsOverall.Matches {
			return a.StatsOverall.Matches > b.StatsOverall.Matches
		}
		if len(a.Members) != len(b.Members) {
			return len(a.Members) > len(b.Members)
		}
		return a.Members[0].PlayerID < b.Members[0].PlayerID
	})
	if len(out) > cfg.Teams.MaxTeams {
		out = out[:cfg.Teams.MaxTeams]
	}
	return out
}

// clusterStats re-derives a cluster's record from the match history: a
// match counts once when at least two members share a team side, credited
// to the side carrying the most members. Draws count as matches but not
// toward the win rate.
func clusterStats(members []uint64, records []model.MatchRecord) (model.TeamStats, map[uint64]int) {
	inCluster := make(map[uint64]bool, len(members))
	for _, id := range members {
		inCluster[id] = true
	}

	stats := model.TeamStats{}
	attendance := make(map[uint64]int)

	for _, rec := range records {
		bySide := make(map[int][]model.PlayerResult)
		for _, p := range rec.Players {
			if inCluster[p.PlayerID] {
				bySide[p.TeamSide] = append(bySide[p.TeamSide], p)
			}
		}

		bestSide, bestCount := -1, 1
		sides := make([]int, 0, len(bySide))
		for s := range bySide {
			sides = append(sides, s)
		}
		sort.Ints(sides)
		for _, s := range sides {
			if len(bySide[s]) > bestCount {
				bestSide, bestCount = s, len(bySide[s])
			}
		}
		if bestSide < 0 {
			continue // fewer than two members together in this match
		}

		stats.Matches++
		lineup := bySide[bestSide]
		for _, p := range lineup {
			attendance[p.PlayerID]++
		}
		switch lineup[0].Outcome {
		case model.OutcomeWin:
			stats.Wins++
		case model.OutcomeLoss:
			stats.Losses++
		}
	}

	stats.WinRate = winRate(stats.Wins, stats.Losses)
	return stats, attendance
}
