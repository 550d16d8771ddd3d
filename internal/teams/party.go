// Package teams derives party teams, community clusters and frequent pairs
// from match records and the co-occurrence graph.
package teams

import (
	"sort"
	"strconv"
	"strings"

	"barrank/internal/config"
	"barrank/internal/model"
)

// partyInstance is one party observed in one match.
type partyInstance struct {
	matchID  string
	gameMode string
	roster   []uint64 // sorted
	outcome  model.Outcome
}

// rosterKey is a canonical string form of a sorted roster.
func rosterKey(roster []uint64) string {
	var sb strings.Builder
	for i, id := range roster {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(id, 10))
	}
	return sb.String()
}

// collectParties extracts one instance per (match, party id) with at least
// two members. Solo parties carry no grouping signal and are ignored.
func collectParties(records []model.MatchRecord) []partyInstance {
	var out []partyInstance
	for _, rec := range records {
		byParty := make(map[string][]model.PlayerResult)
		for _, p := range rec.Players {
			if p.PartyID == "" {
				continue
			}
			byParty[p.PartyID] = append(byParty[p.PartyID], p)
		}
		partyIDs := make([]string, 0, len(byParty))
		for id := range byParty {
			partyIDs = append(partyIDs, id)
		}
		sort.Strings(partyIDs)
		for _, id := range partyIDs {
			members := byParty[id]
			if len(members) < 2 {
				continue
			}
			roster := make([]uint64, 0, len(members))
			for _, m := range members {
				roster = append(roster, m.PlayerID)
			}
			sort.Slice(roster, func(i, j int) bool { return roster[i] < roster[j] })
			out = append(out, partyInstance{
				matchID:  rec.MatchID,
				gameMode: rec.GameMode,
				roster:   roster,
				outcome:  members[0].Outcome,
			})
		}
	}
	return out
}

// DetectParties finds recurring exact rosters among party instances.
// StabilityScore is the share of exact-roster matches out of all party
// matches any member appeared in, so a group that never mixes scores 1.0.
func DetectParties(records []model.MatchRecord, cfg config.Config, lookup PlayerLookup) []model.PartyTeamCandidate {
	instances := collectParties(records)

	// Distinct party matches per player, the stability denominator input.
	playerMatches := make(map[uint64]map[string]struct{})
	byRoster := make(map[string][]partyInstance)
	rosters := make(map[string][]uint64)
	for _, inst := range instances {
		key := rosterKey(inst.roster)
		byRoster[key] = append(byRoster[key], inst)
		rosters[key] = inst.roster
		for _, id := range inst.roster {
			if playerMatches[id] == nil {
				playerMatches[id] = make(map[string]struct{})
			}
			playerMatches[id][inst.matchID] = struct{}{}
		}
	}

	var out []model.PartyTeamCandidate
	for key, insts := range byRoster {
		roster := rosters[key]

		// Exact-roster matches may repeat a match id only if the same
		// roster queued twice in one match, which the store's roster
		// uniqueness rules out; count instances directly.
		overall := model.TeamStats{}
		byMode := make(map[string]model.TeamStats)
		for _, inst := range insts {
			overall.Matches++
			ms := byMode[inst.gameMode]
			ms.Matches++
			switch inst.outcome {
			case model.OutcomeWin:
				overall.Wins++
				ms.Wins++
			case model.OutcomeLoss:
				overall.Losses++
				ms.Losses++
			}
			byMode[inst.gameMode] = ms
		}
		if overall.Matches < cfg.Teams.MinTeamMatches {
			continue
		}
		overall.WinRate = winRate(overall.Wins, overall.Losses)
		for mode, ms := range byMode {
			ms.WinRate = winRate(ms.Wins, ms.Losses)
			byMode[mode] = ms
		}

		// Denominator: any match where any member played in any party.
		seen := make(map[string]struct{})
		for _, id := range roster {
			for mid := range playerMatches[id] {
				seen[mid] = struct{}{}
			}
		}
		stability := 0.0
		if len(seen) > 0 {
			stability = float64(overall.Matches) / float64(len(seen))
		}

		members := make([]model.TeamMember, 0, len(roster))
		for _, id := range roster {
			members = append(members, model.TeamMember{
				PlayerID:      id,
				Name:          lookup.Name(id),
				Country:       lookup.Country(id),
				MatchesPlayed: overall.Matches,
			})
		}
		sortMembers(members)

		out = append(out, model.PartyTeamCandidate{
			TeamName:       teamName(members),
			Members:        members,
			StabilityScore: stability,
			StatsOverall:   overall,
			StatsByMode:    byMode,
		})
	}

	// Display sort: match count desc (no formal rank field), then
	// stability desc, then first member id.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StatsOverall.Matches != b.StatsOverall.Matches {
			return a.StatsOverall.Matches > b.StatsOverall.Matches
		}
		if a.StabilityScore != b.StabilityScore {
			return a.StabilityScore > b.StabilityScore
		}
		return a.Members[0].PlayerID < b.Members[0].PlayerID
	})
	if len(out) > cfg.Teams.MaxTeams {
		out = out[:cfg.Teams.MaxTeams]
	}
	return out
}

// PlayerLookup resolves display fields for player ids; the co-occurrence
// graph satisfies it.
type PlayerLookup interface {
	Name(id uint64) string
	Country(id uint64) string
}

func winRate(wins, losses int) float64 {
	decided := wins + losses
	if decided == 0 {
		return 0
	}
	return float64(wins) / float64(decided)
}

// sortMembers orders members by attendance desc, then name asc, then id.
func sortMembers(members []model.TeamMember) {
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed > b.MatchesPlayed
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.PlayerID < b.PlayerID
	})
}

// teamName derives a display name from the leading member.
func teamName(members []model.TeamMember) string {
	if len(members) == 0 {
		return "Unknown Squad"
	}
	name := members[0].Name
	if name == "" {
		name = "Player_" + strconv.FormatUint(members[0].PlayerID, 10)
	}
	return name + "'s Squad"
}
