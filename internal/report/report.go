// Package report renders engine output as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"barrank/internal/model"
	"barrank/internal/pipeline"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintNationLeaderboard writes the ranked nation table for one game mode.
func PrintNationLeaderboard(w io.Writer, lb *model.NationLeaderboard) {
	fmt.Fprintf(w, "\nGame mode: %s  |  k=%.1f  CF=%.1f  min games=%.1f  |  %d nations\n\n",
		lb.GameMode, lb.K, lb.CF, lb.MinGames, len(lb.Nations))

	table := newTable(w)
	table.Header("RANK", "NATION", "SCORE", "W", "L", "GAMES", "PLAYERS", "TOP CONTRIBUTORS")
	for _, ns := range lb.Nations {
		table.Append(
			strconv.Itoa(ns.Rank),
			ns.Country,
			strconv.Itoa(ns.DisplayScore),
			strconv.Itoa(ns.Wins),
			strconv.Itoa(ns.Losses),
			strconv.Itoa(ns.TotalGames),
			strconv.Itoa(ns.Players),
			contributorList(ns.TopContributors),
		)
	}
	table.Render()
}

func contributorList(contributors []model.Contributor) string {
	if len(contributors) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(contributors))
	for _, c := range contributors {
		parts = append(parts, fmt.Sprintf("%s (+%d)", c.Name, c.NetWins))
	}
	return strings.Join(parts, ", ")
}

// PrintPlayerLeaderboard writes the global player table for one game mode.
func PrintPlayerLeaderboard(w io.Writer, lb *model.PlayerLeaderboard) {
	fmt.Fprintf(w, "\nGame mode: %s  |  %d ranked players (showing %d)\n\n",
		lb.GameMode, lb.TotalPlayers, len(lb.Players))

	table := newTable(w)
	table.Header("RANK", "NAME", "NATION", "RATING", "W", "L", "GAMES")
	for _, p := range lb.Players {
		country := p.Country
		if country == "" {
			country = "—"
		}
		table.Append(
			strconv.Itoa(p.Rank),
			p.Name,
			country,
			strconv.Itoa(p.Rating),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Losses),
			strconv.Itoa(p.TotalGames),
		)
	}
	table.Render()
}

// PrintBreakdown writes the full explanation of one nation score.
func PrintBreakdown(w io.Writer, bd *model.NationScoreBreakdown) {
	fmt.Fprintf(w, "\n=== %s — %s ===\n\n", bd.Country, bd.GameMode)
	fmt.Fprintf(w, "  Record        : %dW / %dL (%d games)\n", bd.Wins, bd.Losses, bd.TotalGames)
	fmt.Fprintf(w, "  Raw score     : %d\n", bd.RawScore)
	fmt.Fprintf(w, "  k / CF        : %.2f / %.2f\n", bd.K, bd.CF)
	fmt.Fprintf(w, "  Adjusted      : %.4f  (display %d)\n", bd.AdjustedScore, bd.DisplayScore)
	if bd.Qualified {
		fmt.Fprintf(w, "  Rank          : %d\n", bd.Rank)
	} else {
		fmt.Fprintf(w, "  Rank          : — (below k/4 activity gate)\n")
	}

	if len(bd.Distribution) == 0 {
		return
	}
	fmt.Fprintln(w)
	table := newTable(w)
	table.Header("PLAYER", "W", "L", "NET")
	for _, p := range bd.Distribution {
		table.Append(p.Name, strconv.Itoa(p.Wins), strconv.Itoa(p.Losses), strconv.Itoa(p.NetWins))
	}
	table.Render()
}

// PrintParties writes the party team table.
func PrintParties(w io.Writer, parties []model.PartyTeamCandidate) {
	table := newTable(w)
	table.Header("TEAM", "SIZE", "MATCHES", "W", "L", "WIN%", "STABILITY", "MEMBERS")
	for _, t := range parties {
		table.Append(
			t.TeamName,
			strconv.Itoa(len(t.Members)),
			strconv.Itoa(t.StatsOverall.Matches),
			strconv.Itoa(t.StatsOverall.Wins),
			strconv.Itoa(t.StatsOverall.Losses),
			fmt.Sprintf("%.0f%%", t.StatsOverall.WinRate*100),
			fmt.Sprintf("%.2f", t.StabilityScore),
			memberNames(t.Members),
		)
	}
	table.Render()
}

// PrintCommunities writes the community cluster table.
func PrintCommunities(w io.Writer, clusters []model.CommunityCluster) {
	table := newTable(w)
	table.Header("CLUSTER", "SIZE", "MATCHES", "WIN%", "DENSITY", "AVG STRENGTH", "MEMBERS")
	for _, c := range clusters {
		table.Append(
			c.ClusterName,
			strconv.Itoa(len(c.Members)),
			strconv.Itoa(c.StatsOverall.Matches),
			fmt.Sprintf("%.0f%%", c.StatsOverall.WinRate*100),
			fmt.Sprintf("%.2f", c.Density),
			fmt.Sprintf("%.2f", c.AvgConnectionStrength),
			memberNames(c.Members),
		)
	}
	table.Render()
}

// PrintPairs writes the frequent-pair table.
func PrintPairs(w io.Writer, pairs []model.PlayerPairEdge) {
	table := newTable(w)
	table.Header("PLAYER A", "PLAYER B", "TOGETHER", "W", "L", "SYNERGY")
	for _, p := range pairs {
		table.Append(
			p.AName,
			p.BName,
			strconv.Itoa(p.Weight),
			strconv.Itoa(p.JointWins),
			strconv.Itoa(p.JointLosses),
			fmt.Sprintf("%.2f", p.Synergy),
		)
	}
	table.Render()
}

// PrintTeamSet dispatches on the team type.
func PrintTeamSet(w io.Writer, set *pipeline.TeamSet) {
	switch set.Type {
	case pipeline.TeamTypeParty:
		PrintParties(w, set.Parties)
	case pipeline.TeamTypeCommunity:
		PrintCommunities(w, set.Communities)
	}
}

func memberNames(members []model.TeamMember) string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		name := m.Name
		if name == "" {
			name = "Player_" + strconv.FormatUint(m.PlayerID, 10)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
