package teams

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrank/internal/config"
	"barrank/internal/model"
	"barrank/internal/teamgraph"
)

const (
	playerA uint64 = 1
	playerB uint64 = 2
	playerC uint64 = 3
	playerD uint64 = 4
	playerE uint64 = 5
)

var playerNames = map[uint64]string{
	playerA: "alice",
	playerB: "bob",
	playerC: "carol",
	playerD: "dave",
	playerE: "eve",
}

var baseTime = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

var matchSeq int

// partyMatch builds a match where the given roster queued as one party on
// side 0 with the given outcome, against an anonymous opponent on side 1.
func partyMatch(mode string, roster []uint64, outcome model.Outcome) model.MatchRecord {
	matchSeq++
	rec := model.MatchRecord{
		MatchID:   fmt.Sprintf("pm-%d", matchSeq),
		GameMode:  mode,
		StartedAt: baseTime,
	}
	for _, id := range roster {
		rec.Players = append(rec.Players, model.PlayerResult{
			PlayerID: id,
			Name:     playerNames[id],
			PartyID:  "party-x",
			TeamSide: 0,
			Outcome:  outcome,
		})
	}
	opp := model.OutcomeWin
	if outcome == model.OutcomeWin {
		opp = model.OutcomeLoss
	}
	rec.Players = append(rec.Players, model.PlayerResult{
		PlayerID: 9000 + uint64(matchSeq), TeamSide: 1, Outcome: opp,
	})
	return rec
}

func repeatParty(n int, mode string, roster []uint64, outcome model.Outcome) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, partyMatch(mode, roster, outcome))
	}
	return out
}

func TestDetectParties_ExactRosterStability(t *testing.T) {
	// One trio, always together: stability must be exactly 1.0.
	records := repeatParty(5, "Team", []uint64{playerA, playerB, playerC}, model.OutcomeWin)
	g := teamgraph.Build(records)

	parties := DetectParties(records, config.Default(), g)
	require.Len(t, parties, 1)

	p := parties[0]
	assert.Equal(t, 1.0, p.StabilityScore)
	assert.Equal(t, 5, p.StatsOverall.Matches)
	assert.Equal(t, 5, p.StatsOverall.Wins)
	assert.Equal(t, 1.0, p.StatsOverall.WinRate)
	require.Len(t, p.Members, 3)
}

func TestDetectParties_StabilityDilutedByMixing(t *testing.T) {
	// The trio plays 10 matches together, then alice and bob play 2 more as
	// a duo: 12 distinct party matches, 10 exact, stability 10/12.
	var records []model.MatchRecord
	records = append(records, repeatParty(10, "Team", []uint64{playerA, playerB, playerC}, model.OutcomeWin)...)
	records = append(records, repeatParty(2, "Team", []uint64{playerA, playerB}, model.OutcomeLoss)...)
	g := teamgraph.Build(records)

	parties := DetectParties(records, config.Default(), g)
	require.Len(t, parties, 2)

	// Sorted by matches desc: trio first.
	trio := parties[0]
	require.Len(t, trio.Members, 3)
	assert.InDelta(t, 10.0/12.0, trio.StabilityScore, 1e-9)

	duo := parties[1]
	require.Len(t, duo.Members, 2)
	// The duo's members appear in 12 party matches total, 2 exact.
	assert.InDelta(t, 2.0/12.0, duo.StabilityScore, 1e-9)
}

func TestDetectParties_MinMatchesGate(t *testing.T) {
	records := repeatParty(1, "Team", []uint64{playerA, playerB}, model.OutcomeWin)
	g := teamgraph.Build(records)

	parties := DetectParties(records, config.Default(), g)
	assert.Empty(t, parties, "a roster seen once is noise, not a team")
}

func TestDetectParties_SoloPartiesIgnored(t *testing.T) {
	matchSeq++
	rec := model.MatchRecord{
		MatchID: fmt.Sprintf("pm-%d", matchSeq), GameMode: "Team", StartedAt: baseTime,
		Players: []model.PlayerResult{
			{PlayerID: playerA, PartyID: "p1", TeamSide: 0, Outcome: model.OutcomeWin},
			{PlayerID: playerB, TeamSide: 0, Outcome: model.OutcomeWin},
		},
	}
	records := []model.MatchRecord{rec, rec}
	g := teamgraph.Build(records)

	parties := DetectParties(records, config.Default(), g)
	assert.Empty(t, parties)
}

func TestDetectParties_NameAndModeSplit(t *testing.T) {
	var records []model.MatchRecord
	records = append(records, repeatParty(3, "Team", []uint64{playerA, playerB}, model.OutcomeWin)...)
	records = append(records, repeatParty(2, "TeamFFA", []uint64{playerA, playerB}, model.OutcomeLoss)...)
	g := teamgraph.Build(records)

	parties := DetectParties(records, config.Default(), g)
	require.Len(t, parties, 1)

	p := parties[0]
	assert.Equal(t, "alice's Squad", p.TeamName)
	assert.Equal(t, 5, p.StatsOverall.Matches)
	require.Contains(t, p.StatsByMode, "Team")
	require.Contains(t, p.StatsByMode, "TeamFFA")
	assert.Equal(t, 3, p.StatsByMode["Team"].Wins)
	assert.Equal(t, 2, p.StatsByMode["TeamFFA"].Losses)
	assert.Equal(t, 0.0, p.StatsByMode["TeamFFA"].WinRate)
}

func TestDetectCommunities_ExclusiveDuo(t *testing.T) {
	records := repeatParty(4, "Team", []uint64{playerA, playerB}, model.OutcomeWin)
	g := teamgraph.Build(records)

	clusters := DetectCommunities(g, records, config.Default())
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, 1.0, c.Density)
	assert.Equal(t, 4.0, c.AvgConnectionStrength)
	assert.Equal(t, 4, c.StatsOverall.Matches)
	assert.Equal(t, "alice's Squad", c.ClusterName)
	require.Len(t, c.Members, 2)
	assert.Equal(t, 4, c.Members[0].MatchesPlayed)
}

func TestDetectCommunities_RosterSizeBounds(t *testing.T) {
	records := repeatParty(3, "Team", []uint64{playerA, playerB, playerC}, model.OutcomeWin)
	g := teamgraph.Build(records)

	cfg := config.Default()
	cfg.Teams.MaxRosterSize = 2
	clusters := DetectCommunities(g, records, cfg)
	assert.Empty(t, clusters, "a 3-node cluster must not pass with max roster 2")
}

func TestDetectCommunities_CreditsLargestSide(t *testing.T) {
	// alice+bob vs carol in one match, all three in the cluster: the match
	// is credited to the alice+bob side, which won.
	matchSeq++
	rec := model.MatchRecord{
		MatchID: fmt.Sprintf("pm-%d", matchSeq), GameMode: "Team", StartedAt: baseTime,
		Players: []model.PlayerResult{
			{PlayerID: playerA, Name: "alice", TeamSide: 0, Outcome: model.OutcomeWin},
			{PlayerID: playerB, Name: "bob", TeamSide: 0, Outcome: model.OutcomeWin},
			{PlayerID: playerC, Name: "carol", TeamSide: 1, Outcome: model.OutcomeLoss},
		},
	}
	// Enough co-play to bind all three into one component.
	records := []model.MatchRecord{rec, rec}
	records = append(records, repeatParty(2, "Team", []uint64{playerB, playerC}, model.OutcomeWin)...)
	g := teamgraph.Build(records)

	clusters := DetectCommunities(g, records, config.Default())
	require.Len(t, clusters, 1)

	c := clusters[0]
	require.Len(t, c.Members, 3)
	assert.Equal(t, 4, c.StatsOverall.Matches)
	assert.Equal(t, 4, c.StatsOverall.Wins)
}

func TestFrequentPairs_ThresholdAndSynergy(t *testing.T) {
	// alice+bob win 4 of 6 together; apart each loses 2.
	var records []model.MatchRecord
	records = append(records, repeatParty(4, "Team", []uint64{playerA, playerB}, model.OutcomeWin)...)
	records = append(records, repeatParty(2, "Team", []uint64{playerA, playerB}, model.OutcomeLoss)...)
	records = append(records, repeatParty(2, "Team", []uint64{playerA, playerC}, model.OutcomeLoss)...)
	records = append(records, repeatParty(2, "Team", []uint64{playerB, playerD}, model.OutcomeLoss)...)
	g := teamgraph.Build(records)

	pairs := FrequentPairs(g, config.Default())
	require.Len(t, pairs, 1, "only alice+bob reach the pair threshold")

	p := pairs[0]
	assert.Equal(t, playerA, p.A)
	assert.Equal(t, playerB, p.B)
	assert.Equal(t, 6, p.Weight)
	assert.Equal(t, 4, p.JointWins)
	assert.Equal(t, 2, p.JointLosses)
	// Joint WR 4/6; solo WRs both 4/8; synergy = (2/3) / 0.5.
	assert.InDelta(t, 4.0/3.0, p.Synergy, 1e-9)
}

func TestFrequentPairs_UndecidedPairHasZeroSynergy(t *testing.T) {
	var records []model.MatchRecord
	for i := 0; i < 5; i++ {
		matchSeq++
		records = append(records, model.MatchRecord{
			MatchID: fmt.Sprintf("pm-%d", matchSeq), GameMode: "Team", StartedAt: baseTime,
			Players: []model.PlayerResult{
				{PlayerID: playerA, TeamSide: 0, Outcome: model.OutcomeDraw},
				{PlayerID: playerB, TeamSide: 0, Outcome: model.OutcomeDraw},
			},
		})
	}
	g := teamgraph.Build(records)

	pairs := FrequentPairs(g, config.Default())
	require.Len(t, pairs, 1)
	assert.Equal(t, 5, pairs[0].Weight)
	assert.Equal(t, 0.0, pairs[0].Synergy)
}

func TestSearchParties(t *testing.T) {
	records := repeatParty(3, "Team", []uint64{playerA, playerB}, model.OutcomeWin)
	g := teamgraph.Build(records)
	parties := DetectParties(records, config.Default(), g)
	require.Len(t, parties, 1)

	assert.Len(t, SearchParties(parties, "ALICE"), 1, "match is case-insensitive")
	assert.Len(t, SearchParties(parties, "li"), 1, "substring matches")
	assert.Empty(t, SearchParties(parties, "carol"))
	assert.Empty(t, SearchParties(parties, ""), "empty query matches nothing")
}

func TestSearchCommunities(t *testing.T) {
	records := repeatParty(3, "Team", []uint64{playerA, playerB}, model.OutcomeWin)
	g := teamgraph.Build(records)
	clusters := DetectCommunities(g, records, config.Default())
	require.Len(t, clusters, 1)

	assert.Len(t, SearchCommunities(clusters, "bob"), 1)
	assert.Empty(t, SearchCommunities(clusters, "zed"))
}
