package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrank/internal/config"
	"barrank/internal/model"
)

var windowStart = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func testWindow() model.Window {
	return model.Window{From: windowStart, To: windowStart.AddDate(0, 0, 7)}
}

// duel builds a decided 1v1 at the given day offset inside the window.
func duel(id string, dayOffset int, mode string, winID uint64, winCC string, loseID uint64, loseCC string) model.MatchRecord {
	return model.MatchRecord{
		MatchID:   id,
		GameMode:  mode,
		StartedAt: windowStart.AddDate(0, 0, dayOffset).Add(12 * time.Hour),
		Players: []model.PlayerResult{
			{PlayerID: winID, Name: fmt.Sprintf("p%d", winID), Country: winCC, TeamSide: 0, Outcome: model.OutcomeWin},
			{PlayerID: loseID, Name: fmt.Sprintf("p%d", loseID), Country: loseCC, TeamSide: 1, Outcome: model.OutcomeLoss},
		},
	}
}

// sampleRecords covers two game modes, one of which has an all-draw slice.
func sampleRecords() []model.MatchRecord {
	var out []model.MatchRecord
	for i := 0; i < 5; i++ {
		out = append(out, duel(fmt.Sprintf("d%d", i), i%5, "Duel", 1, "DE", 2, "FR"))
	}
	out = append(out, duel("t1", 2, "TeamFFA", 3, "SE", 4, "PL"))
	return out
}

func newTestEngine(t *testing.T, records []model.MatchRecord) *Engine {
	t.Helper()
	snap := NewSnapshot(records, testWindow())
	return NewEngine(config.Default(), zerolog.Nop(), snap)
}

func TestNewSnapshot_WindowAndFilter(t *testing.T) {
	records := sampleRecords()
	// Outside the window at both ends.
	records = append(records, duel("early", -1, "Duel", 1, "DE", 2, "FR"))
	records = append(records, duel("late", 8, "Duel", 1, "DE", 2, "FR"))
	// Malformed: an empty roster.
	records = append(records, model.MatchRecord{
		MatchID: "bad", GameMode: "Duel", StartedAt: windowStart.Add(time.Hour),
	})

	snap := NewSnapshot(records, testWindow())
	assert.Len(t, snap.Records, 6)
	assert.Equal(t, 1, snap.Skipped)
	for _, rec := range snap.Records {
		assert.NotEqual(t, "early", rec.MatchID)
		assert.NotEqual(t, "late", rec.MatchID)
	}
}

func TestSnapshot_WindowBoundsHalfOpen(t *testing.T) {
	w := testWindow()
	atStart := duel("s", 0, "Duel", 1, "DE", 2, "FR")
	atStart.StartedAt = w.From
	atEnd := duel("e", 0, "Duel", 1, "DE", 2, "FR")
	atEnd.StartedAt = w.To

	snap := NewSnapshot([]model.MatchRecord{atStart, atEnd}, w)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "s", snap.Records[0].MatchID)
}

func TestEngine_GameModes(t *testing.T) {
	e := newTestEngine(t, sampleRecords())
	assert.Equal(t, []string{"Duel", "TeamFFA"}, e.GameModes())
}

func TestEngine_NationLeaderboard(t *testing.T) {
	e := newTestEngine(t, sampleRecords())

	lb, err := e.BuildNationLeaderboard("Duel")
	require.NoError(t, err)
	require.Len(t, lb.Nations, 2)
	assert.Equal(t, "DE", lb.Nations[0].Country)
	assert.Equal(t, 1, lb.Nations[0].Rank)

	_, err = e.BuildNationLeaderboard("Unknown")
	assert.Error(t, err)
}

func TestEngine_UnknownModeDoesNotAffectOthers(t *testing.T) {
	e := newTestEngine(t, sampleRecords())
	_, err := e.BuildNationLeaderboard("Unknown")
	require.Error(t, err)

	lb, err := e.BuildNationLeaderboard("TeamFFA")
	require.NoError(t, err)
	assert.Len(t, lb.Nations, 2)
}

func TestParseTeamType(t *testing.T) {
	for _, s := range []string{"party", "community"} {
		tt, err := ParseTeamType(s)
		require.NoError(t, err)
		assert.Equal(t, TeamType(s), tt)
	}
	_, err := ParseTeamType("clan")
	assert.Error(t, err)
}

func TestBuildTeams_AndSearch(t *testing.T) {
	var records []model.MatchRecord
	for i := 0; i < 3; i++ {
		rec := model.MatchRecord{
			MatchID:   fmt.Sprintf("tm%d", i),
			GameMode:  "Team",
			StartedAt: windowStart.Add(time.Duration(i) * time.Hour),
			Players: []model.PlayerResult{
				{PlayerID: 1, Name: "alice", Country: "DE", PartyID: "g", TeamSide: 0, Outcome: model.OutcomeWin},
				{PlayerID: 2, Name: "bob", Country: "DE", PartyID: "g", TeamSide: 0, Outcome: model.OutcomeWin},
				{PlayerID: 3, Name: "carol", Country: "FR", TeamSide: 1, Outcome: model.OutcomeLoss},
				{PlayerID: 4, Name: "dave", Country: "FR", TeamSide: 1, Outcome: model.OutcomeLoss},
			},
		}
		records = append(records, rec)
	}
	e := newTestEngine(t, records)

	set, err := e.BuildTeams(TeamTypeParty)
	require.NoError(t, err)
	require.Len(t, set.Parties, 1)
	assert.Equal(t, "alice's Squad", set.Parties[0].TeamName)

	set, err = e.BuildTeams(TeamTypeCommunity)
	require.NoError(t, err)
	assert.NotEmpty(t, set.Communities)

	found, err := e.SearchTeams("bob", TeamTypeParty)
	require.NoError(t, err)
	assert.Len(t, found.Parties, 1)

	found, err = e.SearchTeams("nobody", TeamTypeParty)
	require.NoError(t, err)
	assert.Empty(t, found.Parties)
}

func TestRun_SliceFailureIsIsolated(t *testing.T) {
	records := sampleRecords()
	// A mode where every nation is filtered out: confidence undefined.
	records = append(records, duel("x1", 1, "Anon", 7, "??", 8, "??"))

	e := newTestEngine(t, records)
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Modes, 3)
	byMode := make(map[string]ModeResult)
	for _, mr := range res.Modes {
		byMode[mr.GameMode] = mr
	}

	anon := byMode["Anon"]
	assert.NotEmpty(t, anon.Failure, "slice with no nations must fail")
	assert.Nil(t, anon.Nations)

	duelRes := byMode["Duel"]
	assert.Empty(t, duelRes.Failure)
	require.NotNil(t, duelRes.Nations)
	assert.Len(t, duelRes.Nations.Nations, 2)
	require.NotNil(t, duelRes.Players)
}

func TestRun_ContextCancelled(t *testing.T) {
	e := newTestEngine(t, sampleRecords())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Run(ctx)
	assert.Error(t, err)
}

// Two engines over the same snapshot must emit byte-identical deterministic
// sections, regardless of input record order.
func TestRun_Deterministic(t *testing.T) {
	records := sampleRecords()
	reversed := make([]model.MatchRecord, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	resA, err := newTestEngine(t, records).Run(context.Background())
	require.NoError(t, err)
	resB, err := newTestEngine(t, reversed).Run(context.Background())
	require.NoError(t, err)

	// RunID and GeneratedAt differ per run; compare the computed sections.
	type sections struct {
		Modes       []ModeResult
		Parties     []model.PartyTeamCandidate
		Communities []model.CommunityCluster
		Pairs       []model.PlayerPairEdge
	}
	a, err := json.Marshal(sections{resA.Modes, resA.Parties, resA.Communities, resA.Pairs})
	require.NoError(t, err)
	b, err := json.Marshal(sections{resB.Modes, resB.Parties, resB.Communities, resB.Pairs})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
