package aggregate

import (
	"testing"
	"time"

	"barrank/internal/config"
	"barrank/internal/model"
)

// IDs for test players.
const (
	playerA uint64 = 1001
	playerB uint64 = 1002
	playerC uint64 = 1003
	playerD uint64 = 1004
)

var baseTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

// makePlayer builds a PlayerResult with sensible defaults.
func makePlayer(id uint64, country string, side int, outcome model.Outcome) model.PlayerResult {
	return model.PlayerResult{
		PlayerID: id,
		Name:     "p" + country,
		Country:  country,
		TeamSide: side,
		Outcome:  outcome,
	}
}

// makeMatch builds a MatchRecord in the given mode with the given roster.
func makeMatch(id, mode string, players ...model.PlayerResult) model.MatchRecord {
	return model.MatchRecord{
		MatchID:   id,
		GameMode:  mode,
		StartedAt: baseTime,
		Players:   players,
	}
}

// duel builds a 1v1 match where the first player wins.
func duel(id, mode string, winner, loser model.PlayerResult) model.MatchRecord {
	winner.TeamSide = 0
	winner.Outcome = model.OutcomeWin
	loser.TeamSide = 1
	loser.Outcome = model.OutcomeLoss
	return makeMatch(id, mode, winner, loser)
}

func TestTally_BasicWinLoss(t *testing.T) {
	cfg := config.Default()
	records := []model.MatchRecord{
		duel("m1", "Duel", makePlayer(playerA, "DE", 0, 0), makePlayer(playerB, "FR", 0, 0)),
		duel("m2", "Duel", makePlayer(playerA, "DE", 0, 0), makePlayer(playerB, "FR", 0, 0)),
		duel("m3", "Duel", makePlayer(playerB, "FR", 0, 0), makePlayer(playerA, "DE", 0, 0)),
	}

	res := Tally(records, cfg)
	mt, ok := res.Modes["Duel"]
	if !ok {
		t.Fatal("missing Duel mode tallies")
	}

	de := mt.Nations["DE"]
	if de == nil {
		t.Fatal("missing DE aggregate")
	}
	if de.Wins != 2 || de.Losses != 1 || de.TotalGames != 3 {
		t.Errorf("DE = %d/%d over %d, want 2/1 over 3", de.Wins, de.Losses, de.TotalGames)
	}
	if de.Players != 1 {
		t.Errorf("DE player count = %d, want 1", de.Players)
	}

	pa := mt.Players[playerA]
	if pa == nil {
		t.Fatal("missing player A tally")
	}
	if pa.NetWins() != 1 {
		t.Errorf("player A net wins = %d, want 1", pa.NetWins())
	}
}

// Modes must not bleed into each other.
func TestTally_ModesArePartitioned(t *testing.T) {
	cfg := config.Default()
	records := []model.MatchRecord{
		duel("m1", "Duel", makePlayer(playerA, "DE", 0, 0), makePlayer(playerB, "FR", 0, 0)),
		duel("m2", "TeamFFA", makePlayer(playerB, "FR", 0, 0), makePlayer(playerA, "DE", 0, 0)),
	}

	res := Tally(records, cfg)
	if len(res.Modes) != 2 {
		t.Fatalf("got %d modes, want 2", len(res.Modes))
	}
	if res.Modes["Duel"].Nations["DE"].Wins != 1 {
		t.Error("Duel DE wins should be 1")
	}
	if res.Modes["TeamFFA"].Nations["DE"].Losses != 1 {
		t.Error("TeamFFA DE losses should be 1")
	}
	if got := res.GameModes(); len(got) != 2 || got[0] != "Duel" || got[1] != "TeamFFA" {
		t.Errorf("GameModes() = %v, want sorted [Duel TeamFFA]", got)
	}
}

// Draws contribute to no one's tally.
func TestTally_DrawsSkipped(t *testing.T) {
	cfg := config.Default()
	records := []model.MatchRecord{
		makeMatch("m1", "Duel",
			makePlayer(playerA, "DE", 0, model.OutcomeDraw),
			makePlayer(playerB, "FR", 1, model.OutcomeDraw),
		),
	}

	res := Tally(records, cfg)
	if _, ok := res.Modes["Duel"]; !ok {
		t.Fatal("missing Duel mode tallies")
	}
	if len(res.Modes["Duel"].Nations) != 0 {
		t.Errorf("draw produced nation tallies: %v", res.Modes["Duel"].Nations)
	}
	if len(res.Modes["Duel"].Players) != 0 {
		t.Errorf("draw produced player tallies: %v", res.Modes["Duel"].Players)
	}
}

// Unrecognized countries drop out of nation tallies, but the player still counts.
func TestTally_UnknownCountryFiltered(t *testing.T) {
	cfg := config.Default()
	records := []model.MatchRecord{
		duel("m1", "Duel", makePlayer(playerA, "??", 0, 0), makePlayer(playerB, "FR", 0, 0)),
		duel("m2", "Duel", makePlayer(playerC, "", 0, 0), makePlayer(playerB, "FR", 0, 0)),
	}

	res := Tally(records, cfg)
	mt := res.Modes["Duel"]
	if _, ok := mt.Nations["??"]; ok {
		t.Error("?? must not appear in nation tallies")
	}
	if _, ok := mt.Nations[""]; ok {
		t.Error("empty country must not appear in nation tallies")
	}
	if mt.Nations["FR"].Losses != 2 {
		t.Errorf("FR losses = %d, want 2", mt.Nations["FR"].Losses)
	}
	if mt.Players[playerA] == nil || mt.Players[playerA].Wins != 1 {
		t.Error("player with unknown country must still be tallied")
	}
}

func TestFilter_MalformedRecords(t *testing.T) {
	good := duel("m1", "Duel", makePlayer(playerA, "DE", 0, 0), makePlayer(playerB, "FR", 0, 0))

	noID := good
	noID.MatchID = ""

	noMode := good
	noMode.GameMode = ""

	noTime := good
	noTime.StartedAt = time.Time{}

	empty := makeMatch("m5", "Duel")

	badPlayer := makeMatch("m6", "Duel", model.PlayerResult{PlayerID: 0, Outcome: model.OutcomeWin})

	valid, skipped := Filter([]model.MatchRecord{good, noID, noMode, noTime, empty, badPlayer})
	if len(valid) != 1 || valid[0].MatchID != "m1" {
		t.Fatalf("got %d valid records, want just m1", len(valid))
	}
	if skipped != 5 {
		t.Errorf("skipped = %d, want 5", skipped)
	}
}

func TestNationPlayers_Ordering(t *testing.T) {
	cfg := config.Default()
	// A: 2 net wins, B: 1 net win, C: 1 net win (name tiebreak), all DE.
	pa := makePlayer(playerA, "DE", 0, 0)
	pa.Name = "alice"
	pb := makePlayer(playerB, "DE", 0, 0)
	pb.Name = "bob"
	pc := makePlayer(playerC, "DE", 0, 0)
	pc.Name = "ann"
	opp := makePlayer(playerD, "FR", 0, 0)

	records := []model.MatchRecord{
		duel("m1", "Duel", pa, opp),
		duel("m2", "Duel", pa, opp),
		duel("m3", "Duel", pb, opp),
		duel("m4", "Duel", pc, opp),
	}

	res := Tally(records, cfg)
	players := res.Modes["Duel"].NationPlayers("DE")
	if len(players) != 3 {
		t.Fatalf("got %d DE players, want 3", len(players))
	}
	if players[0].PlayerID != playerA {
		t.Errorf("first should be alice (most net wins), got %d", players[0].PlayerID)
	}
	// ann and bob tie on net wins; name ascending puts ann first.
	if players[1].Name != "ann" || players[2].Name != "bob" {
		t.Errorf("tie order = [%s %s], want [ann bob]", players[1].Name, players[2].Name)
	}
}
