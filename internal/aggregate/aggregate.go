// Package aggregate tallies raw match records into per-nation and
// per-player win/loss aggregates, one slice per game mode.
package aggregate

import (
	"sort"

	"barrank/internal/config"
	"barrank/internal/model"
)

// ModeTallies is the aggregation output for one game mode.
type ModeTallies struct {
	GameMode string
	// Nations maps country code → aggregate, nation-filtered input only.
	Nations map[string]*model.NationAggregate
	// Players maps player id → tally. Built from all valid players,
	// including those without a resolvable nation (the global player
	// leaderboard is not nation-scoped).
	Players map[uint64]*model.PlayerTally
}

// Result is the full aggregation output across game modes.
type Result struct {
	Modes map[string]*ModeTallies
	// SkippedRecords counts malformed MatchRecords rejected at ingestion.
	SkippedRecords int
}

// GameModes returns the aggregated mode names, sorted.
func (r *Result) GameModes() []string {
	modes := make([]string, 0, len(r.Modes))
	for m := range r.Modes {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}

// ValidRecord reports whether rec carries the required fields. Records
// failing this check are skipped, never treated as fatal.
func ValidRecord(rec model.MatchRecord) bool {
	if rec.MatchID == "" || rec.GameMode == "" || rec.StartedAt.IsZero() {
		return false
	}
	if len(rec.Players) == 0 {
		return false
	}
	for _, p := range rec.Players {
		if p.PlayerID == 0 || p.TeamSide < 0 || p.Outcome == model.OutcomeUnknown {
			return false
		}
	}
	return true
}

// Filter splits records into valid and skipped-count.
func Filter(records []model.MatchRecord) ([]model.MatchRecord, int) {
	valid := make([]model.MatchRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if !ValidRecord(rec) {
			skipped++
			continue
		}
		valid = append(valid, rec)
	}
	return valid, skipped
}

// Tally aggregates the given records. Malformed records are skipped and
// counted; draws are excluded from win/loss tallies; players without a
// resolvable nation contribute to player tallies but not nation ones.
func Tally(records []model.MatchRecord, cfg config.Config) *Result {
	valid, skipped := Filter(records)

	res := &Result{
		Modes:          make(map[string]*ModeTallies),
		SkippedRecords: skipped,
	}
	// Distinct contributing players per (mode, nation).
	nationPlayers := make(map[string]map[string]map[uint64]struct{})

	for _, rec := range valid {
		mt := res.Modes[rec.GameMode]
		if mt == nil {
			mt = &ModeTallies{
				GameMode: rec.GameMode,
				Nations:  make(map[string]*model.NationAggregate),
				Players:  make(map[uint64]*model.PlayerTally),
			}
			res.Modes[rec.GameMode] = mt
			nationPlayers[rec.GameMode] = make(map[string]map[uint64]struct{})
		}

		for _, p := range rec.Players {
			if p.Outcome == model.OutcomeDraw {
				continue
			}
			won := p.Outcome == model.OutcomeWin

			pt := mt.Players[p.PlayerID]
			if pt == nil {
				pt = &model.PlayerTally{
					PlayerID: p.PlayerID,
					Name:     p.Name,
					Country:  p.Country,
					GameMode: rec.GameMode,
				}
				mt.Players[p.PlayerID] = pt
			}
			pt.TotalGames++
			if won {
				pt.Wins++
			} else {
				pt.Losses++
			}
			if pt.Name == "" && p.Name != "" {
				pt.Name = p.Name
			}

			if !cfg.FactionAllowed(p.Country) {
				continue
			}
			na := mt.Nations[p.Country]
			if na == nil {
				na = &model.NationAggregate{Country: p.Country, GameMode: rec.GameMode}
				mt.Nations[p.Country] = na
			}
			na.TotalGames++
			if won {
				na.Wins++
			} else {
				na.Losses++
			}
			seen := nationPlayers[rec.GameMode][p.Country]
			if seen == nil {
				seen = make(map[uint64]struct{})
				nationPlayers[rec.GameMode][p.Country] = seen
			}
			seen[p.PlayerID] = struct{}{}
		}
	}

	for mode, byNation := range nationPlayers {
		for cc, seen := range byNation {
			res.Modes[mode].Nations[cc].Players = len(seen)
		}
	}
	return res
}

// NationPlayers returns the tallies of players from one nation in one mode,
// sorted by net wins descending (ties: name ascending, then id).
func (mt *ModeTallies) NationPlayers(country string) []model.PlayerTally {
	var out []model.PlayerTally
	for _, pt := range mt.Players {
		if pt.Country == country {
			out = append(out, *pt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetWins() != out[j].NetWins() {
			return out[i].NetWins() > out[j].NetWins()
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
