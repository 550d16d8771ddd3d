package rankings

import (
	"fmt"
	"sort"

	"barrank/internal/aggregate"
	"barrank/internal/config"
	"barrank/internal/model"
)

// BuildNationLeaderboard filters, scores and ranks the nations of one game
// mode. Returns a SliceFailure wrapping ErrNoNations when the confidence
// factor is undefined for the slice.
func BuildNationLeaderboard(mt *aggregate.ModeTallies, cfg config.Config) (*model.NationLeaderboard, error) {
	cf, err := DeriveConfidence(mt.Nations)
	if err != nil {
		return nil, &SliceFailure{GameMode: mt.GameMode, Err: err}
	}

	lb := &model.NationLeaderboard{
		GameMode: mt.GameMode,
		K:        cf.K,
		CF:       cf.CF,
		MinGames: cf.MinGames,
	}

	for _, na := range mt.Nations {
		if float64(na.TotalGames) < cf.MinGames {
			continue // below the activity gate; filtered, not an error
		}
		adjusted := AdjustedScore(na.Wins, na.Losses, na.TotalGames, cf.CF)
		lb.Nations = append(lb.Nations, model.NationScore{
			Country:         na.Country,
			GameMode:        mt.GameMode,
			Wins:            na.Wins,
			Losses:          na.Losses,
			TotalGames:      na.TotalGames,
			Players:         na.Players,
			RawScore:        na.Wins - na.Losses,
			AdjustedScore:   adjusted,
			DisplayScore:    DisplayScore(adjusted),
			TopContributors: topContributors(mt, na.Country, cfg.TopContributors),
		})
	}

	// Descending adjusted score; ties broken by higher total games, then
	// country code ascending, so output order never depends on input order.
	sort.Slice(lb.Nations, func(i, j int) bool {
		a, b := lb.Nations[i], lb.Nations[j]
		if a.AdjustedScore != b.AdjustedScore {
			return a.AdjustedScore > b.AdjustedScore
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.Country < b.Country
	})
	for i := range lb.Nations {
		lb.Nations[i].Rank = i + 1
	}
	return lb, nil
}

// topContributors picks the nation's best players by net wins. Only
// positive contributors are attached.
func topContributors(mt *aggregate.ModeTallies, country string, limit int) []model.Contributor {
	players := mt.NationPlayers(country)
	out := make([]model.Contributor, 0, limit)
	for _, pt := range players {
		if pt.NetWins() <= 0 {
			break // sorted desc; nothing positive remains
		}
		out = append(out, model.Contributor{
			PlayerID: pt.PlayerID,
			Name:     pt.Name,
			NetWins:  pt.NetWins(),
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// BuildPlayerLeaderboard ranks individual players of one game mode with no
// confidence correction, truncated for delivery.
func BuildPlayerLeaderboard(mt *aggregate.ModeTallies, cfg config.Config) *model.PlayerLeaderboard {
	var ranked []model.PlayerRank
	for _, pt := range mt.Players {
		if pt.TotalGames < cfg.MinPlayerGames {
			continue
		}
		ranked = append(ranked, model.PlayerRank{
			PlayerID:   pt.PlayerID,
			Name:       pt.Name,
			Country:    pt.Country,
			Rating:     pt.NetWins(),
			Wins:       pt.Wins,
			Losses:     pt.Losses,
			TotalGames: pt.TotalGames,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.PlayerID < b.PlayerID
	})

	total := len(ranked)
	if total > cfg.LeaderboardSize {
		ranked = ranked[:cfg.LeaderboardSize]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return &model.PlayerLeaderboard{
		GameMode:     mt.GameMode,
		Players:      ranked,
		TotalPlayers: total,
	}
}

// ExplainNationScore produces the full breakdown for one nation in one game
// mode: formula inputs, rank (when qualified) and the per-player net-win
// distribution.
func ExplainNationScore(mt *aggregate.ModeTallies, country string, cfg config.Config) (*model.NationScoreBreakdown, error) {
	cf, err := DeriveConfidence(mt.Nations)
	if err != nil {
		return nil, &SliceFailure{GameMode: mt.GameMode, Err: err}
	}
	na, ok := mt.Nations[country]
	if !ok {
		return nil, fmt.Errorf("nation %q has no recorded games in mode %q", country, mt.GameMode)
	}

	adjusted := AdjustedScore(na.Wins, na.Losses, na.TotalGames, cf.CF)
	bd := &model.NationScoreBreakdown{
		Country:       country,
		GameMode:      mt.GameMode,
		Wins:          na.Wins,
		Losses:        na.Losses,
		TotalGames:    na.TotalGames,
		RawScore:      na.Wins - na.Losses,
		AdjustedScore: adjusted,
		DisplayScore:  DisplayScore(adjusted),
		K:             cf.K,
		CF:            cf.CF,
		Qualified:     float64(na.TotalGames) >= cf.MinGames,
	}

	if bd.Qualified {
		lb, err := BuildNationLeaderboard(mt, cfg)
		if err != nil {
			return nil, err
		}
		for _, ns := range lb.Nations {
			if ns.Country == country {
				bd.Rank = ns.Rank
				break
			}
		}
	}

	for _, pt := range mt.NationPlayers(country) {
		bd.Distribution = append(bd.Distribution, model.PlayerNetWins{
			PlayerID: pt.PlayerID,
			Name:     pt.Name,
			Wins:     pt.Wins,
			Losses:   pt.Losses,
			NetWins:  pt.NetWins(),
		})
	}
	return bd, nil
}
