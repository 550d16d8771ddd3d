package storage

import (
	"fmt"
	"strconv"
	"time"

	"barrank/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatches bulk-inserts match records with their rosters in a single
// transaction. Uses INSERT OR REPLACE so re-ingesting the same snapshot is
// idempotent.
func (db *DB) InsertMatches(records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	matchStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(match_id, game_mode, started_at)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer matchStmt.Close()

	playerStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_players(match_id, player_id, name, country, party_id, team_side, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	for _, rec := range records {
		_, err = matchStmt.Exec(rec.MatchID, rec.GameMode, rec.StartedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert match %s: %w", rec.MatchID, err)
		}
		for _, p := range rec.Players {
			_, err = playerStmt.Exec(
				rec.MatchID, strconv.FormatUint(p.PlayerID, 10),
				p.Name, p.Country, p.PartyID, p.TeamSide, p.Outcome.String(),
			)
			if err != nil {
				return fmt.Errorf("insert player %d of match %s: %w", p.PlayerID, rec.MatchID, err)
			}
		}
	}
	return tx.Commit()
}

// MatchesBetween loads all match records in the half-open window [from, to),
// rosters included, ordered by start time then match id so that runs over
// the same store are deterministic.
func (db *DB) MatchesBetween(from, to time.Time) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, game_mode, started_at
		FROM matches
		WHERE started_at >= ? AND started_at < ?
		ORDER BY started_at, match_id`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.MatchRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec model.MatchRecord
		var ts string
		if err := rows.Scan(&rec.MatchID, &rec.GameMode, &ts); err != nil {
			return nil, err
		}
		rec.StartedAt, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("bad started_at for %s: %w", rec.MatchID, err)
		}
		index[rec.MatchID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	prows, err := db.conn.Query(`
		SELECT mp.match_id, mp.player_id, mp.name, mp.country, mp.party_id, mp.team_side, mp.outcome
		FROM match_players mp
		JOIN matches m ON m.match_id = mp.match_id
		WHERE m.started_at >= ? AND m.started_at < ?
		ORDER BY mp.match_id, mp.player_id`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var matchID, playerID, outcome string
		var p model.PlayerResult
		if err := prows.Scan(&matchID, &playerID, &p.Name, &p.Country, &p.PartyID, &p.TeamSide, &outcome); err != nil {
			return nil, err
		}
		p.PlayerID, err = strconv.ParseUint(playerID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad player_id %q: %w", playerID, err)
		}
		p.Outcome = model.ParseOutcome(outcome)
		if i, ok := index[matchID]; ok {
			records[i].Players = append(records[i].Players, p)
		}
	}
	return records, prows.Err()
}

// ListMatches returns summaries of all stored matches, newest first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.match_id, m.game_mode, m.started_at, COUNT(mp.player_id)
		FROM matches m
		LEFT JOIN match_players mp ON mp.match_id = m.match_id
		GROUP BY m.match_id
		ORDER BY m.started_at DESC, m.match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		var ts string
		if err := rows.Scan(&s.MatchID, &s.GameMode, &ts, &s.Players); err != nil {
			return nil, err
		}
		s.StartedAt, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("bad started_at for %s: %w", s.MatchID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetOverview returns high-level counts about the store.
func (db *DB) GetOverview() (model.StoreOverview, error) {
	var ov model.StoreOverview
	var earliest, latest *string
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COUNT(DISTINCT game_mode),
		       MIN(started_at),
		       MAX(started_at)
		FROM matches`).Scan(&ov.TotalMatches, &ov.UniqueModes, &earliest, &latest)
	if err != nil {
		return ov, err
	}
	if err := db.conn.QueryRow(`SELECT COUNT(DISTINCT player_id) FROM match_players`).
		Scan(&ov.UniquePlayers); err != nil {
		return ov, err
	}
	if earliest != nil {
		if ov.EarliestMatch, err = time.Parse(time.RFC3339, *earliest); err != nil {
			return ov, err
		}
	}
	if latest != nil {
		if ov.LatestMatch, err = time.Parse(time.RFC3339, *latest); err != nil {
			return ov, err
		}
	}
	return ov, nil
}

// DropMatch removes a match and its roster.
func (db *DB) DropMatch(matchID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM match_players WHERE match_id = ?", matchID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE match_id = ?", matchID); err != nil {
		return err
	}
	return tx.Commit()
}
