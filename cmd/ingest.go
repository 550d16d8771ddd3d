package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"barrank/internal/aggregate"
	"barrank/internal/model"
	"barrank/internal/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <matches.json>...",
	Short: "Load match record files into the match store",
	Long: `Read one or more JSON files of match records (the data mart export
format) and store them. Malformed records are skipped and counted, never
fatal; re-ingesting the same file is idempotent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

// ingestPlayer is the wire form of one roster slot.
type ingestPlayer struct {
	PlayerID uint64 `json:"player_id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	PartyID  string `json:"party_id"`
	TeamSide int    `json:"team_side"`
	Outcome  string `json:"outcome"`
}

// ingestMatch is the wire form of one match record.
type ingestMatch struct {
	MatchID   string         `json:"match_id"`
	GameMode  string         `json:"game_mode"`
	StartedAt time.Time      `json:"started_at"`
	Players   []ingestPlayer `json:"players"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := newLogger()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	totalStored, totalSkipped := 0, 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var wire []ingestMatch
		if err := json.Unmarshal(data, &wire); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		records := make([]model.MatchRecord, 0, len(wire))
		for _, m := range wire {
			rec := model.MatchRecord{
				MatchID:   m.MatchID,
				GameMode:  m.GameMode,
				StartedAt: m.StartedAt,
			}
			for _, p := range m.Players {
				rec.Players = append(rec.Players, model.PlayerResult{
					PlayerID: p.PlayerID,
					Name:     p.Name,
					Country:  p.Country,
					PartyID:  p.PartyID,
					TeamSide: p.TeamSide,
					Outcome:  model.ParseOutcome(p.Outcome),
				})
			}
			records = append(records, rec)
		}

		valid, skipped := aggregate.Filter(records)
		if err := db.InsertMatches(valid); err != nil {
			return fmt.Errorf("store %s: %w", path, err)
		}
		log.Info().
			Str("file", path).
			Int("stored", len(valid)).
			Int("skipped", skipped).
			Msg("file ingested")
		totalStored += len(valid)
		totalSkipped += skipped
	}

	fmt.Fprintf(os.Stdout, "Ingested %d matches (%d malformed records skipped).\n",
		totalStored, totalSkipped)
	return nil
}
