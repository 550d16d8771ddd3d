package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"barrank/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'barrank ingest <matches.json>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-12s  %-19s  %s\n", "MATCH", "MODE", "STARTED", "PLAYERS")
	fmt.Fprintf(os.Stdout, "%-20s  %-12s  %-19s  %s\n",
		"────────────────────", "────────────", "───────────────────", "───────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-20s  %-12s  %-19s  %7d\n",
			m.MatchID, m.GameMode, m.StartedAt.Format(time.DateTime), m.Players)
	}
	return nil
}
