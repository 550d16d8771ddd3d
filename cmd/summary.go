package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"barrank/internal/storage"
)

// summaryCmd displays a high-level overview of the match store.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the match store",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'barrank ingest <matches.json>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Match Store Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n",
		ov.EarliestMatch.Format(time.DateOnly), ov.LatestMatch.Format(time.DateOnly))
	fmt.Fprintf(os.Stdout, "  Game modes     : %d\n", ov.UniqueModes)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.UniquePlayers)
	return nil
}
