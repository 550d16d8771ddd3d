package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"barrank/internal/storage"
)

var dropForce bool

// dropCmd removes a single match from the store, e.g. after a bad ingest.
var dropCmd = &cobra.Command{
	Use:   "drop <match-id>",
	Short: "Remove one match and its roster from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	matchID := args[0]
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete match %s from %s\n", matchID, dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.MatchExists(matchID)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintf(os.Stdout, "Match %s is not stored, nothing to drop.\n", matchID)
		return nil
	}
	if err := db.DropMatch(matchID); err != nil {
		return fmt.Errorf("drop match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Dropped: %s\n", matchID)
	return nil
}
