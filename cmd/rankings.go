package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"barrank/internal/rankings"
	"barrank/internal/report"
)

var rankingsMode string

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Nation leaderboards for the active window",
	Long: `Compute confidence-corrected nation leaderboards over the active
window. Without --mode, every game mode present in the window is ranked;
a game mode whose confidence factor is undefined is reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runRankings,
}

func init() {
	rankingsCmd.Flags().StringVar(&rankingsMode, "mode", "", "restrict to one game mode")
}

func runRankings(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	modes := engine.GameModes()
	if rankingsMode != "" {
		modes = []string{rankingsMode}
	}
	if len(modes) == 0 {
		fmt.Fprintln(os.Stdout, "No matches in the active window.")
		return nil
	}

	for _, mode := range modes {
		lb, err := engine.BuildNationLeaderboard(mode)
		if err != nil {
			var sf *rankings.SliceFailure
			if errors.As(err, &sf) {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", mode, sf.Err)
				continue
			}
			return err
		}
		report.PrintNationLeaderboard(os.Stdout, lb)
	}
	return nil
}
