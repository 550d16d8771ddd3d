package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"barrank/internal/pipeline"
	"barrank/internal/report"
)

var teamsCmd = &cobra.Command{
	Use:   "teams <party|community|pairs>",
	Short: "Inferred team structures for the active window",
	Long: `Detect social structures from match rosters:

  party      recurring exact rosters queued under a shared party id
  community  graph clusters of players who frequently play together
  pairs      frequent player pairs with their synergy metric`,
	Args: cobra.ExactArgs(1),
	RunE: runTeams,
}

func runTeams(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	switch args[0] {
	case "pairs":
		pairs := engine.FrequentPairs()
		if len(pairs) == 0 {
			fmt.Fprintln(os.Stdout, "No pairs above the weight threshold.")
			return nil
		}
		report.PrintPairs(os.Stdout, pairs)
		return nil
	default:
		teamType, err := pipeline.ParseTeamType(args[0])
		if err != nil {
			return err
		}
		set, err := engine.BuildTeams(teamType)
		if err != nil {
			return err
		}
		if len(set.Parties) == 0 && len(set.Communities) == 0 {
			fmt.Fprintf(os.Stdout, "No %s teams detected in the active window.\n", teamType)
			return nil
		}
		report.PrintTeamSet(os.Stdout, set)
		return nil
	}
}
