package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"barrank/internal/pipeline"
	"barrank/internal/report"
)

var searchType string

var searchCmd = &cobra.Command{
	Use:   "search <player-name>",
	Short: "Find teams a player belongs to",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "party", "team type to search (party or community)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	teamType, err := pipeline.ParseTeamType(searchType)
	if err != nil {
		return err
	}
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	set, err := engine.SearchTeams(args[0], teamType)
	if err != nil {
		return err
	}
	if len(set.Parties) == 0 && len(set.Communities) == 0 {
		fmt.Fprintf(os.Stdout, "No %s teams found for %q.\n", teamType, args[0])
		return nil
	}
	report.PrintTeamSet(os.Stdout, set)
	return nil
}
