package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"barrank/internal/report"
)

var playersMode string

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Global player leaderboards for the active window",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().StringVar(&playersMode, "mode", "", "restrict to one game mode")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	modes := engine.GameModes()
	if playersMode != "" {
		modes = []string{playersMode}
	}
	if len(modes) == 0 {
		fmt.Fprintln(os.Stdout, "No matches in the active window.")
		return nil
	}

	for _, mode := range modes {
		lb, err := engine.BuildPlayerLeaderboard(mode)
		if err != nil {
			return err
		}
		report.PrintPlayerLeaderboard(os.Stdout, lb)
	}
	return nil
}
