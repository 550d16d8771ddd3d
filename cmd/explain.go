package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"barrank/internal/report"
)

var explainMode string

var explainCmd = &cobra.Command{
	Use:   "explain <country-code>",
	Short: "Full score breakdown for one nation",
	Long: `Show how a nation's leaderboard score comes together: raw score,
confidence factor, adjusted score, rank, and the per-player distribution
of net wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainMode, "mode", "", "game mode to explain (required)")
	explainCmd.MarkFlagRequired("mode")
}

func runExplain(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	bd, err := engine.ExplainNationScore(strings.ToUpper(args[0]), explainMode)
	if err != nil {
		return err
	}
	report.PrintBreakdown(os.Stdout, bd)
	return nil
}
