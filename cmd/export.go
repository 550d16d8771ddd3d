package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the full pipeline and write the result set as JSON",
	Long: `Compute every game mode slice plus team structures over the active
window and write the complete result set as JSON for the result publisher.
A slice whose confidence factor is undefined is labeled as failed in place;
the other slices are exported normally.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}

	result, err := engine.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stdout, "Exported %d game modes, %d parties, %d communities, %d pairs to %s\n",
		len(result.Modes), len(result.Parties), len(result.Communities), len(result.Pairs), exportOut)
	return nil
}
