package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"barrank/internal/config"
	"barrank/internal/model"
	"barrank/internal/pipeline"
	"barrank/internal/storage"
)

var (
	dbPath     string
	configPath string
	windowDays int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "barrank",
	Short: "BAR nation ranking and team analysis engine",
	Long: "Aggregate Beyond All Reason match history into confidence-corrected\n" +
		"nation rankings, player leaderboards, and inferred team structures.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".barrank", "matches.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite match store")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML threshold config")
	rootCmd.PersistentFlags().IntVar(&windowDays, "window-days", 0, "override the active window size in days")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// newLogger builds the CLI logger; debug level behind --verbose.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)
}

// loadConfig resolves the threshold configuration, CLI flags winning over
// file and environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if windowDays > 0 {
		cfg.WindowDays = windowDays
	}
	return cfg, nil
}

// buildEngine reads the active window from the match store and prepares an
// engine over that snapshot. All data is read once here; nothing touches
// the store afterwards.
func buildEngine() (*pipeline.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger()

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	window := model.Window{From: now.AddDate(0, 0, -cfg.WindowDays), To: now}
	records, err := db.MatchesBetween(window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}

	snap := pipeline.NewSnapshot(records, window)
	if snap.Skipped > 0 {
		log.Warn().Int("skipped", snap.Skipped).Msg("malformed match records ignored")
	}
	return pipeline.NewEngine(cfg, log, snap), nil
}
